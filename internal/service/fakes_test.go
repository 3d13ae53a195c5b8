package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deskforge/support-service/internal/domain"
	"github.com/deskforge/support-service/internal/repository"
)

// fakeTicketRepo is an in-memory TicketRepository mirroring the SQL
// semantics of the real one closely enough for service tests.
type fakeTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64

	// errors returned by the next Create calls, in order
	createErrs []error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "tickets_outlet_id_support_ticket_id_key"}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.tickets {
		if existing.OutletID == ticket.OutletID && existing.SupportTicketID == ticket.SupportTicketID {
			return uniqueViolation()
		}
	}
	f.nextID++
	ticket.ID = f.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	f.tickets[ticket.ID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (f *fakeTicketRepo) GetBySupportTicketID(ctx context.Context, outletID int64, key string) (*domain.Ticket, error) {
	for _, ticket := range f.tickets {
		if ticket.OutletID == outletID && ticket.SupportTicketID == key {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) LastSupportTicketID(ctx context.Context, outletID int64) (string, error) {
	var lastID int64
	var last string
	for _, ticket := range f.tickets {
		if ticket.OutletID == outletID && ticket.ID > lastID {
			lastID = ticket.ID
			last = ticket.SupportTicketID
		}
	}
	return last, nil
}

func (f *fakeTicketRepo) ListPage(ctx context.Context, opts repository.TicketListOptions) ([]domain.Ticket, int64, error) {
	allowed := map[string]struct{}{
		"status": {}, "priority": {}, "department": {}, "support_ticket_id": {},
		"assigned_agent_id": {}, "tags": {}, "is_trash": {},
		"customer_id": {}, "customer_name": {}, "customer_email": {},
	}
	for key := range opts.Filters {
		if _, ok := allowed[key]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", repository.ErrUnsupportedFilter, key)
		}
	}

	matches := make([]domain.Ticket, 0)
	for _, ticket := range f.tickets {
		if ticket.OutletID != opts.OutletID {
			continue
		}
		if status, ok := opts.Filters["status"]; ok && string(ticket.Status) != fmt.Sprint(status) {
			continue
		}
		matches = append(matches, *ticket)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	total := int64(len(matches))
	if opts.Limit > 0 {
		start := opts.Offset
		if start > len(matches) {
			start = len(matches)
		}
		end := start + opts.Limit
		if end > len(matches) {
			end = len(matches)
		}
		matches = matches[start:end]
	}
	return matches, total, nil
}

func (f *fakeTicketRepo) ListByAssignedAgent(ctx context.Context, outletID, agentID int64) ([]domain.Ticket, error) {
	matches := make([]domain.Ticket, 0)
	for _, ticket := range f.tickets {
		if ticket.OutletID == outletID && ticket.AssignedAgentID != nil && *ticket.AssignedAgentID == agentID && !ticket.IsTrash {
			matches = append(matches, *ticket)
		}
	}
	return matches, nil
}

func (f *fakeTicketRepo) CurrentAssignment(ctx context.Context, id, outletID int64) (domain.TicketStatus, *int64, error) {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return "", nil, pgx.ErrNoRows
	}
	return ticket.Status, ticket.AssignedAgentID, nil
}

func (f *fakeTicketRepo) CloseTicket(ctx context.Context, id, outletID int64, agentID *int64) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return pgx.ErrNoRows
	}
	ticket.Status = domain.TicketStatusClosed
	ticket.AssignedAgentID = agentID
	if ticket.ClosedAt == nil {
		now := time.Now()
		ticket.ClosedAt = &now
	}
	ticket.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTicketRepo) ReassignTicket(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return pgx.ErrNoRows
	}
	ticket.PreviousAgents = append(ticket.PreviousAgents, domain.AssignmentRecord{
		AgentID:   ticket.AssignedAgentID,
		Timestamp: time.Now(),
	})
	ticket.Status = status
	ticket.AssignedAgentID = agentID
	ticket.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTicketRepo) SetStatusAndAgent(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.AssignedAgentID = agentID
	ticket.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTicketRepo) SetAgentRating(ctx context.Context, id, outletID int64, rating int) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return pgx.ErrNoRows
	}
	ticket.AgentRating = &rating
	return nil
}

func (f *fakeTicketRepo) SetCustomerRating(ctx context.Context, id, outletID int64, rating int) error {
	ticket, ok := f.tickets[id]
	if !ok || ticket.OutletID != outletID {
		return pgx.ErrNoRows
	}
	ticket.CustomerRating = &rating
	return nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) CountOpenByAgent(ctx context.Context, outletID, agentID int64) (int64, error) {
	var count int64
	for _, ticket := range f.tickets {
		if ticket.OutletID == outletID && ticket.AssignedAgentID != nil && *ticket.AssignedAgentID == agentID &&
			ticket.Status != domain.TicketStatusClosed && !ticket.IsTrash {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) Stats(ctx context.Context, outletID int64) (*domain.TicketStats, error) {
	stats := &domain.TicketStats{}
	for _, ticket := range f.tickets {
		if ticket.OutletID != outletID || ticket.IsTrash {
			continue
		}
		stats.Total++
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusPending:
			stats.Pending++
		case domain.TicketStatusClosed:
			stats.Closed++
		case domain.TicketStatusAssigned:
			stats.Assigned++
		}
	}
	return stats, nil
}

// fakeAgentRepo is an in-memory AgentRepository.
type fakeAgentRepo struct {
	agents map[int64]*domain.Agent
	nextID int64
}

func newFakeAgentRepo() *fakeAgentRepo {
	return &fakeAgentRepo{agents: map[int64]*domain.Agent{}}
}

func (f *fakeAgentRepo) add(agent domain.Agent) *domain.Agent {
	f.nextID++
	agent.ID = f.nextID
	f.agents[agent.ID] = &agent
	return &agent
}

func (f *fakeAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	for _, existing := range f.agents {
		if existing.UserID == agent.UserID {
			return uniqueViolation()
		}
	}
	f.nextID++
	agent.ID = f.nextID
	agent.CreatedAt = time.Now()
	agent.UpdatedAt = agent.CreatedAt
	stored := *agent
	f.agents[agent.ID] = &stored
	return nil
}

func (f *fakeAgentRepo) GetByID(ctx context.Context, id, outletID int64) (*domain.Agent, error) {
	agent, ok := f.agents[id]
	if !ok || agent.OutletID != outletID {
		return nil, pgx.ErrNoRows
	}
	clone := *agent
	return &clone, nil
}

func (f *fakeAgentRepo) GetAnyByID(ctx context.Context, id int64) (*domain.Agent, error) {
	agent, ok := f.agents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *agent
	return &clone, nil
}

func (f *fakeAgentRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	for _, agent := range f.agents {
		if agent.UserID == userID {
			clone := *agent
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAgentRepo) Update(ctx context.Context, agent *domain.Agent) error {
	existing, ok := f.agents[agent.ID]
	if !ok || existing.OutletID != agent.OutletID {
		return pgx.ErrNoRows
	}
	stored := *agent
	f.agents[agent.ID] = &stored
	return nil
}

func (f *fakeAgentRepo) Delete(ctx context.Context, id, outletID int64) error {
	agent, ok := f.agents[id]
	if !ok || agent.OutletID != outletID {
		return pgx.ErrNoRows
	}
	delete(f.agents, id)
	return nil
}

func (f *fakeAgentRepo) ListPage(ctx context.Context, opts repository.AgentListOptions) ([]domain.Agent, int64, error) {
	matches := make([]domain.Agent, 0)
	for _, agent := range f.agents {
		if agent.OutletID == opts.OutletID {
			matches = append(matches, *agent)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, int64(len(matches)), nil
}

func (f *fakeAgentRepo) ListActiveByDepartment(ctx context.Context, outletID int64, department string) ([]domain.Agent, error) {
	matches := make([]domain.Agent, 0)
	for _, agent := range f.agents {
		if agent.OutletID == outletID && agent.Department == department && agent.Status == domain.AgentStatusActive {
			matches = append(matches, *agent)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (f *fakeAgentRepo) Stats(ctx context.Context, outletID int64) (*domain.AgentStats, error) {
	stats := &domain.AgentStats{}
	for _, agent := range f.agents {
		if agent.OutletID != outletID {
			continue
		}
		stats.TotalAgents++
		if agent.Status == domain.AgentStatusActive {
			stats.TotalActiveAgents++
		}
	}
	return stats, nil
}

// fakeTaxonomyRepo serves a small fixed tree.
type fakeTaxonomyRepo struct {
	issues        map[int64]*domain.OutletIssue
	categories    map[int64]*domain.OutletCategory
	subCategories map[int64]*domain.OutletSubCategory
	issueLinks    map[[2]int64]bool
	subLinks      map[[2]int64]bool
}

func newFakeTaxonomyRepo() *fakeTaxonomyRepo {
	return &fakeTaxonomyRepo{
		issues:        map[int64]*domain.OutletIssue{},
		categories:    map[int64]*domain.OutletCategory{},
		subCategories: map[int64]*domain.OutletSubCategory{},
		issueLinks:    map[[2]int64]bool{},
		subLinks:      map[[2]int64]bool{},
	}
}

// seedChain registers an active issue -> category -> sub-category chain.
func (f *fakeTaxonomyRepo) seedChain(outletID, issueID, categoryID, subCategoryID int64) {
	f.issues[issueID] = &domain.OutletIssue{ID: issueID, OutletID: outletID, Name: "Order problem", IsActive: true}
	f.categories[categoryID] = &domain.OutletCategory{ID: categoryID, OutletID: outletID, Name: "Delivery", IsActive: true}
	f.subCategories[subCategoryID] = &domain.OutletSubCategory{ID: subCategoryID, OutletID: outletID, Name: "Late delivery", IsActive: true}
	f.issueLinks[[2]int64{issueID, categoryID}] = true
	f.subLinks[[2]int64{categoryID, subCategoryID}] = true
}

func (f *fakeTaxonomyRepo) GetOutletIssue(ctx context.Context, outletID, id int64) (*domain.OutletIssue, error) {
	issue, ok := f.issues[id]
	if !ok || issue.OutletID != outletID {
		return nil, pgx.ErrNoRows
	}
	return issue, nil
}

func (f *fakeTaxonomyRepo) GetOutletCategory(ctx context.Context, outletID, id int64) (*domain.OutletCategory, error) {
	category, ok := f.categories[id]
	if !ok || category.OutletID != outletID {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (f *fakeTaxonomyRepo) GetOutletSubCategory(ctx context.Context, outletID, id int64) (*domain.OutletSubCategory, error) {
	subCategory, ok := f.subCategories[id]
	if !ok || subCategory.OutletID != outletID {
		return nil, pgx.ErrNoRows
	}
	return subCategory, nil
}

func (f *fakeTaxonomyRepo) IssueCategoryLinked(ctx context.Context, issueID, categoryID int64) (bool, error) {
	return f.issueLinks[[2]int64{issueID, categoryID}], nil
}

func (f *fakeTaxonomyRepo) CategorySubCategoryLinked(ctx context.Context, categoryID, subCategoryID int64) (bool, error) {
	return f.subLinks[[2]int64{categoryID, subCategoryID}], nil
}

func (f *fakeTaxonomyRepo) ListOutletIssues(ctx context.Context, outletID int64) ([]domain.OutletIssue, error) {
	issues := make([]domain.OutletIssue, 0)
	for _, issue := range f.issues {
		if issue.OutletID == outletID && issue.IsActive && !issue.IsTrash {
			issues = append(issues, *issue)
		}
	}
	return issues, nil
}

func (f *fakeTaxonomyRepo) ListOutletCategories(ctx context.Context, outletID, issueID int64) ([]domain.OutletCategory, error) {
	categories := make([]domain.OutletCategory, 0)
	for _, category := range f.categories {
		if category.OutletID == outletID && f.issueLinks[[2]int64{issueID, category.ID}] {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (f *fakeTaxonomyRepo) ListOutletSubCategories(ctx context.Context, outletID, categoryID int64) ([]domain.OutletSubCategory, error) {
	subCategories := make([]domain.OutletSubCategory, 0)
	for _, subCategory := range f.subCategories {
		if subCategory.OutletID == outletID && f.subLinks[[2]int64{categoryID, subCategory.ID}] {
			subCategories = append(subCategories, *subCategory)
		}
	}
	return subCategories, nil
}

// fakeSettingsRepo is an in-memory SettingsRepository.
type fakeSettingsRepo struct {
	byOutlet map[int64]*domain.SupportSettings
	nextID   int64
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{byOutlet: map[int64]*domain.SupportSettings{}}
}

func (f *fakeSettingsRepo) GetByOutletID(ctx context.Context, outletID int64) (*domain.SupportSettings, error) {
	settings, ok := f.byOutlet[outletID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *settings
	return &clone, nil
}

func (f *fakeSettingsRepo) GetByWebURL(ctx context.Context, webURL string) (*domain.SupportSettings, error) {
	for _, settings := range f.byOutlet {
		if settings.WebURL == webURL {
			clone := *settings
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.SupportSettings) error {
	existing, ok := f.byOutlet[settings.OutletID]
	if ok {
		settings.ID = existing.ID
		settings.APIKeyHash = existing.APIKeyHash
	} else {
		f.nextID++
		settings.ID = f.nextID
	}
	stored := *settings
	f.byOutlet[settings.OutletID] = &stored
	return nil
}

func (f *fakeSettingsRepo) SetAPIKeyHash(ctx context.Context, outletID int64, hash string) error {
	settings, ok := f.byOutlet[outletID]
	if !ok {
		return pgx.ErrNoRows
	}
	settings.APIKeyHash = hash
	return nil
}
