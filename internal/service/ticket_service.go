package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/deskforge/support-service/internal/domain"
	"github.com/deskforge/support-service/internal/events"
	"github.com/deskforge/support-service/internal/repository"
	"github.com/deskforge/support-service/pkg/util"
)

// maxMintAttempts bounds the retry loop when two concurrent creations race
// for the same ticket number.
const maxMintAttempts = 5

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	agents     repository.AgentRepository
	taxonomy   *TaxonomyService
	settings   *SettingsService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	AgentRepo  repository.AgentRepository
	Taxonomy   *TaxonomyService
	Settings   *SettingsService
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService creates the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		agents:     deps.AgentRepo,
		taxonomy:   deps.Taxonomy,
		settings:   deps.Settings,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Attachment  string

	RaisedBy        string
	RaisedByID      int64
	CustomerDetails *domain.CustomerDetails

	Tags       []string
	Priority   string
	Department string

	OutletIssueID       int64
	OutletCategoryID    int64
	OutletSubCategoryID int64

	Source *domain.SourceInfo
}

// TicketListInput describes listing parameters.
type TicketListInput struct {
	Search    string
	Filters   map[string]any
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// Create validates the payload, mints the next per-outlet ticket number and
// persists the ticket, optionally auto-assigning it.
func (s *TicketService) Create(ctx context.Context, outletID int64, input TicketCreateInput) (*domain.Ticket, error) {
	settings, err := s.settings.Get(ctx, outletID)
	if err != nil {
		return nil, err
	}
	doc := settings.Settings

	if strings.TrimSpace(input.Subject) == "" {
		return nil, util.NewValidationError("subject is required", nil)
	}
	if strings.TrimSpace(input.Department) == "" {
		return nil, util.NewValidationError("department is required", nil)
	}
	raisedBy, ok := domain.ParseRaisedBy(input.RaisedBy)
	if !ok {
		return nil, util.NewValidationError("invalid raised_by", map[string]any{"raised_by": input.RaisedBy})
	}
	priority, ok := domain.ParseTicketPriority(input.Priority)
	if !ok {
		return nil, util.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}
	if input.OutletIssueID <= 0 || input.OutletCategoryID <= 0 || input.OutletSubCategoryID <= 0 {
		return nil, util.NewValidationError("issue, category and sub-category are required", nil)
	}
	if doc.EmailRequired && raisedBy == domain.RaisedByCustomer {
		if input.CustomerDetails == nil || strings.TrimSpace(input.CustomerDetails.CustomerEmail) == "" {
			return nil, util.NewValidationError("customer email is required", nil)
		}
	}

	names, err := s.taxonomy.Validate(ctx, outletID, input.OutletIssueID, input.OutletCategoryID, input.OutletSubCategoryID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		OutletID:                outletID,
		Subject:                 strings.TrimSpace(input.Subject),
		Description:             input.Description,
		Attachment:              input.Attachment,
		RaisedBy:                raisedBy,
		RaisedByID:              input.RaisedByID,
		CustomerDetails:         input.CustomerDetails,
		Tags:                    input.Tags,
		Priority:                priority,
		Department:              strings.TrimSpace(input.Department),
		OutletIssueID:           input.OutletIssueID,
		OutletCategoryID:        input.OutletCategoryID,
		OutletSubCategoryID:     input.OutletSubCategoryID,
		IssueNameSnapshot:       names.IssueName,
		CategoryNameSnapshot:    names.CategoryName,
		SubCategoryNameSnapshot: names.SubCategoryName,
		Status:                  domain.TicketStatusPending,
		Source:                  input.Source,
	}

	if doc.AutoAssign {
		agentID, err := s.pickLeastLoadedAgent(ctx, outletID, ticket.Department)
		if err != nil {
			return nil, err
		}
		if agentID != nil {
			ticket.AssignedAgentID = agentID
			ticket.Status = domain.TicketStatusAssigned
		}
	}

	if err := s.mintAndCreate(ctx, outletID, doc, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		OutletID: outletID,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			SupportTicketID: ticket.SupportTicketID,
			Subject:         ticket.Subject,
			Priority:        ticket.Priority,
			Department:      ticket.Department,
			RaisedBy:        ticket.RaisedBy,
			CustomerEmail:   customerEmail(ticket.CustomerDetails),
			AssignedAgentID: ticket.AssignedAgentID,
		},
	})
	if ticket.AssignedAgentID != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			OutletID: outletID,
			TicketID: ticket.ID,
			Payload:  events.TicketAssignedPayload{AgentID: ticket.AssignedAgentID},
		})
	}

	return ticket, nil
}

// mintAndCreate assigns the next sequential ticket number and inserts the
// row. A unique violation means another creation won the number; re-read
// and retry.
func (s *TicketService) mintAndCreate(ctx context.Context, outletID int64, doc domain.SettingsDoc, ticket *domain.Ticket) error {
	for attempt := 0; attempt < maxMintAttempts; attempt++ {
		lastID, err := s.tickets.LastSupportTicketID(ctx, outletID)
		if err != nil {
			return util.MapError(err)
		}
		ticket.SupportTicketID = nextSupportTicketID(lastID, doc)

		err = s.tickets.Create(ctx, ticket)
		if err == nil {
			return nil
		}
		if repository.IsUniqueViolation(err) {
			continue
		}
		return util.MapError(err)
	}
	return util.NewConflict("could not allocate ticket number", map[string]any{"outlet_id": outletID})
}

// nextSupportTicketID derives the next display identifier. The numeric part
// of the newest ticket is incremented; an outlet with no tickets starts at
// the configured start number. Numbers are zero padded to three digits.
func nextSupportTicketID(lastID string, doc domain.SettingsDoc) string {
	prefix := doc.Prefix
	if lastID != "" {
		if n, err := strconv.Atoi(digitsOf(lastID)); err == nil {
			return prefix + fmt.Sprintf("%03d", n+1)
		}
	}
	n, err := strconv.Atoi(doc.StartNo)
	if err != nil || n < 1 {
		n = 1
	}
	return prefix + fmt.Sprintf("%03d", n)
}

func digitsOf(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// pickLeastLoadedAgent returns the active department agent with the fewest
// non-closed tickets, or nil when the department has no active agents.
func (s *TicketService) pickLeastLoadedAgent(ctx context.Context, outletID int64, department string) (*int64, error) {
	agents, err := s.agents.ListActiveByDepartment(ctx, outletID, department)
	if err != nil {
		return nil, util.MapError(err)
	}
	if len(agents) == 0 {
		return nil, nil
	}

	var best *int64
	var bestCount int64
	for i := range agents {
		count, err := s.tickets.CountOpenByAgent(ctx, outletID, agents[i].ID)
		if err != nil {
			return nil, util.MapError(err)
		}
		if best == nil || count < bestCount {
			id := agents[i].ID
			best = &id
			bestCount = count
		}
	}
	return best, nil
}

// UpdateStatusAndAgent applies a lifecycle change, optionally moving the
// ticket to a different agent. An omitted agent keeps the current one.
func (s *TicketService) UpdateStatusAndAgent(ctx context.Context, outletID, ticketID int64, statusRaw string, agentID *int64) (*domain.Ticket, error) {
	if strings.TrimSpace(statusRaw) == "" {
		return nil, util.NewValidationError("status is required", nil)
	}
	next, ok := domain.ParseTicketStatus(statusRaw)
	if !ok {
		return nil, util.NewValidationError("invalid status", map[string]any{"status": statusRaw})
	}

	current, currentAgent, err := s.tickets.CurrentAssignment(ctx, ticketID, outletID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket not found", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}

	if !domain.IsValidTransition(current, next) {
		return nil, util.NewValidationError(
			fmt.Sprintf("invalid status transition from %s to %s", current, next),
			map[string]any{"current_status": current, "requested_status": next},
		)
	}

	// a provided agent is always validated, even when it matches the
	// current assignee; nil keeps the current agent untouched
	providedAgent := agentID != nil
	if agentID == nil {
		agentID = currentAgent
	}
	reassigned := agentChanged(currentAgent, agentID)
	if providedAgent {
		agent, err := s.agents.GetAnyByID(ctx, *agentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewValidationError("assigned agent not found", map[string]any{"agent_id": *agentID})
		}
		if err != nil {
			return nil, util.MapError(err)
		}
		if agent.OutletID != outletID {
			return nil, util.NewForbidden("agent belongs to another outlet")
		}
		if agent.Status != domain.AgentStatusActive {
			return nil, util.NewValidationError("agent is not active", map[string]any{"agent_id": *agentID})
		}
	}

	switch {
	case next == domain.TicketStatusClosed:
		err = s.tickets.CloseTicket(ctx, ticketID, outletID, agentID)
	case reassigned:
		err = s.tickets.ReassignTicket(ctx, ticketID, outletID, next, agentID)
	default:
		err = s.tickets.SetStatusAndAgent(ctx, ticketID, outletID, next, agentID)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket not found", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}

	if current != next {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			OutletID: outletID,
			TicketID: ticketID,
			Payload:  events.TicketStatusChangedPayload{OldStatus: current, NewStatus: next},
		})
	}
	if reassigned {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			OutletID: outletID,
			TicketID: ticketID,
			Payload:  events.TicketAssignedPayload{PreviousAgentID: currentAgent, AgentID: agentID},
		})
	}

	return s.GetByID(ctx, outletID, ticketID)
}

// GetByID fetches a ticket scoped to the outlet.
func (s *TicketService) GetByID(ctx context.Context, outletID, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket not found", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if ticket.OutletID != outletID {
		return nil, util.NewNotFound("ticket not found", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// GetBySupportTicketID fetches a ticket by its display identifier.
func (s *TicketService) GetBySupportTicketID(ctx context.Context, outletID int64, supportTicketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetBySupportTicketID(ctx, outletID, supportTicketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket not found", map[string]any{"support_ticket_id": supportTicketID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	return ticket, nil
}

// List returns one page of tickets with pagination metadata.
func (s *TicketService) List(ctx context.Context, outletID int64, input TicketListInput) ([]domain.Ticket, domain.PageMeta, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 0 {
		pageSize = 0
	}

	opts := repository.TicketListOptions{
		OutletID:  outletID,
		Search:    input.Search,
		Filters:   input.Filters,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	tickets, total, err := s.tickets.ListPage(ctx, opts)
	if errors.Is(err, repository.ErrUnsupportedFilter) {
		return nil, domain.PageMeta{}, util.NewValidationError(err.Error(), nil)
	}
	if err != nil {
		return nil, domain.PageMeta{}, util.MapError(err)
	}

	return tickets, domain.NewPageMeta(page, pageSize, len(tickets), total), nil
}

// ListByAssignedAgent returns the agent's open workload.
func (s *TicketService) ListByAssignedAgent(ctx context.Context, outletID, agentID int64) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByAssignedAgent(ctx, outletID, agentID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return tickets, nil
}

// RateAgent records the customer's rating of how the ticket was handled.
// Only closed tickets may be rated, exactly once.
func (s *TicketService) RateAgent(ctx context.Context, outletID, ticketID int64, rating int) error {
	ticket, err := s.ratableTicket(ctx, outletID, ticketID, rating)
	if err != nil {
		return err
	}
	if ticket.AgentRating != nil {
		return util.NewValidationError("ticket already rated", map[string]any{"ticket_id": ticketID})
	}
	if err := s.tickets.SetAgentRating(ctx, ticketID, outletID, rating); err != nil {
		return util.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		OutletID: outletID,
		TicketID: ticketID,
		Payload:  events.TicketRatedPayload{RatedBy: domain.RaisedByCustomer, Rating: rating},
	})
	return nil
}

// RateCustomer records the agent's rating of the customer interaction.
func (s *TicketService) RateCustomer(ctx context.Context, outletID, ticketID int64, rating int) error {
	ticket, err := s.ratableTicket(ctx, outletID, ticketID, rating)
	if err != nil {
		return err
	}
	if ticket.CustomerRating != nil {
		return util.NewValidationError("ticket already rated", map[string]any{"ticket_id": ticketID})
	}
	if err := s.tickets.SetCustomerRating(ctx, ticketID, outletID, rating); err != nil {
		return util.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRated,
		OutletID: outletID,
		TicketID: ticketID,
		Payload:  events.TicketRatedPayload{RatedBy: domain.RaisedByAgent, Rating: rating},
	})
	return nil
}

// StorefrontRate lets the ticket's own customer rate a closed ticket.
func (s *TicketService) StorefrontRate(ctx context.Context, outletID, ticketID, customerID int64, rating int) error {
	ticket, err := s.GetByID(ctx, outletID, ticketID)
	if err != nil {
		return err
	}
	if ticket.CustomerDetails == nil || ticket.CustomerDetails.CustomerID != customerID {
		return util.NewForbidden("ticket does not belong to this customer")
	}
	return s.RateAgent(ctx, outletID, ticketID, rating)
}

func (s *TicketService) ratableTicket(ctx context.Context, outletID, ticketID int64, rating int) (*domain.Ticket, error) {
	if rating < 1 || rating > 10 {
		return nil, util.NewValidationError("rating must be between 1 and 10", map[string]any{"rating": rating})
	}
	ticket, err := s.GetByID(ctx, outletID, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.TicketStatusClosed {
		return nil, util.NewValidationError("only closed tickets can be rated", map[string]any{"status": ticket.Status})
	}
	return ticket, nil
}

// Delete removes a ticket scoped to the outlet.
func (s *TicketService) Delete(ctx context.Context, outletID, ticketID int64) error {
	ticket, err := s.GetByID(ctx, outletID, ticketID)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return util.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		OutletID: outletID,
		TicketID: ticketID,
	})
	return nil
}

// StorefrontDelete removes a ticket on behalf of the customer who raised it.
func (s *TicketService) StorefrontDelete(ctx context.Context, outletID, ticketID, customerID int64) error {
	ticket, err := s.GetByID(ctx, outletID, ticketID)
	if err != nil {
		return err
	}
	if ticket.CustomerDetails == nil || ticket.CustomerDetails.CustomerID != customerID {
		return util.NewForbidden("ticket does not belong to this customer")
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return util.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		OutletID: outletID,
		TicketID: ticketID,
	})
	return nil
}

// Stats aggregates per-outlet ticket counts.
func (s *TicketService) Stats(ctx context.Context, outletID int64) (*domain.TicketStats, error) {
	stats, err := s.tickets.Stats(ctx, outletID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return stats, nil
}

func agentChanged(current, next *int64) bool {
	if (current == nil) != (next == nil) {
		return true
	}
	return current != nil && *current != *next
}

func customerEmail(details *domain.CustomerDetails) string {
	if details == nil {
		return ""
	}
	return details.CustomerEmail
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
