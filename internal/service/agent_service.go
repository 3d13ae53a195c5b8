package service

import (
	"context"
	"errors"
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

// AgentService manages the per-outlet agent directory.
type AgentService struct {
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AgentDependencies bundles collaborators for the agent service.
type AgentDependencies struct {
	AgentRepo  repository.AgentRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAgentService creates the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	return &AgentService{
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// AgentRegisterInput describes agent registration payload.
type AgentRegisterInput struct {
	UserID      int64
	FirstName   string
	LastName    string
	Email       string
	CountryCode string
	Phone       string
	Location    string
	Timezone    string
	Bio         string

	Level       string
	Department  string
	Status      string
	HiredAt     *time.Time
	Category    string
	SubCategory string

	Skills    []string
	Languages []string

	WorkingHours domain.WorkingHours
	WorkingDays  []string
}

// AgentUpdateInput carries partial updates; nil fields keep current values.
type AgentUpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	CountryCode *string
	Phone       *string
	Location    *string
	Timezone    *string
	Bio         *string

	Level       *string
	Department  *string
	Status      *string
	HiredAt     *time.Time
	Category    *string
	SubCategory *string

	Skills    []string
	Languages []string

	WorkingHours *domain.WorkingHours
	WorkingDays  []string
}

// AgentListInput describes listing parameters.
type AgentListInput struct {
	Search    string
	Filters   map[string]any
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// Register creates a new agent profile. A platform user may hold at most
// one profile across all outlets.
func (s *AgentService) Register(ctx context.Context, outletID int64, input AgentRegisterInput) (*domain.Agent, error) {
	if input.UserID <= 0 {
		return nil, util.NewValidationError("user_id is required", nil)
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, util.NewValidationError("first_name and last_name are required", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, util.NewValidationError("email is required", nil)
	}

	level, ok := domain.ParseAgentLevel(input.Level)
	if !ok {
		return nil, util.NewValidationError("invalid level", map[string]any{"level": input.Level})
	}
	status := domain.AgentStatusActive
	if strings.TrimSpace(input.Status) != "" {
		status, ok = domain.ParseAgentStatus(input.Status)
		if !ok {
			return nil, util.NewValidationError("invalid status", map[string]any{"status": input.Status})
		}
	}
	category, ok := domain.ParseAgentCategory(input.Category)
	if !ok {
		return nil, util.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}
	subCategory, ok := domain.ParseAgentSubCategory(input.SubCategory)
	if !ok {
		return nil, util.NewValidationError("invalid sub_category", map[string]any{"sub_category": input.SubCategory})
	}
	if !domain.ValidClassification(category, subCategory) {
		return nil, util.NewValidationError("sub_category does not match category", map[string]any{
			"category":     category,
			"sub_category": subCategory,
		})
	}

	existing, err := s.agents.GetByUserID(ctx, input.UserID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}
	if existing != nil {
		return nil, util.NewConflict("agent already registered for this user", map[string]any{"user_id": input.UserID})
	}

	hiredAt := time.Now()
	if input.HiredAt != nil {
		hiredAt = *input.HiredAt
	}

	agent := &domain.Agent{
		OutletID:     outletID,
		UserID:       input.UserID,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		CountryCode:  input.CountryCode,
		Phone:        input.Phone,
		Location:     input.Location,
		Timezone:     input.Timezone,
		Bio:          input.Bio,
		Level:        level,
		Department:   strings.TrimSpace(input.Department),
		Status:       status,
		HiredAt:      hiredAt,
		Category:     category,
		SubCategory:  subCategory,
		Skills:       input.Skills,
		Languages:    input.Languages,
		WorkingHours: input.WorkingHours,
		WorkingDays:  input.WorkingDays,
	}

	if err := s.agents.Create(ctx, agent); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.NewConflict("agent already registered for this user", map[string]any{"user_id": input.UserID})
		}
		return nil, util.MapError(err)
	}

	s.publishAgentEvent(ctx, events.Event{
		Type:     events.EventAgentRegistered,
		OutletID: outletID,
		Payload: events.AgentRegisteredPayload{
			AgentID:    agent.ID,
			UserID:     agent.UserID,
			Level:      agent.Level,
			Department: agent.Department,
		},
	})

	return agent, nil
}

// Update applies a partial update to an agent profile.
func (s *AgentService) Update(ctx context.Context, outletID, agentID int64, input AgentUpdateInput) (*domain.Agent, error) {
	agent, err := s.Get(ctx, outletID, agentID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		agent.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		agent.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		agent.Email = strings.TrimSpace(*input.Email)
	}
	if input.CountryCode != nil {
		agent.CountryCode = *input.CountryCode
	}
	if input.Phone != nil {
		agent.Phone = *input.Phone
	}
	if input.Location != nil {
		agent.Location = *input.Location
	}
	if input.Timezone != nil {
		agent.Timezone = *input.Timezone
	}
	if input.Bio != nil {
		agent.Bio = *input.Bio
	}
	if input.Level != nil {
		level, ok := domain.ParseAgentLevel(*input.Level)
		if !ok {
			return nil, util.NewValidationError("invalid level", map[string]any{"level": *input.Level})
		}
		agent.Level = level
	}
	if input.Department != nil {
		agent.Department = strings.TrimSpace(*input.Department)
	}
	if input.Status != nil {
		status, ok := domain.ParseAgentStatus(*input.Status)
		if !ok {
			return nil, util.NewValidationError("invalid status", map[string]any{"status": *input.Status})
		}
		agent.Status = status
	}
	if input.HiredAt != nil {
		agent.HiredAt = *input.HiredAt
	}
	if input.Category != nil {
		category, ok := domain.ParseAgentCategory(*input.Category)
		if !ok {
			return nil, util.NewValidationError("invalid category", map[string]any{"category": *input.Category})
		}
		agent.Category = category
	}
	if input.SubCategory != nil {
		subCategory, ok := domain.ParseAgentSubCategory(*input.SubCategory)
		if !ok {
			return nil, util.NewValidationError("invalid sub_category", map[string]any{"sub_category": *input.SubCategory})
		}
		agent.SubCategory = subCategory
	}
	if !domain.ValidClassification(agent.Category, agent.SubCategory) {
		return nil, util.NewValidationError("sub_category does not match category", map[string]any{
			"category":     agent.Category,
			"sub_category": agent.SubCategory,
		})
	}
	if input.Skills != nil {
		agent.Skills = input.Skills
	}
	if input.Languages != nil {
		agent.Languages = input.Languages
	}
	if input.WorkingHours != nil {
		agent.WorkingHours = *input.WorkingHours
	}
	if input.WorkingDays != nil {
		agent.WorkingDays = input.WorkingDays
	}

	if err := s.agents.Update(ctx, agent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("agent not found", map[string]any{"agent_id": agentID})
		}
		return nil, util.MapError(err)
	}
	return agent, nil
}

// Get fetches an agent scoped to the outlet.
func (s *AgentService) Get(ctx context.Context, outletID, agentID int64) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, agentID, outletID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("agent not found", map[string]any{"agent_id": agentID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	return agent, nil
}

// GetByUserID fetches the agent profile tied to a platform user.
func (s *AgentService) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	agent, err := s.agents.GetByUserID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("agent not found", map[string]any{"user_id": userID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	return agent, nil
}

// Delete removes an agent profile.
func (s *AgentService) Delete(ctx context.Context, outletID, agentID int64) error {
	err := s.agents.Delete(ctx, agentID, outletID)
	if errors.Is(err, pgx.ErrNoRows) {
		return util.NewNotFound("agent not found", map[string]any{"agent_id": agentID})
	}
	if err != nil {
		return util.MapError(err)
	}
	return nil
}

// List returns one page of agents with pagination metadata.
func (s *AgentService) List(ctx context.Context, outletID int64, input AgentListInput) ([]domain.Agent, domain.PageMeta, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 0 {
		pageSize = 0
	}

	opts := repository.AgentListOptions{
		OutletID:  outletID,
		Search:    input.Search,
		Filters:   input.Filters,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	agents, total, err := s.agents.ListPage(ctx, opts)
	if errors.Is(err, repository.ErrUnsupportedFilter) {
		return nil, domain.PageMeta{}, util.NewValidationError(err.Error(), nil)
	}
	if err != nil {
		return nil, domain.PageMeta{}, util.MapError(err)
	}

	return agents, domain.NewPageMeta(page, pageSize, len(agents), total), nil
}

// Stats aggregates directory counts for the outlet.
func (s *AgentService) Stats(ctx context.Context, outletID int64) (*domain.AgentStats, error) {
	stats, err := s.agents.Stats(ctx, outletID)
	if err != nil {
		return nil, util.MapError(err)
	}
	return stats, nil
}

func (s *AgentService) publishAgentEvent(ctx context.Context, event events.Event) {
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
