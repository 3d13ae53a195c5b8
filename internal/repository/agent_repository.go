package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskforge/support-service/internal/domain"
)

// AgentListOptions captures the dynamic parts of a paginated agent query.
type AgentListOptions struct {
	OutletID  int64
	Search    string
	Filters   map[string]any
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

var agentFilterColumns = map[string]string{
	"status":       "status",
	"level":        "level",
	"department":   "department",
	"category":     "category",
	"sub_category": "sub_category",
}

var agentSortColumns = map[string]string{
	"created_at": "created_at",
	"status":     "status",
	"level":      "level",
	"department": "department",
	"first_name": "first_name",
}

func buildAgentListClauses(opts AgentListOptions) ([]string, []any, error) {
	args := []any{opts.OutletID}
	clauses := []string{"outlet_id=$1"}

	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+search+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE %[1]s OR last_name ILIKE %[1]s OR email ILIKE %[1]s OR phone ILIKE %[1]s)",
			placeholder))
	}

	for key, value := range opts.Filters {
		if value == nil {
			continue
		}
		column, ok := agentFilterColumns[key]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, key)
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	return clauses, args, nil
}

func agentOrderBy(sortBy, sortOrder string) string {
	column, ok := agentSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}

// AgentRepository persists the per-outlet agent directory.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id, outletID int64) (*domain.Agent, error)
	GetAnyByID(ctx context.Context, id int64) (*domain.Agent, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error)
	Update(ctx context.Context, agent *domain.Agent) error
	Delete(ctx context.Context, id, outletID int64) error
	ListPage(ctx context.Context, opts AgentListOptions) ([]domain.Agent, int64, error)
	ListActiveByDepartment(ctx context.Context, outletID int64, department string) ([]domain.Agent, error)
	Stats(ctx context.Context, outletID int64) (*domain.AgentStats, error)
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository builds a postgres-backed AgentRepository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

const agentColumns = `id, outlet_id, user_id, first_name, last_name, email,
	COALESCE(country_code, ''), COALESCE(phone, ''), COALESCE(location, ''), COALESCE(timezone, ''), COALESCE(bio, ''),
	level, COALESCE(department, ''), status, hired_at, category, sub_category,
	skills, languages, working_hours, working_days, created_at, updated_at`

func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var a domain.Agent
	err := row.Scan(
		&a.ID, &a.OutletID, &a.UserID, &a.FirstName, &a.LastName, &a.Email,
		&a.CountryCode, &a.Phone, &a.Location, &a.Timezone, &a.Bio,
		&a.Level, &a.Department, &a.Status, &a.HiredAt, &a.Category, &a.SubCategory,
		&a.Skills, &a.Languages, &a.WorkingHours, &a.WorkingDays, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	query := `
		INSERT INTO agents (
			outlet_id, user_id, first_name, last_name, email,
			country_code, phone, location, timezone, bio,
			level, department, status, hired_at, category, sub_category,
			skills, languages, working_hours, working_days
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		agent.OutletID, agent.UserID, agent.FirstName, agent.LastName, agent.Email,
		agent.CountryCode, agent.Phone, agent.Location, agent.Timezone, agent.Bio,
		agent.Level, agent.Department, agent.Status, agent.HiredAt, agent.Category, agent.SubCategory,
		agent.Skills, agent.Languages, agent.WorkingHours, agent.WorkingDays,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
}

func (r *agentRepository) GetByID(ctx context.Context, id, outletID int64) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id=$1 AND outlet_id=$2`
	return scanAgent(r.pool.QueryRow(ctx, query, id, outletID))
}

// GetAnyByID fetches an agent regardless of outlet. Assignment validation
// uses it to tell a missing agent apart from a cross-outlet one.
func (r *agentRepository) GetAnyByID(ctx context.Context, id int64) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id=$1`
	return scanAgent(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID looks an agent up by platform user, across outlets. Used to
// enforce the one-profile-per-user rule at registration.
func (r *agentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE user_id=$1`
	return scanAgent(r.pool.QueryRow(ctx, query, userID))
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	query := `
		UPDATE agents
		SET first_name=$1, last_name=$2, email=$3, country_code=$4, phone=$5,
			location=$6, timezone=$7, bio=$8, level=$9, department=$10, status=$11,
			hired_at=$12, category=$13, sub_category=$14, skills=$15, languages=$16,
			working_hours=$17, working_days=$18, updated_at=NOW()
		WHERE id=$19 AND outlet_id=$20`

	tag, err := r.pool.Exec(ctx, query,
		agent.FirstName, agent.LastName, agent.Email, agent.CountryCode, agent.Phone,
		agent.Location, agent.Timezone, agent.Bio, agent.Level, agent.Department, agent.Status,
		agent.HiredAt, agent.Category, agent.SubCategory, agent.Skills, agent.Languages,
		agent.WorkingHours, agent.WorkingDays, agent.ID, agent.OutletID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) Delete(ctx context.Context, id, outletID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id=$1 AND outlet_id=$2`, id, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) ListPage(ctx context.Context, opts AgentListOptions) ([]domain.Agent, int64, error) {
	clauses, args, err := buildAgentListClauses(opts)
	if err != nil {
		return nil, 0, err
	}
	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM agents WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQuery := `SELECT ` + agentColumns + ` FROM agents WHERE ` + where +
		` ORDER BY ` + agentOrderBy(opts.SortBy, opts.SortOrder)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		pageQuery += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, opts.Offset)
		pageQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	agents := make([]domain.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, 0, err
		}
		agents = append(agents, *agent)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return agents, total, nil
}

// ListActiveByDepartment feeds the auto-assignment pick.
func (r *agentRepository) ListActiveByDepartment(ctx context.Context, outletID int64, department string) ([]domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents
		WHERE outlet_id=$1 AND department=$2 AND status=$3
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, outletID, department, domain.AgentStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := make([]domain.Agent, 0)
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, *agent)
	}
	return agents, rows.Err()
}

func (r *agentRepository) Stats(ctx context.Context, outletID int64) (*domain.AgentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM agents WHERE outlet_id=$1),
			(SELECT COUNT(*) FROM agents WHERE outlet_id=$1 AND status=$2),
			(SELECT COUNT(*) FROM tickets WHERE outlet_id=$1 AND status <> $3 AND is_trash=FALSE)`

	var stats domain.AgentStats
	err := r.pool.QueryRow(ctx, query, outletID, domain.AgentStatusActive, domain.TicketStatusClosed).
		Scan(&stats.TotalAgents, &stats.TotalActiveAgents, &stats.TotalActiveTickets)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
