package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskforge/support-service/internal/domain"
)

// TicketRepository persists tickets and answers the ticket queries used by
// the service layer.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetBySupportTicketID(ctx context.Context, outletID int64, supportTicketID string) (*domain.Ticket, error)
	LastSupportTicketID(ctx context.Context, outletID int64) (string, error)
	ListPage(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, int64, error)
	ListByAssignedAgent(ctx context.Context, outletID, agentID int64) ([]domain.Ticket, error)
	CurrentAssignment(ctx context.Context, id, outletID int64) (domain.TicketStatus, *int64, error)
	CloseTicket(ctx context.Context, id, outletID int64, agentID *int64) error
	ReassignTicket(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error
	SetStatusAndAgent(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error
	SetAgentRating(ctx context.Context, id, outletID int64, rating int) error
	SetCustomerRating(ctx context.Context, id, outletID int64, rating int) error
	Delete(ctx context.Context, id int64) error
	CountOpenByAgent(ctx context.Context, outletID, agentID int64) (int64, error)
	Stats(ctx context.Context, outletID int64) (*domain.TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository builds a postgres-backed TicketRepository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// IsUniqueViolation reports whether err is a postgres unique constraint
// violation. The ticket number mint loop retries on it.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const ticketColumns = `id, support_ticket_id, outlet_id, subject, COALESCE(description, ''), COALESCE(attachment, ''),
	raised_by, raised_by_id, customer_details, tags, priority, department,
	outlet_issue_id, outlet_category_id, outlet_sub_category_id,
	COALESCE(issue_name_snapshot, ''), COALESCE(category_name_snapshot, ''), COALESCE(sub_category_name_snapshot, ''),
	status, assigned_agent_id, previous_assigned_agent_id, agent_rating, customer_rating,
	source, is_trash, created_at, updated_at, closed_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID, &t.SupportTicketID, &t.OutletID, &t.Subject, &t.Description, &t.Attachment,
		&t.RaisedBy, &t.RaisedByID, &t.CustomerDetails, &t.Tags, &t.Priority, &t.Department,
		&t.OutletIssueID, &t.OutletCategoryID, &t.OutletSubCategoryID,
		&t.IssueNameSnapshot, &t.CategoryNameSnapshot, &t.SubCategoryNameSnapshot,
		&t.Status, &t.AssignedAgentID, &t.PreviousAgents, &t.AgentRating, &t.CustomerRating,
		&t.Source, &t.IsTrash, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (
			support_ticket_id, outlet_id, subject, description, attachment,
			raised_by, raised_by_id, customer_details, tags, priority, department,
			outlet_issue_id, outlet_category_id, outlet_sub_category_id,
			issue_name_snapshot, category_name_snapshot, sub_category_name_snapshot,
			status, assigned_agent_id, previous_assigned_agent_id, source, is_trash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, '[]'::jsonb, $20, $21
		)
		RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.SupportTicketID, ticket.OutletID, ticket.Subject, ticket.Description, ticket.Attachment,
		ticket.RaisedBy, ticket.RaisedByID, ticket.CustomerDetails, ticket.Tags, ticket.Priority, ticket.Department,
		ticket.OutletIssueID, ticket.OutletCategoryID, ticket.OutletSubCategoryID,
		ticket.IssueNameSnapshot, ticket.CategoryNameSnapshot, ticket.SubCategoryNameSnapshot,
		ticket.Status, ticket.AssignedAgentID, ticket.Source, ticket.IsTrash,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return scanTicket(r.pool.QueryRow(ctx, query, id))
}

func (r *ticketRepository) GetBySupportTicketID(ctx context.Context, outletID int64, supportTicketID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE outlet_id=$1 AND support_ticket_id=$2`
	return scanTicket(r.pool.QueryRow(ctx, query, outletID, supportTicketID))
}

// LastSupportTicketID returns the display identifier of the newest ticket
// for the outlet, or empty when the outlet has none.
func (r *ticketRepository) LastSupportTicketID(ctx context.Context, outletID int64) (string, error) {
	query := `SELECT support_ticket_id FROM tickets WHERE outlet_id=$1 ORDER BY id DESC LIMIT 1`

	var lastID string
	err := r.pool.QueryRow(ctx, query, outletID).Scan(&lastID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lastID, nil
}

func (r *ticketRepository) ListPage(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, int64, error) {
	clauses, args, err := buildTicketListClauses(opts)
	if err != nil {
		return nil, 0, err
	}
	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM tickets WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageQuery := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + where +
		` ORDER BY ` + ticketOrderBy(opts.SortBy, opts.SortOrder)
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

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *ticketRepository) ListByAssignedAgent(ctx context.Context, outletID, agentID int64) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE outlet_id=$1 AND assigned_agent_id=$2 AND is_trash=FALSE
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, outletID, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

// CurrentAssignment reads the status and assigned agent used to pick the
// update branch for a status change.
func (r *ticketRepository) CurrentAssignment(ctx context.Context, id, outletID int64) (domain.TicketStatus, *int64, error) {
	query := `SELECT status, assigned_agent_id FROM tickets WHERE id=$1 AND outlet_id=$2`

	var status domain.TicketStatus
	var agentID *int64
	if err := r.pool.QueryRow(ctx, query, id, outletID).Scan(&status, &agentID); err != nil {
		return "", nil, err
	}
	return status, agentID, nil
}

// CloseTicket marks the ticket closed. closed_at is stamped only the first
// time; re-closing keeps the original timestamp.
func (r *ticketRepository) CloseTicket(ctx context.Context, id, outletID int64, agentID *int64) error {
	query := `
		UPDATE tickets
		SET status=$1,
			assigned_agent_id=$2,
			closed_at=CASE WHEN closed_at IS NULL THEN NOW() ELSE closed_at END,
			updated_at=NOW()
		WHERE id=$3 AND outlet_id=$4`

	tag, err := r.pool.Exec(ctx, query, domain.TicketStatusClosed, agentID, id, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ReassignTicket moves the ticket to a new agent, appending the outgoing
// assignment to the history in the same statement.
func (r *ticketRepository) ReassignTicket(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error {
	query := `
		UPDATE tickets
		SET status=$1,
			previous_assigned_agent_id=COALESCE(previous_assigned_agent_id, '[]'::jsonb) ||
				jsonb_build_array(jsonb_build_object('agent_id', assigned_agent_id, 'timestamp', NOW())),
			assigned_agent_id=$2,
			updated_at=NOW()
		WHERE id=$3 AND outlet_id=$4`

	tag, err := r.pool.Exec(ctx, query, status, agentID, id, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SetStatusAndAgent(ctx context.Context, id, outletID int64, status domain.TicketStatus, agentID *int64) error {
	query := `UPDATE tickets SET status=$1, assigned_agent_id=$2, updated_at=NOW() WHERE id=$3 AND outlet_id=$4`

	tag, err := r.pool.Exec(ctx, query, status, agentID, id, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SetAgentRating(ctx context.Context, id, outletID int64, rating int) error {
	return r.setRating(ctx, "agent_rating", id, outletID, rating)
}

func (r *ticketRepository) SetCustomerRating(ctx context.Context, id, outletID int64, rating int) error {
	return r.setRating(ctx, "customer_rating", id, outletID, rating)
}

func (r *ticketRepository) setRating(ctx context.Context, column string, id, outletID int64, rating int) error {
	query := fmt.Sprintf(`UPDATE tickets SET %s=$1, updated_at=NOW() WHERE id=$2 AND outlet_id=$3`, column)

	tag, err := r.pool.Exec(ctx, query, rating, id, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountOpenByAgent counts the agent's tickets that still need attention,
// used to pick the least loaded agent during auto-assignment.
func (r *ticketRepository) CountOpenByAgent(ctx context.Context, outletID, agentID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM tickets
		WHERE outlet_id=$1 AND assigned_agent_id=$2 AND status <> $3 AND is_trash=FALSE`

	var count int64
	err := r.pool.QueryRow(ctx, query, outletID, agentID, domain.TicketStatusClosed).Scan(&count)
	return count, err
}

func (r *ticketRepository) Stats(ctx context.Context, outletID int64) (*domain.TicketStats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status=$2),
			COUNT(*) FILTER (WHERE status=$3),
			COUNT(*) FILTER (WHERE status=$4),
			COUNT(*) FILTER (WHERE status=$5)
		FROM tickets
		WHERE outlet_id=$1 AND is_trash=FALSE`

	var stats domain.TicketStats
	err := r.pool.QueryRow(ctx, query, outletID,
		domain.TicketStatusOpen, domain.TicketStatusPending,
		domain.TicketStatusClosed, domain.TicketStatusAssigned,
	).Scan(&stats.Total, &stats.Open, &stats.Pending, &stats.Closed, &stats.Assigned)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
