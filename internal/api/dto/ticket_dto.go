package dto

import (
	"time"

	"github.com/deskforge/support-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Attachment  string `json:"attachment"`

	RaisedBy        string                  `json:"raised_by"`
	RaisedByID      int64                   `json:"raised_by_id"`
	CustomerDetails *domain.CustomerDetails `json:"customer_details"`

	Tags       []string `json:"tags"`
	Priority   string   `json:"priority"`
	Department string   `json:"department"`

	OutletIssueID       int64 `json:"outlet_issue_id"`
	OutletCategoryID    int64 `json:"outlet_category_id"`
	OutletSubCategoryID int64 `json:"outlet_sub_category_id"`
}

// UpdateTicketRequest changes lifecycle status and optionally the assignee.
// An omitted assigned_agent_id keeps the current agent.
type UpdateTicketRequest struct {
	Status          string `json:"status"`
	AssignedAgentID *int64 `json:"assigned_agent_id"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	RatedBy string `json:"rated_by"`
	Rating  int    `json:"rating"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              int64  `json:"id"`
	SupportTicketID string `json:"support_ticket_id"`
	OutletID        int64  `json:"outlet_id"`

	Subject     string `json:"subject"`
	Description string `json:"description,omitempty"`
	Attachment  string `json:"attachment,omitempty"`

	RaisedBy        domain.RaisedBy         `json:"raised_by"`
	RaisedByID      int64                   `json:"raised_by_id"`
	CustomerDetails *domain.CustomerDetails `json:"customer_details,omitempty"`

	Tags       []string              `json:"tags"`
	Priority   domain.TicketPriority `json:"priority"`
	Department string                `json:"department"`

	OutletIssueID       int64  `json:"outlet_issue_id"`
	OutletCategoryID    int64  `json:"outlet_category_id"`
	OutletSubCategoryID int64  `json:"outlet_sub_category_id"`
	IssueName           string `json:"issue_name"`
	CategoryName        string `json:"category_name"`
	SubCategoryName     string `json:"sub_category_name"`

	Status          domain.TicketStatus       `json:"status"`
	AssignedAgentID *int64                    `json:"assigned_agent_id"`
	PreviousAgents  []domain.AssignmentRecord `json:"previous_assigned_agents,omitempty"`

	AgentRating    *int `json:"agent_rating"`
	CustomerRating *int `json:"customer_rating"`

	Source  *domain.SourceInfo `json:"source,omitempty"`
	IsTrash bool               `json:"is_trash"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:                  t.ID,
		SupportTicketID:     t.SupportTicketID,
		OutletID:            t.OutletID,
		Subject:             t.Subject,
		Description:         t.Description,
		Attachment:          t.Attachment,
		RaisedBy:            t.RaisedBy,
		RaisedByID:          t.RaisedByID,
		CustomerDetails:     t.CustomerDetails,
		Tags:                tags,
		Priority:            t.Priority,
		Department:          t.Department,
		OutletIssueID:       t.OutletIssueID,
		OutletCategoryID:    t.OutletCategoryID,
		OutletSubCategoryID: t.OutletSubCategoryID,
		IssueName:           t.IssueNameSnapshot,
		CategoryName:        t.CategoryNameSnapshot,
		SubCategoryName:     t.SubCategoryNameSnapshot,
		Status:              t.Status,
		AssignedAgentID:     t.AssignedAgentID,
		PreviousAgents:      t.PreviousAgents,
		AgentRating:         t.AgentRating,
		CustomerRating:      t.CustomerRating,
		Source:              t.Source,
		IsTrash:             t.IsTrash,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		ClosedAt:            t.ClosedAt,
	}
}

// NewTicketResponses maps a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
