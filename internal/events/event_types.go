package events

import (
	"time"

	"github.com/deskforge/support-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketRated         EventType = "ticket_rated"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventAgentRegistered     EventType = "agent_registered"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OutletID  int64       `json:"outlet_id"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	SupportTicketID string                `json:"support_ticket_id"`
	Subject         string                `json:"subject"`
	Priority        domain.TicketPriority `json:"priority"`
	Department      string                `json:"department"`
	RaisedBy        domain.RaisedBy       `json:"raised_by"`
	CustomerEmail   string                `json:"customer_email,omitempty"`
	AssignedAgentID *int64                `json:"assigned_agent_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	PreviousAgentID *int64 `json:"previous_agent_id,omitempty"`
	AgentID         *int64 `json:"agent_id,omitempty"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	RatedBy domain.RaisedBy `json:"rated_by"`
	Rating  int             `json:"rating"`
}

// AgentRegisteredPayload payload.
type AgentRegisteredPayload struct {
	AgentID    int64             `json:"agent_id"`
	UserID     int64             `json:"user_id"`
	Level      domain.AgentLevel `json:"level"`
	Department string            `json:"department"`
}
