package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAssigned TicketStatus = "assigned"
	TicketStatusClosed   TicketStatus = "closed"
)

// ParseTicketStatus canonicalizes input case-insensitively against the
// closed status set.
func ParseTicketStatus(value string) (TicketStatus, bool) {
	switch TicketStatus(strings.ToLower(strings.TrimSpace(value))) {
	case TicketStatusPending:
		return TicketStatusPending, true
	case TicketStatusOpen:
		return TicketStatusOpen, true
	case TicketStatusAssigned:
		return TicketStatusAssigned, true
	case TicketStatusClosed:
		return TicketStatusClosed, true
	}
	return "", false
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:  {TicketStatusOpen, TicketStatusAssigned, TicketStatusClosed},
	TicketStatusOpen:     {TicketStatusAssigned, TicketStatusClosed},
	TicketStatusAssigned: {TicketStatusOpen, TicketStatusAssigned, TicketStatusClosed},
	// re-closing an already-closed ticket is an idempotent no-op on closed_at
	TicketStatusClosed: {TicketStatusClosed},
}

// IsValidTransition reports whether a ticket may move between the two states.
func IsValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency buckets.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ParseTicketPriority canonicalizes a priority; empty input defaults to low.
func ParseTicketPriority(value string) (TicketPriority, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return TicketPriorityLow, true
	}
	switch TicketPriority(trimmed) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return TicketPriority(trimmed), true
	}
	return "", false
}

// RaisedBy identifies which kind of actor opened a ticket.
type RaisedBy string

const (
	RaisedByCustomer RaisedBy = "customer"
	RaisedByAgent    RaisedBy = "agent"
)

// ParseRaisedBy canonicalizes the origin enum case-insensitively.
func ParseRaisedBy(value string) (RaisedBy, bool) {
	switch RaisedBy(strings.ToLower(strings.TrimSpace(value))) {
	case RaisedByCustomer:
		return RaisedByCustomer, true
	case RaisedByAgent:
		return RaisedByAgent, true
	}
	return "", false
}

// CustomerDetails is a denormalized snapshot of the requesting customer.
type CustomerDetails struct {
	CustomerID        int64  `json:"customer_id"`
	CustomerFirstName string `json:"customer_first_name"`
	CustomerLastName  string `json:"customer_last_name"`
	CustomerEmail     string `json:"customer_email"`
	CustomerPhone     string `json:"customer_phone"`
}

// AssignmentRecord is one entry of the append-only reassignment log.
type AssignmentRecord struct {
	AgentID   *int64    `json:"agent_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SourceInfo captures where a storefront ticket came from. Variable shape,
// kept as a JSON document.
type SourceInfo struct {
	Browser      string `json:"browser,omitempty"`
	OS           string `json:"os,omitempty"`
	Device       string `json:"device,omitempty"`
	RawUserAgent string `json:"raw_user_agent,omitempty"`
}

// Ticket is the central aggregate. SupportTicketID is the human-facing
// identifier, unique per outlet and immutable once assigned.
type Ticket struct {
	ID              int64
	SupportTicketID string
	OutletID        int64

	Subject     string
	Description string
	Attachment  string

	RaisedBy        RaisedBy
	RaisedByID      int64
	CustomerDetails *CustomerDetails

	Tags       []string
	Priority   TicketPriority
	Department string

	OutletIssueID       int64
	OutletCategoryID    int64
	OutletSubCategoryID int64

	// label snapshots taken at creation time; later taxonomy renames do
	// not touch historical tickets
	IssueNameSnapshot       string
	CategoryNameSnapshot    string
	SubCategoryNameSnapshot string

	Status          TicketStatus
	AssignedAgentID *int64
	PreviousAgents  []AssignmentRecord

	AgentRating    *int
	CustomerRating *int

	Source  *SourceInfo
	IsTrash bool

	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
}

// TicketStats aggregates per-outlet ticket counts by status.
type TicketStats struct {
	Total    int64 `json:"total_tickets_count"`
	Open     int64 `json:"open_tickets_count"`
	Pending  int64 `json:"pending_tickets_count"`
	Closed   int64 `json:"closed_tickets_count"`
	Assigned int64 `json:"assigned_tickets_count"`
}
