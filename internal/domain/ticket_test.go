package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTicketStatus(t *testing.T) {
	status, ok := ParseTicketStatus("Closed")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusClosed, status)

	status, ok = ParseTicketStatus("  PENDING ")
	assert.True(t, ok)
	assert.Equal(t, TicketStatusPending, status)

	_, ok = ParseTicketStatus("archived")
	assert.False(t, ok)

	_, ok = ParseTicketStatus("")
	assert.False(t, ok)
}

func TestTicketStatusTransitions(t *testing.T) {
	assert.True(t, IsValidTransition(TicketStatusPending, TicketStatusOpen))
	assert.True(t, IsValidTransition(TicketStatusPending, TicketStatusAssigned))
	assert.True(t, IsValidTransition(TicketStatusOpen, TicketStatusClosed))
	assert.True(t, IsValidTransition(TicketStatusAssigned, TicketStatusOpen))
	assert.True(t, IsValidTransition(TicketStatusAssigned, TicketStatusAssigned))

	// a closed ticket can only be re-closed
	assert.True(t, IsValidTransition(TicketStatusClosed, TicketStatusClosed))
	assert.False(t, IsValidTransition(TicketStatusClosed, TicketStatusOpen))
	assert.False(t, IsValidTransition(TicketStatusClosed, TicketStatusPending))
	assert.False(t, IsValidTransition(TicketStatusClosed, TicketStatusAssigned))

	assert.False(t, IsValidTransition(TicketStatusOpen, TicketStatusPending))
}

func TestParseTicketPriority(t *testing.T) {
	priority, ok := ParseTicketPriority("")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityLow, priority)

	priority, ok = ParseTicketPriority("CRITICAL")
	assert.True(t, ok)
	assert.Equal(t, TicketPriorityCritical, priority)

	_, ok = ParseTicketPriority("urgent")
	assert.False(t, ok)
}

func TestParseRaisedBy(t *testing.T) {
	raisedBy, ok := ParseRaisedBy("Customer")
	assert.True(t, ok)
	assert.Equal(t, RaisedByCustomer, raisedBy)

	_, ok = ParseRaisedBy("system")
	assert.False(t, ok)
}
