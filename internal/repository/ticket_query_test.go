package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTicketListClausesScopesOutlet(t *testing.T) {
	clauses, args, err := buildTicketListClauses(TicketListOptions{OutletID: 7})
	require.NoError(t, err)
	assert.Equal(t, []string{"outlet_id=$1"}, clauses)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestBuildTicketListClausesRejectsUnknownKey(t *testing.T) {
	_, _, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"bogus_field": "x"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFilter)
	assert.Equal(t, "unsupported filter: bogus_field", err.Error())
}

func TestBuildTicketListClausesColumnFilters(t *testing.T) {
	clauses, args, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"status": "open"},
	})
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Contains(t, clauses, "status=$2")
	assert.Equal(t, []any{int64(7), "open"}, args)
}

func TestBuildTicketListClausesCoercesTypedColumns(t *testing.T) {
	_, args, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"is_trash": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7), true}, args)

	_, args, err = buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"assigned_agent_id": "12"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7), int64(12)}, args)
}

func TestBuildTicketListClausesJSONKeys(t *testing.T) {
	clauses, args, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"customer_email": "jo@example.com"},
	})
	require.NoError(t, err)
	assert.Contains(t, clauses, "customer_details->>'customer_email'=$2")
	assert.Equal(t, []any{int64(7), "jo@example.com"}, args)
}

func TestBuildTicketListClausesTagsContainment(t *testing.T) {
	clauses, _, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"tags": "refund"},
	})
	require.NoError(t, err)
	assert.Contains(t, clauses, "tags @> jsonb_build_array($2::text)")
}

func TestBuildTicketListClausesSearch(t *testing.T) {
	clauses, args, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Search:   "damaged",
	})
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Contains(t, clauses[1], "support_ticket_id ILIKE $2")
	assert.Contains(t, clauses[1], "customer_details->>'customer_email' ILIKE $2")
	assert.Equal(t, "%damaged%", args[1])

	clauses, _, err = buildTicketListClauses(TicketListOptions{OutletID: 7, Search: "   "})
	require.NoError(t, err)
	assert.Len(t, clauses, 1)
}

func TestBuildTicketListClausesSkipsNilValues(t *testing.T) {
	clauses, _, err := buildTicketListClauses(TicketListOptions{
		OutletID: 7,
		Filters:  map[string]any{"status": nil},
	})
	require.NoError(t, err)
	assert.Len(t, clauses, 1)
}

func TestTicketOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC", ticketOrderBy("", ""))
	assert.Equal(t, "created_at DESC", ticketOrderBy("bogus", "desc"))
	assert.Equal(t, "priority ASC", ticketOrderBy("priority", "asc"))
	assert.Equal(t, "support_ticket_id DESC", ticketOrderBy("support_ticket_id", "descending"))
	assert.Equal(t, "status DESC", ticketOrderBy("status", "ASC"))
}

func TestAgentOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC", agentOrderBy("unknown", ""))
	assert.Equal(t, "level ASC", agentOrderBy("level", "asc"))
}

func TestBuildAgentListClauses(t *testing.T) {
	clauses, args, err := buildAgentListClauses(AgentListOptions{
		OutletID: 3,
		Search:   "jo",
		Filters:  map[string]any{"status": "active"},
	})
	require.NoError(t, err)
	require.Len(t, clauses, 3)
	assert.Equal(t, "outlet_id=$1", clauses[0])
	assert.Contains(t, clauses[1], "first_name ILIKE $2")
	assert.Contains(t, clauses, "status=$3")
	assert.Equal(t, []any{int64(3), "%jo%", "active"}, args)

	_, _, err = buildAgentListClauses(AgentListOptions{
		OutletID: 3,
		Filters:  map[string]any{"email": "x"},
	})
	assert.ErrorIs(t, err, ErrUnsupportedFilter)
}
