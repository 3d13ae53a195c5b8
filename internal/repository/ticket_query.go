package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupportedFilter is returned when a list request presents a filter key
// outside the allow-list. Callers surface it as a validation failure, never
// a silent no-op.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// TicketListOptions captures the dynamic parts of a paginated ticket query.
// Filters are restricted to an allow-list of keys; Limit of zero means no
// limit.
type TicketListOptions struct {
	OutletID  int64
	Search    string
	Filters   map[string]any
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// ticketFilterColumns is the closed set of filter keys answered by plain
// column equality. Keys must never be interpolated from user input directly;
// the mapped expression is what reaches SQL.
var ticketFilterColumns = map[string]string{
	"status":            "status",
	"priority":          "priority",
	"department":        "department",
	"support_ticket_id": "support_ticket_id",
	"assigned_agent_id": "assigned_agent_id",
	"is_trash":          "is_trash",
}

// ticketFilterJSONKeys maps legacy filter keys to the JSON column holding
// them. Values compare as text against the extracted key.
var ticketFilterJSONKeys = map[string]string{
	"customer_id":    "customer_details",
	"customer_name":  "customer_details",
	"customer_email": "customer_details",
}

var ticketSortColumns = map[string]string{
	"created_at":        "created_at",
	"support_ticket_id": "support_ticket_id",
	"priority":          "priority",
	"department":        "department",
	"status":            "status",
}

// buildTicketListClauses assembles the WHERE clauses and args shared by the
// count and page queries. Returns ErrUnsupportedFilter for any key outside
// the allow-lists.
func buildTicketListClauses(opts TicketListOptions) ([]string, []any, error) {
	args := []any{opts.OutletID}
	clauses := []string{"outlet_id=$1"}

	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+search+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(support_ticket_id ILIKE %[1]s OR customer_details->>'customer_first_name' ILIKE %[1]s OR customer_details->>'customer_last_name' ILIKE %[1]s OR customer_details->>'customer_email' ILIKE %[1]s)",
			placeholder))
	}

	for key, value := range opts.Filters {
		if value == nil {
			continue
		}
		if key == "tags" {
			args = append(args, fmt.Sprint(value))
			clauses = append(clauses, fmt.Sprintf("tags @> jsonb_build_array($%d::text)", len(args)))
			continue
		}
		if column, ok := ticketFilterColumns[key]; ok {
			args = append(args, coerceFilterValue(key, value))
			clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
			continue
		}
		if column, ok := ticketFilterJSONKeys[key]; ok {
			args = append(args, fmt.Sprint(value))
			clauses = append(clauses, fmt.Sprintf("%s->>'%s'=$%d", column, key, len(args)))
			continue
		}
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, key)
	}

	return clauses, args, nil
}

// coerceFilterValue converts string query values to the column's native
// type where a text comparison would not work.
func coerceFilterValue(key string, value any) any {
	raw, isString := value.(string)
	if !isString {
		return value
	}
	switch key {
	case "is_trash":
		if parsed, err := strconv.ParseBool(raw); err == nil {
			return parsed
		}
	case "assigned_agent_id":
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return parsed
		}
	}
	return value
}

// ticketOrderBy resolves the sort expression. Unknown sort keys fall back to
// created_at; anything other than "asc" sorts descending.
func ticketOrderBy(sortBy, sortOrder string) string {
	column, ok := ticketSortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
