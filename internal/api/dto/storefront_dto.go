package dto

import (
	"github.com/deskforge/support-service/internal/domain"
)

// StorefrontCreateTicketRequest is the public ticket intake payload. The
// caller is always a customer.
type StorefrontCreateTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Attachment  string `json:"attachment"`

	CustomerDetails *domain.CustomerDetails `json:"customer_details"`

	Tags       []string `json:"tags"`
	Priority   string   `json:"priority"`
	Department string   `json:"department"`

	OutletIssueID       int64 `json:"outlet_issue_id"`
	OutletCategoryID    int64 `json:"outlet_category_id"`
	OutletSubCategoryID int64 `json:"outlet_sub_category_id"`

	Source *domain.SourceInfo `json:"source"`
}

// StorefrontRateRequest lets a customer rate their closed ticket.
type StorefrontRateRequest struct {
	CustomerID int64 `json:"customer_id"`
	Rating     int   `json:"rating"`
}

// StorefrontDeleteRequest identifies the customer asking for removal.
type StorefrontDeleteRequest struct {
	CustomerID int64 `json:"customer_id"`
}
