package domain

import (
	"strings"
	"time"
)

// AgentLevel classifies agents within an outlet.
type AgentLevel string

const (
	AgentLevelExecutive AgentLevel = "executive"
	AgentLevelManager   AgentLevel = "manager"
	AgentLevelAdmin     AgentLevel = "admin"
	AgentLevelMerchant  AgentLevel = "merchant"
	AgentLevelAgent     AgentLevel = "agent"
)

// ParseAgentLevel canonicalizes a level; empty input defaults to agent.
func ParseAgentLevel(value string) (AgentLevel, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return AgentLevelAgent, true
	}
	switch AgentLevel(trimmed) {
	case AgentLevelExecutive, AgentLevelManager, AgentLevelAdmin, AgentLevelMerchant, AgentLevelAgent:
		return AgentLevel(trimmed), true
	}
	return "", false
}

// AgentStatus describes whether an agent can take work.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "active"
	AgentStatusInactive  AgentStatus = "inactive"
	AgentStatusSuspended AgentStatus = "suspended"
)

// ParseAgentStatus canonicalizes an agent status.
func ParseAgentStatus(value string) (AgentStatus, bool) {
	switch AgentStatus(strings.ToLower(strings.TrimSpace(value))) {
	case AgentStatusActive:
		return AgentStatusActive, true
	case AgentStatusInactive:
		return AgentStatusInactive, true
	case AgentStatusSuspended:
		return AgentStatusSuspended, true
	}
	return "", false
}

// AgentCategory is the platform-wide classification an agent handles.
type AgentCategory string

const (
	AgentCategoryGeneral    AgentCategory = "general"
	AgentCategoryBilling    AgentCategory = "billing"
	AgentCategoryTechnical  AgentCategory = "technical"
	AgentCategoryProduct    AgentCategory = "product"
	AgentCategoryShipping   AgentCategory = "shipping"
	AgentCategoryEscalation AgentCategory = "escalation"
)

// AgentSubCategory refines an AgentCategory.
type AgentSubCategory string

const (
	AgentSubCategoryInvoice  AgentSubCategory = "invoice"
	AgentSubCategoryRefund   AgentSubCategory = "refund"
	AgentSubCategoryPayment  AgentSubCategory = "payment"
	AgentSubCategoryLogin    AgentSubCategory = "login"
	AgentSubCategoryBug      AgentSubCategory = "bug"
	AgentSubCategoryFeature  AgentSubCategory = "feature"
	AgentSubCategoryDelivery AgentSubCategory = "delivery"
	AgentSubCategoryDelay    AgentSubCategory = "delay"
	AgentSubCategoryUrgent   AgentSubCategory = "urgent"
)

// ParseAgentCategory canonicalizes a category.
func ParseAgentCategory(value string) (AgentCategory, bool) {
	trimmed := AgentCategory(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := categorySubCategoryMap[trimmed]; ok {
		return trimmed, true
	}
	return "", false
}

// ParseAgentSubCategory canonicalizes a sub-category.
func ParseAgentSubCategory(value string) (AgentSubCategory, bool) {
	switch sc := AgentSubCategory(strings.ToLower(strings.TrimSpace(value))); sc {
	case AgentSubCategoryInvoice, AgentSubCategoryRefund, AgentSubCategoryPayment,
		AgentSubCategoryLogin, AgentSubCategoryBug, AgentSubCategoryFeature,
		AgentSubCategoryDelivery, AgentSubCategoryDelay, AgentSubCategoryUrgent:
		return sc, true
	}
	return "", false
}

// categorySubCategoryMap encodes which sub-categories pair with each
// category. Agents registering or updating classification must satisfy it.
var categorySubCategoryMap = map[AgentCategory]map[AgentSubCategory]struct{}{
	AgentCategoryGeneral: {AgentSubCategoryUrgent: {}},
	AgentCategoryBilling: {
		AgentSubCategoryInvoice: {},
		AgentSubCategoryRefund:  {},
		AgentSubCategoryPayment: {},
	},
	AgentCategoryTechnical: {
		AgentSubCategoryLogin: {},
		AgentSubCategoryBug:   {},
	},
	AgentCategoryProduct: {
		AgentSubCategoryFeature: {},
		AgentSubCategoryBug:     {},
	},
	AgentCategoryShipping: {
		AgentSubCategoryDelivery: {},
		AgentSubCategoryDelay:    {},
	},
	AgentCategoryEscalation: {AgentSubCategoryUrgent: {}},
}

// ValidClassification reports whether the sub-category is allowed under the
// category.
func ValidClassification(category AgentCategory, subCategory AgentSubCategory) bool {
	allowed, ok := categorySubCategoryMap[category]
	if !ok {
		return false
	}
	_, ok = allowed[subCategory]
	return ok
}

// WorkingHours describes an agent's daily availability window.
type WorkingHours struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// Agent is a staff member eligible for ticket assignment within one outlet.
type Agent struct {
	ID       int64
	OutletID int64
	UserID   int64

	FirstName   string
	LastName    string
	Email       string
	CountryCode string
	Phone       string
	Location    string
	Timezone    string
	Bio         string

	Level       AgentLevel
	Department  string
	Status      AgentStatus
	HiredAt     time.Time
	Category    AgentCategory
	SubCategory AgentSubCategory

	Skills    []string
	Languages []string

	WorkingHours WorkingHours
	WorkingDays  []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgentStats aggregates directory counts for an outlet.
type AgentStats struct {
	TotalAgents        int64 `json:"total_agents"`
	TotalActiveAgents  int64 `json:"total_active_agents"`
	TotalActiveTickets int64 `json:"total_active_tickets"`
}
