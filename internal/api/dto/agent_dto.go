package dto

import (
	"time"

	"github.com/deskforge/support-service/internal/domain"
)

// RegisterAgentRequest payload.
type RegisterAgentRequest struct {
	UserID      int64  `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Timezone    string `json:"timezone"`
	Bio         string `json:"bio"`

	Level       string     `json:"level"`
	Department  string     `json:"department"`
	Status      string     `json:"status"`
	HiredAt     *time.Time `json:"hired_at"`
	Category    string     `json:"category"`
	SubCategory string     `json:"sub_category"`

	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`

	WorkingHours domain.WorkingHours `json:"working_hours"`
	WorkingDays  []string            `json:"working_days"`
}

// UpdateAgentRequest carries partial updates; omitted fields are untouched.
type UpdateAgentRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	CountryCode *string `json:"country_code"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Timezone    *string `json:"timezone"`
	Bio         *string `json:"bio"`

	Level       *string    `json:"level"`
	Department  *string    `json:"department"`
	Status      *string    `json:"status"`
	HiredAt     *time.Time `json:"hired_at"`
	Category    *string    `json:"category"`
	SubCategory *string    `json:"sub_category"`

	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`

	WorkingHours *domain.WorkingHours `json:"working_hours"`
	WorkingDays  []string             `json:"working_days"`
}

// AgentResponse is the agent representation.
type AgentResponse struct {
	ID          int64  `json:"id"`
	OutletID    int64  `json:"outlet_id"`
	UserID      int64  `json:"user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Bio         string `json:"bio,omitempty"`

	Level       domain.AgentLevel       `json:"level"`
	Department  string                  `json:"department"`
	Status      domain.AgentStatus      `json:"status"`
	HiredAt     time.Time               `json:"hired_at"`
	Category    domain.AgentCategory    `json:"category"`
	SubCategory domain.AgentSubCategory `json:"sub_category"`

	Skills    []string `json:"skills"`
	Languages []string `json:"languages"`

	WorkingHours domain.WorkingHours `json:"working_hours"`
	WorkingDays  []string            `json:"working_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAgentResponse maps a domain agent.
func NewAgentResponse(a *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:           a.ID,
		OutletID:     a.OutletID,
		UserID:       a.UserID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		CountryCode:  a.CountryCode,
		Phone:        a.Phone,
		Location:     a.Location,
		Timezone:     a.Timezone,
		Bio:          a.Bio,
		Level:        a.Level,
		Department:   a.Department,
		Status:       a.Status,
		HiredAt:      a.HiredAt,
		Category:     a.Category,
		SubCategory:  a.SubCategory,
		Skills:       a.Skills,
		Languages:    a.Languages,
		WorkingHours: a.WorkingHours,
		WorkingDays:  a.WorkingDays,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// NewAgentResponses maps a slice of domain agents.
func NewAgentResponses(agents []domain.Agent) []AgentResponse {
	items := make([]AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, NewAgentResponse(&agents[i]))
	}
	return items
}
