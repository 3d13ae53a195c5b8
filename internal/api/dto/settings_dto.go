package dto

import (
	"github.com/deskforge/support-service/internal/domain"
)

// UpsertSettingsRequest payload. Omitted booleans keep current values.
type UpsertSettingsRequest struct {
	WebURL        string `json:"web_url"`
	Prefix        string `json:"prefix"`
	StartNo       string `json:"start_no"`
	AutoAssign    *bool  `json:"auto_assign"`
	EmailRequired *bool  `json:"email_required"`
}

// SettingsResponse exposes settings without the API key hash.
type SettingsResponse struct {
	ID            int64  `json:"id"`
	OutletID      int64  `json:"outlet_id"`
	WebURL        string `json:"web_url"`
	HasAPIKey     bool   `json:"has_api_key"`
	Prefix        string `json:"prefix"`
	StartNo       string `json:"start_no"`
	AutoAssign    bool   `json:"auto_assign"`
	EmailRequired bool   `json:"email_required"`
}

// NewSettingsResponse maps domain settings.
func NewSettingsResponse(s *domain.SupportSettings) SettingsResponse {
	return SettingsResponse{
		ID:            s.ID,
		OutletID:      s.OutletID,
		WebURL:        s.WebURL,
		HasAPIKey:     s.APIKeyHash != "",
		Prefix:        s.Settings.Prefix,
		StartNo:       s.Settings.StartNo,
		AutoAssign:    s.Settings.AutoAssign,
		EmailRequired: s.Settings.EmailRequired,
	}
}

// APIKeyResponse returns a freshly minted storefront key. It is shown once.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}
