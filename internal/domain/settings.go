package domain

// SettingsDoc is the per-outlet ticket-numbering and intake configuration.
type SettingsDoc struct {
	Prefix        string `json:"prefix"`
	StartNo       string `json:"start_no"`
	AutoAssign    bool   `json:"auto_assign"`
	EmailRequired bool   `json:"email_required"`
}

// DefaultSettingsDoc returns the defaults applied when an outlet has not
// customized its configuration.
func DefaultSettingsDoc() SettingsDoc {
	return SettingsDoc{
		Prefix:        "TKT",
		StartNo:       "001",
		AutoAssign:    true,
		EmailRequired: true,
	}
}

// SupportSettings is the single per-outlet settings row. WebURL serves the
// unauthenticated storefront lookup; APIKeyHash is the bcrypt hash of the
// storefront API key.
type SupportSettings struct {
	ID         int64
	OutletID   int64
	WebURL     string
	APIKeyHash string
	Settings   SettingsDoc
}
