package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskforge/support-service/internal/domain"
	"github.com/deskforge/support-service/internal/persistence"
	"github.com/deskforge/support-service/internal/repository"
	"github.com/deskforge/support-service/pkg/util"
)

// SettingsService manages per-outlet support configuration and the
// storefront API key.
type SettingsService struct {
	settings   repository.SettingsRepository
	redis      *persistence.Redis
	cacheTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// SettingsDependencies bundles collaborators for the settings service.
type SettingsDependencies struct {
	SettingsRepo repository.SettingsRepository
	Redis        *persistence.Redis
	CacheTTL     time.Duration
	BcryptCost   int
	Logger       *zap.Logger
}

// NewSettingsService creates the service.
func NewSettingsService(deps SettingsDependencies) *SettingsService {
	cost := deps.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &SettingsService{
		settings:   deps.SettingsRepo,
		redis:      deps.Redis,
		cacheTTL:   deps.CacheTTL,
		bcryptCost: cost,
		logger:     deps.Logger,
	}
}

// SettingsUpsertInput carries the mutable settings fields.
type SettingsUpsertInput struct {
	WebURL        string
	Prefix        string
	StartNo       string
	AutoAssign    *bool
	EmailRequired *bool
}

func settingsCacheKey(outletID int64) string {
	return fmt.Sprintf("support:settings:%d", outletID)
}

// Get returns the outlet's settings, reading through the Redis cache.
func (s *SettingsService) Get(ctx context.Context, outletID int64) (*domain.SupportSettings, error) {
	if cached := s.readCache(ctx, outletID); cached != nil {
		return cached, nil
	}

	settings, err := s.settings.GetByOutletID(ctx, outletID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("settings not found for this outlet", map[string]any{"outlet_id": outletID})
	}
	if err != nil {
		return nil, util.MapError(err)
	}

	settings.Settings = mergeSettingsDefaults(settings.Settings)
	s.writeCache(ctx, outletID, settings)
	return settings, nil
}

// Upsert creates or replaces the outlet's settings row and invalidates the
// cache.
func (s *SettingsService) Upsert(ctx context.Context, outletID int64, input SettingsUpsertInput) (*domain.SupportSettings, error) {
	doc := domain.DefaultSettingsDoc()

	existing, err := s.settings.GetByOutletID(ctx, outletID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, util.MapError(err)
	}
	if existing != nil {
		doc = mergeSettingsDefaults(existing.Settings)
	}

	if prefix := strings.TrimSpace(input.Prefix); prefix != "" {
		doc.Prefix = prefix
	}
	if startNo := strings.TrimSpace(input.StartNo); startNo != "" {
		if !isDigits(startNo) {
			return nil, util.NewValidationError("start_no must be numeric", map[string]any{"start_no": startNo})
		}
		doc.StartNo = startNo
	}
	if input.AutoAssign != nil {
		doc.AutoAssign = *input.AutoAssign
	}
	if input.EmailRequired != nil {
		doc.EmailRequired = *input.EmailRequired
	}

	settings := &domain.SupportSettings{
		OutletID: outletID,
		WebURL:   strings.TrimSpace(input.WebURL),
		Settings: doc,
	}
	if settings.WebURL == "" && existing != nil {
		settings.WebURL = existing.WebURL
	}

	if err := s.settings.Upsert(ctx, settings); err != nil {
		return nil, util.MapError(err)
	}
	if existing != nil {
		settings.APIKeyHash = existing.APIKeyHash
	}

	s.invalidateCache(ctx, outletID)
	return settings, nil
}

// IssueAPIKey mints a fresh storefront API key for the outlet. The plaintext
// key is returned exactly once; only its bcrypt hash is stored.
func (s *SettingsService) IssueAPIKey(ctx context.Context, outletID int64) (string, error) {
	if _, err := s.Get(ctx, outletID); err != nil {
		return "", err
	}

	key := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(key), s.bcryptCost)
	if err != nil {
		return "", util.NewInternalError(err)
	}

	if err := s.settings.SetAPIKeyHash(ctx, outletID, string(hash)); err != nil {
		return "", util.MapError(err)
	}

	s.invalidateCache(ctx, outletID)
	return key, nil
}

// VerifyStorefront authenticates a storefront caller by origin URL and API
// key, returning the outlet's settings on success.
func (s *SettingsService) VerifyStorefront(ctx context.Context, webURL, apiKey string) (*domain.SupportSettings, error) {
	webURL = strings.TrimSpace(webURL)
	if webURL == "" || strings.TrimSpace(apiKey) == "" {
		return nil, util.NewUnauthorized("storefront credentials required")
	}

	settings, err := s.settings.GetByWebURL(ctx, webURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewUnauthorized("unknown storefront")
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if settings.APIKeyHash == "" {
		return nil, util.NewUnauthorized("storefront api key not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(settings.APIKeyHash), []byte(apiKey)); err != nil {
		return nil, util.NewUnauthorized("invalid api key")
	}

	settings.Settings = mergeSettingsDefaults(settings.Settings)
	return settings, nil
}

func (s *SettingsService) readCache(ctx context.Context, outletID int64) *domain.SupportSettings {
	if s.redis == nil || s.redis.Client == nil {
		return nil
	}
	raw, err := s.redis.Client.Get(ctx, settingsCacheKey(outletID)).Result()
	if err != nil {
		return nil
	}
	var settings domain.SupportSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil
	}
	return &settings
}

func (s *SettingsService) writeCache(ctx context.Context, outletID int64, settings *domain.SupportSettings) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.redis.Client.Set(ctx, settingsCacheKey(outletID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("settings cache write failed", zap.Error(err))
	}
}

func (s *SettingsService) invalidateCache(ctx context.Context, outletID int64) {
	if s.redis == nil || s.redis.Client == nil {
		return
	}
	_ = s.redis.Client.Del(ctx, settingsCacheKey(outletID)).Err()
}

func mergeSettingsDefaults(doc domain.SettingsDoc) domain.SettingsDoc {
	defaults := domain.DefaultSettingsDoc()
	if strings.TrimSpace(doc.Prefix) == "" {
		doc.Prefix = defaults.Prefix
	}
	if strings.TrimSpace(doc.StartNo) == "" {
		doc.StartNo = defaults.StartNo
	}
	return doc
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
