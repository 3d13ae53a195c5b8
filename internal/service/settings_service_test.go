package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskforge/support-service/internal/domain"
)

func newSettingsServiceFixture() (*SettingsService, *fakeSettingsRepo) {
	repo := newFakeSettingsRepo()
	svc := NewSettingsService(SettingsDependencies{
		SettingsRepo: repo,
		BcryptCost:   4,
		Logger:       zap.NewNop(),
	})
	return svc, repo
}

func TestSettingsGetNotFound(t *testing.T) {
	svc, _ := newSettingsServiceFixture()

	_, err := svc.Get(context.Background(), 1)
	de := domainErr(t, err)
	assert.Equal(t, 404, de.HTTPStatus)
	assert.Contains(t, de.Message, "settings not found")
}

func TestSettingsGetAppliesDefaults(t *testing.T) {
	svc, repo := newSettingsServiceFixture()
	repo.byOutlet[1] = &domain.SupportSettings{ID: 1, OutletID: 1}

	settings, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "TKT", settings.Settings.Prefix)
	assert.Equal(t, "001", settings.Settings.StartNo)
}

func TestSettingsUpsert(t *testing.T) {
	svc, _ := newSettingsServiceFixture()
	ctx := context.Background()

	autoAssign := false
	created, err := svc.Upsert(ctx, 1, SettingsUpsertInput{
		WebURL:     "https://shop.example.com",
		Prefix:     "SUP",
		AutoAssign: &autoAssign,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP", created.Settings.Prefix)
	assert.Equal(t, "001", created.Settings.StartNo)
	assert.False(t, created.Settings.AutoAssign)

	// a later partial upsert keeps earlier customizations
	updated, err := svc.Upsert(ctx, 1, SettingsUpsertInput{StartNo: "100"})
	require.NoError(t, err)
	assert.Equal(t, "SUP", updated.Settings.Prefix)
	assert.Equal(t, "100", updated.Settings.StartNo)
	assert.Equal(t, "https://shop.example.com", updated.WebURL)
}

func TestSettingsUpsertRejectsNonNumericStartNo(t *testing.T) {
	svc, _ := newSettingsServiceFixture()

	_, err := svc.Upsert(context.Background(), 1, SettingsUpsertInput{StartNo: "10a"})
	assert.Equal(t, 400, domainErr(t, err).HTTPStatus)
}

func TestIssueAndVerifyAPIKey(t *testing.T) {
	svc, _ := newSettingsServiceFixture()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, 1, SettingsUpsertInput{WebURL: "https://shop.example.com"})
	require.NoError(t, err)

	key, err := svc.IssueAPIKey(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	settings, err := svc.VerifyStorefront(ctx, "https://shop.example.com", key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), settings.OutletID)

	_, err = svc.VerifyStorefront(ctx, "https://shop.example.com", "wrong-key")
	assert.Equal(t, 401, domainErr(t, err).HTTPStatus)

	_, err = svc.VerifyStorefront(ctx, "https://other.example.com", key)
	assert.Equal(t, 401, domainErr(t, err).HTTPStatus)

	_, err = svc.VerifyStorefront(ctx, "", "")
	assert.Equal(t, 401, domainErr(t, err).HTTPStatus)
}

func TestIssueAPIKeyRequiresSettings(t *testing.T) {
	svc, _ := newSettingsServiceFixture()

	_, err := svc.IssueAPIKey(context.Background(), 9)
	assert.Equal(t, 404, domainErr(t, err).HTTPStatus)
}

func TestVerifyStorefrontWithoutConfiguredKey(t *testing.T) {
	svc, _ := newSettingsServiceFixture()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, 1, SettingsUpsertInput{WebURL: "https://shop.example.com"})
	require.NoError(t, err)

	_, err = svc.VerifyStorefront(ctx, "https://shop.example.com", "anything")
	de := domainErr(t, err)
	assert.Equal(t, 401, de.HTTPStatus)
	assert.Contains(t, de.Message, "not configured")
}
