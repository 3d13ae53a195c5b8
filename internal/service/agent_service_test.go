package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deskforge/support-service/internal/domain"
)

func newAgentServiceFixture() (*AgentService, *fakeAgentRepo) {
	agents := newFakeAgentRepo()
	svc := NewAgentService(AgentDependencies{AgentRepo: agents, Logger: zap.NewNop()})
	return svc, agents
}

func validRegisterInput() AgentRegisterInput {
	return AgentRegisterInput{
		UserID:      100,
		FirstName:   "Rin",
		LastName:    "Okabe",
		Email:       "rin@example.com",
		Department:  "shipping",
		Category:    "shipping",
		SubCategory: "delivery",
	}
}

func TestRegisterAgent(t *testing.T) {
	svc, _ := newAgentServiceFixture()

	agent, err := svc.Register(context.Background(), testOutletID, validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, domain.AgentLevelAgent, agent.Level)
	assert.Equal(t, domain.AgentStatusActive, agent.Status)
	assert.Equal(t, domain.AgentCategoryShipping, agent.Category)
	assert.NotZero(t, agent.ID)
	assert.False(t, agent.HiredAt.IsZero())
}

func TestRegisterAgentRejectsDuplicateUser(t *testing.T) {
	svc, _ := newAgentServiceFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, testOutletID, validRegisterInput())
	require.NoError(t, err)

	// same platform user, even from another outlet
	_, err = svc.Register(ctx, testOutletID+1, validRegisterInput())
	de := domainErr(t, err)
	assert.Equal(t, 409, de.HTTPStatus)
	assert.Contains(t, de.Message, "already registered")
}

func TestRegisterAgentValidatesClassification(t *testing.T) {
	svc, _ := newAgentServiceFixture()

	input := validRegisterInput()
	input.Category = "billing"
	input.SubCategory = "bug"
	_, err := svc.Register(context.Background(), testOutletID, input)
	de := domainErr(t, err)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Contains(t, de.Message, "does not match")
}

func TestRegisterAgentRequiredFields(t *testing.T) {
	svc, _ := newAgentServiceFixture()
	ctx := context.Background()

	input := validRegisterInput()
	input.UserID = 0
	_, err := svc.Register(ctx, testOutletID, input)
	assert.Equal(t, 400, domainErr(t, err).HTTPStatus)

	input = validRegisterInput()
	input.Email = " "
	_, err = svc.Register(ctx, testOutletID, input)
	assert.Equal(t, 400, domainErr(t, err).HTTPStatus)
}

func TestUpdateAgentPartialMerge(t *testing.T) {
	svc, _ := newAgentServiceFixture()
	ctx := context.Background()

	agent, err := svc.Register(ctx, testOutletID, validRegisterInput())
	require.NoError(t, err)

	newPhone := "555-0101"
	newStatus := "inactive"
	updated, err := svc.Update(ctx, testOutletID, agent.ID, AgentUpdateInput{
		Phone:  &newPhone,
		Status: &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0101", updated.Phone)
	assert.Equal(t, domain.AgentStatusInactive, updated.Status)
	assert.Equal(t, "Rin", updated.FirstName)
	assert.Equal(t, "shipping", updated.Department)
}

func TestUpdateAgentRejectsMismatchedClassification(t *testing.T) {
	svc, _ := newAgentServiceFixture()
	ctx := context.Background()

	agent, err := svc.Register(ctx, testOutletID, validRegisterInput())
	require.NoError(t, err)

	// changing only the category must stay consistent with the kept sub-category
	category := "billing"
	_, err = svc.Update(ctx, testOutletID, agent.ID, AgentUpdateInput{Category: &category})
	assert.Equal(t, 400, domainErr(t, err).HTTPStatus)
}

func TestAgentOutletScoping(t *testing.T) {
	svc, _ := newAgentServiceFixture()
	ctx := context.Background()

	agent, err := svc.Register(ctx, testOutletID, validRegisterInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, testOutletID+1, agent.ID)
	assert.Equal(t, 404, domainErr(t, err).HTTPStatus)

	err = svc.Delete(ctx, testOutletID+1, agent.ID)
	assert.Equal(t, 404, domainErr(t, err).HTTPStatus)

	require.NoError(t, svc.Delete(ctx, testOutletID, agent.ID))
}

func TestAgentStats(t *testing.T) {
	svc, agents := newAgentServiceFixture()

	agents.add(domain.Agent{OutletID: testOutletID, UserID: 1, Status: domain.AgentStatusActive})
	agents.add(domain.Agent{OutletID: testOutletID, UserID: 2, Status: domain.AgentStatusInactive})
	agents.add(domain.Agent{OutletID: testOutletID + 1, UserID: 3, Status: domain.AgentStatusActive})

	stats, err := svc.Stats(context.Background(), testOutletID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAgents)
	assert.Equal(t, int64(1), stats.TotalActiveAgents)
}
