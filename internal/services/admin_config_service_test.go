package services

import (
	"context"
	"encoding/json"
	"testing"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminConfigCreateValidatesContent(t *testing.T) {
	svc := NewAdminConfigService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, AdminConfigInput{
		ConfigType: models.ConfigTypeRules,
		Name:       "escalate threats",
		Content:    json.RawMessage(`{"condition":"mentions weapon","action":"share police number","category":"emergency"}`),
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{}, []string(created.Tags))

	content, err := created.DecodedContent()
	require.NoError(t, err)
	rule, ok := content.(*models.RuleContent)
	require.True(t, ok)
	assert.Equal(t, models.CategoryEmergency, rule.Category)

	var verr *ValidationError
	tests := []AdminConfigInput{
		{ConfigType: "persona", Name: "x", Content: json.RawMessage(`{}`)},
		{ConfigType: models.ConfigTypeTones, Name: "", Content: json.RawMessage(`{"tone":"warm"}`)},
		{ConfigType: models.ConfigTypeTones, Name: "missing tone", Content: json.RawMessage(`{"context":"greeting"}`)},
		{ConfigType: models.ConfigTypeTones, Name: "rule shape", Content: json.RawMessage(`{"tone":"warm","condition":"x"}`)},
		{ConfigType: models.ConfigTypeTraining, Name: "bad category", Content: json.RawMessage(`{"userMessage":"a","expectedResponse":"b","category":"housing"}`)},
	}
	for _, in := range tests {
		_, err := svc.Create(ctx, in)
		assert.ErrorAs(t, err, &verr, in.Name)
	}
}

func TestAdminConfigListActiveByPriority(t *testing.T) {
	svc := NewAdminConfigService(newTestDB(t))
	ctx := context.Background()

	inactive := false
	inputs := []AdminConfigInput{
		{ConfigType: models.ConfigTypeTones, Name: "calm", Priority: 1, Content: json.RawMessage(`{"tone":"calm"}`)},
		{ConfigType: models.ConfigTypeTones, Name: "urgent", Priority: 5, Content: json.RawMessage(`{"tone":"direct","severity":"emergency"}`)},
		{ConfigType: models.ConfigTypeTones, Name: "retired", Priority: 9, IsActive: &inactive, Content: json.RawMessage(`{"tone":"formal"}`)},
		{ConfigType: models.ConfigTypeTraining, Name: "greeting", Content: json.RawMessage(`{"userMessage":"hi","expectedResponse":"hello"}`)},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	tones, err := svc.List(ctx, models.ConfigTypeTones)
	require.NoError(t, err)
	require.Len(t, tones, 2)
	assert.Equal(t, "urgent", tones[0].Name)
	assert.Equal(t, "calm", tones[1].Name)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.List(ctx, "persona")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAdminConfigUpdateAndDelete(t *testing.T) {
	svc := NewAdminConfigService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, AdminConfigInput{
		ConfigType: models.ConfigTypeTones,
		Name:       "calm",
		Content:    json.RawMessage(`{"tone":"calm"}`),
	})
	require.NoError(t, err)

	priority := 7
	inactive := false
	updated, err := svc.Update(ctx, created.ID, AdminConfigPatch{
		Priority: &priority,
		IsActive: &inactive,
		Content:  json.RawMessage(`{"tone":"gentle","examples":["I hear you"]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "calm", updated.Name)
	assert.Equal(t, 7, updated.Priority)
	assert.False(t, updated.IsActive)
	content, err := updated.DecodedContent()
	require.NoError(t, err)
	assert.Equal(t, "gentle", content.(*models.ToneContent).Tone)

	_, err = svc.Update(ctx, created.ID, AdminConfigPatch{Content: json.RawMessage(`{"condition":"x","action":"y"}`)})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, created.ID+1, AdminConfigPatch{Priority: &priority})
	assert.ErrorIs(t, err, ErrConfigNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrConfigNotFound)
}
