package services

import (
	"context"
	"testing"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingCreateDefaults(t *testing.T) {
	svc := NewTrainingService(newTestDB(t))

	item, err := svc.Create(context.Background(), TrainingInput{
		Title:            "greeting",
		Category:         models.CategoryGeneral,
		UserMessage:      "hello",
		ExpectedResponse: "Hello, I am here to listen.",
	})
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, models.SeverityLow, item.Severity)
	assert.Equal(t, "en", item.Language)
	assert.False(t, item.IsApproved)
	assert.Equal(t, []string{}, []string(item.Keywords))
}

func TestTrainingCreateValidation(t *testing.T) {
	svc := NewTrainingService(newTestDB(t))
	base := TrainingInput{
		Title:            "t",
		Category:         models.CategoryLegal,
		UserMessage:      "u",
		ExpectedResponse: "e",
	}

	tests := map[string]func(in *TrainingInput){
		"missing title":    func(in *TrainingInput) { in.Title = " " },
		"bad category":     func(in *TrainingInput) { in.Category = "housing" },
		"bad severity":     func(in *TrainingInput) { in.Severity = "critical" },
		"unsupported lang": func(in *TrainingInput) { in.Language = "ta" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := svc.Create(context.Background(), in)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestTrainingListFilters(t *testing.T) {
	svc := NewTrainingService(newTestDB(t))
	ctx := context.Background()

	inputs := []TrainingInput{
		{Title: "a", Category: models.CategoryLegal, UserMessage: "u", ExpectedResponse: "e", IsApproved: true},
		{Title: "b", Category: models.CategoryLegal, UserMessage: "u", ExpectedResponse: "e", Language: "hi"},
		{Title: "c", Category: models.CategoryShelter, UserMessage: "u", ExpectedResponse: "e", IsApproved: true},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	legal, err := svc.List(ctx, TrainingFilter{Category: models.CategoryLegal})
	require.NoError(t, err)
	assert.Len(t, legal, 2)

	approved := true
	got, err := svc.List(ctx, TrainingFilter{Approved: &approved})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	hindi, err := svc.List(ctx, TrainingFilter{Language: "hi"})
	require.NoError(t, err)
	require.Len(t, hindi, 1)
	assert.Equal(t, "b", hindi[0].Title)
}

func TestTrainingUpdateAndDelete(t *testing.T) {
	svc := NewTrainingService(newTestDB(t))
	ctx := context.Background()

	item, err := svc.Create(ctx, TrainingInput{Title: "a", Category: models.CategoryLegal, UserMessage: "u", ExpectedResponse: "e"})
	require.NoError(t, err)

	approved := true
	lang := "hi"
	updated, err := svc.Update(ctx, item.ID, TrainingPatch{IsApproved: &approved, Language: &lang})
	require.NoError(t, err)
	assert.True(t, updated.IsApproved)
	assert.Equal(t, "hi", updated.Language)
	assert.Equal(t, "a", updated.Title)

	bad := models.Severity("critical")
	_, err = svc.Update(ctx, item.ID, TrainingPatch{Severity: &bad})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, item.ID+1, TrainingPatch{IsApproved: &approved})
	assert.ErrorIs(t, err, ErrTrainingNotFound)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), ErrTrainingNotFound)
}
