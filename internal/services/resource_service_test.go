package services

import (
	"context"
	"fmt"
	"testing"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resourceInput(title string, category models.ResourceCategory, level models.Severity) ResourceInput {
	return ResourceInput{
		Title:       title,
		Description: title + " description",
		Category:    category,
		Severity:    level,
	}
}

func TestResourceQueryOrdersBySeverityThenAvailability(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	inputs := []ResourceInput{
		resourceInput("counselling", models.CategoryPsychological, models.SeverityMedium),
		resourceInput("legal aid", models.CategoryLegal, models.SeverityHigh),
		resourceInput("police", models.CategoryEmergency, models.SeverityEmergency),
		resourceInput("shelter", models.CategoryShelter, models.SeverityHigh),
		resourceInput("info line", models.CategoryGeneral, models.SeverityLow),
	}
	inputs[3].Is24Hours = true
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	got, err := svc.Query(ctx, ResourceQuery{})
	require.NoError(t, err)
	var titles []string
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"police", "shelter", "legal aid", "counselling", "info line"}, titles)
}

func TestResourceQueryFilters(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	delhi := resourceInput("delhi legal", models.CategoryLegal, models.SeverityHigh)
	delhi.Location = models.Location{City: "New Delhi", State: "Delhi"}
	mumbai := resourceInput("mumbai legal", models.CategoryLegal, models.SeverityMedium)
	mumbai.Location = models.Location{City: "Mumbai", State: "Maharashtra"}
	hidden := resourceInput("unverified", models.CategoryLegal, models.SeverityHigh)
	unverified := false
	hidden.IsVerified = &unverified
	clinic := resourceInput("clinic", models.CategoryMedical, models.SeverityHigh)

	for _, in := range []ResourceInput{delhi, mumbai, hidden, clinic} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	legal, err := svc.Query(ctx, ResourceQuery{Category: models.CategoryLegal})
	require.NoError(t, err)
	assert.Len(t, legal, 2)

	high, err := svc.Query(ctx, ResourceQuery{Category: models.CategoryLegal, Severity: models.SeverityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "delhi legal", high[0].Title)

	byState, err := svc.Query(ctx, ResourceQuery{Location: "maharash"})
	require.NoError(t, err)
	require.Len(t, byState, 1)
	assert.Equal(t, "mumbai legal", byState[0].Title)

	for _, literal := range []string{"%", "_", "D_lhi", `\`} {
		got, err := svc.Query(ctx, ResourceQuery{Location: literal})
		require.NoError(t, err)
		assert.Empty(t, got, literal)
	}

	byCity, err := svc.Query(ctx, ResourceQuery{Location: "delhi"})
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "delhi legal", byCity[0].Title)

	byCountry, err := svc.Query(ctx, ResourceQuery{Location: "INDIA"})
	require.NoError(t, err)
	assert.Len(t, byCountry, 3)

	none, err := svc.Query(ctx, ResourceQuery{Category: models.CategoryShelter})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestResourceQueryCapsResults(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	batch := make([]models.Resource, 0, maxResourceResults+5)
	for i := 0; i < maxResourceResults+5; i++ {
		batch = append(batch, models.Resource{
			Title:       fmt.Sprintf("r%d", i),
			Description: "d",
			Category:    models.CategoryGeneral,
			Severity:    models.SeverityLow,
			IsVerified:  true,
		})
	}
	require.NoError(t, svc.Seed(ctx, batch))

	got, err := svc.Query(ctx, ResourceQuery{})
	require.NoError(t, err)
	assert.Len(t, got, maxResourceResults)
}

func TestResourceCreateDefaultsAndValidation(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, resourceInput("helpline", models.CategoryEmergency, models.SeverityEmergency))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "India", created.Location.Country)
	assert.Equal(t, []string{"en"}, []string(created.Languages))
	assert.True(t, created.IsVerified)
	assert.Equal(t, 3, created.SeverityRank)

	_, err = svc.Create(ctx, resourceInput("", models.CategoryLegal, models.SeverityLow))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, resourceInput("x", "housing", models.SeverityLow))
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, resourceInput("x", models.CategoryLegal, "critical"))
	assert.ErrorAs(t, err, &verr)
}

func TestResourceUpdateAndDelete(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, resourceInput("clinic", models.CategoryMedical, models.SeverityMedium))
	require.NoError(t, err)

	in := resourceInput("clinic", models.CategoryMedical, models.SeverityEmergency)
	in.Is24Hours = true
	updated, err := svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, models.SeverityEmergency, updated.Severity)
	assert.Equal(t, 3, updated.SeverityRank)
	assert.True(t, updated.Is24Hours)

	_, err = svc.Update(ctx, created.ID+100, in)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrResourceNotFound)
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceUpdateKeepsVerificationWhenOmitted(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	in := resourceInput("pending shelter", models.CategoryShelter, models.SeverityHigh)
	unverified := false
	in.IsVerified = &unverified
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.False(t, created.IsVerified)

	edit := resourceInput("pending shelter", models.CategoryShelter, models.SeverityEmergency)
	updated, err := svc.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.False(t, updated.IsVerified)
	assert.Equal(t, models.SeverityEmergency, updated.Severity)

	listed, err := svc.Query(ctx, ResourceQuery{Category: models.CategoryShelter})
	require.NoError(t, err)
	assert.Empty(t, listed)

	verified := true
	edit.IsVerified = &verified
	updated, err = svc.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)

	listed, err = svc.Query(ctx, ResourceQuery{Category: models.CategoryShelter})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestResourceSeedReplacesDirectory(t *testing.T) {
	svc := NewResourceService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, resourceInput("old", models.CategoryGeneral, models.SeverityLow))
	require.NoError(t, err)

	require.NoError(t, svc.Seed(ctx, []models.Resource{
		{Title: "new", Description: "d", Category: models.CategoryLegal, Severity: models.SeverityHigh, IsVerified: true},
	}))

	got, err := svc.Query(ctx, ResourceQuery{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Title)
}
