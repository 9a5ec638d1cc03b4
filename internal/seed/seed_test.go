package seed

import (
	"testing"

	"ame_support_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResources(t *testing.T) {
	resources, err := DefaultResources()
	require.NoError(t, err)
	require.Len(t, resources, 8)

	phones := map[string]string{}
	for _, r := range resources {
		phones[r.Title] = r.ContactInfo.Phone
		assert.True(t, r.IsVerified, r.Title)
		assert.Equal(t, "India", r.Location.Country, r.Title)
	}
	assert.Equal(t, "181", phones["National Women Helpline"])
	assert.Equal(t, "100", phones["Police Emergency"])
	assert.Equal(t, "1098", phones["Child Helpline"])
	assert.Equal(t, "1800-345-3590", phones["Legal Aid Services"])

	assert.Equal(t, models.CategoryLegal, resources[4].Category)
	assert.Equal(t, models.SeverityHigh, resources[4].Severity)
	assert.False(t, resources[4].Is24Hours)
}

func TestLoadResourcesRejectsInvalidEntries(t *testing.T) {
	_, err := LoadResources([]byte(`
resources:
  - title: Bad
    description: wrong category
    category: spa
    severity: low
`))
	assert.ErrorContains(t, err, "invalid category")

	_, err = LoadResources([]byte(`
resources:
  - title: Bad
    description: wrong severity
    category: legal
    severity: critical
`))
	assert.ErrorContains(t, err, "invalid severity")
}
