package seed

import (
	_ "embed"
	"fmt"

	"ame_support_backend/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed resources.yaml
var defaultResources []byte

type resourceFile struct {
	Resources []resourceEntry `yaml:"resources"`
}

type resourceEntry struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Category    string             `yaml:"category"`
	Contact     models.ContactInfo `yaml:"contact"`
	Location    models.Location    `yaml:"location"`
	Severity    string             `yaml:"severity"`
	Languages   []string           `yaml:"languages"`
	Is24Hours   bool               `yaml:"is24Hours"`
	Tags        []string           `yaml:"tags"`
}

// DefaultResources returns the built-in support directory.
func DefaultResources() ([]models.Resource, error) {
	return LoadResources(defaultResources)
}

// LoadResources parses a YAML resource list. Every entry is marked verified.
func LoadResources(data []byte) ([]models.Resource, error) {
	var file resourceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing resources: %w", err)
	}

	resources := make([]models.Resource, 0, len(file.Resources))
	for i, entry := range file.Resources {
		category := models.ResourceCategory(entry.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("resource %d (%s): invalid category %q", i, entry.Title, entry.Category)
		}
		level, ok := models.ParseSeverity(entry.Severity)
		if !ok {
			return nil, fmt.Errorf("resource %d (%s): invalid severity %q", i, entry.Title, entry.Severity)
		}
		if entry.Title == "" || entry.Description == "" {
			return nil, fmt.Errorf("resource %d: title and description are required", i)
		}

		location := entry.Location
		if location.Country == "" {
			location.Country = "India"
		}
		languages := entry.Languages
		if len(languages) == 0 {
			languages = []string{"en"}
		}
		tags := entry.Tags
		if tags == nil {
			tags = []string{}
		}

		resources = append(resources, models.Resource{
			Title:       entry.Title,
			Description: entry.Description,
			Category:    category,
			ContactInfo: entry.Contact,
			Location:    location,
			Severity:    level,
			Languages:   languages,
			Is24Hours:   entry.Is24Hours,
			IsVerified:  true,
			Tags:        tags,
		})
	}
	return resources, nil
}
