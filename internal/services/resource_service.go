package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ame_support_backend/internal/models"

	"gorm.io/gorm"
)

const maxResourceResults = 50

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

var ErrResourceNotFound = errors.New("resource not found")

// ValidationError reports a client input problem.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type ResourceQuery struct {
	Category models.ResourceCategory
	Severity models.Severity
	Location string
}

// ResourceInput is the create/update payload for a resource.
type ResourceInput struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Category    models.ResourceCategory `json:"category"`
	ContactInfo models.ContactInfo      `json:"contactInfo"`
	Location    models.Location         `json:"location"`
	Severity    models.Severity         `json:"severity"`
	Languages   []string                `json:"languages"`
	Is24Hours   bool                    `json:"is24Hours"`
	IsVerified  *bool                   `json:"isVerified"`
	Tags        []string                `json:"tags"`
}

func (in ResourceInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return validationErrorf("title and description are required")
	}
	if !in.Category.Valid() {
		return validationErrorf("invalid category %q", in.Category)
	}
	if !in.Severity.Valid() {
		return validationErrorf("invalid severity %q", in.Severity)
	}
	return nil
}

func (in ResourceInput) apply(r *models.Resource) {
	r.Title = in.Title
	r.Description = in.Description
	r.Category = in.Category
	r.ContactInfo = in.ContactInfo
	r.Location = in.Location
	if r.Location.Country == "" {
		r.Location.Country = "India"
	}
	r.Severity = in.Severity
	r.Languages = in.Languages
	if len(r.Languages) == 0 {
		r.Languages = []string{"en"}
	}
	r.Is24Hours = in.Is24Hours
	if in.IsVerified != nil {
		r.IsVerified = *in.IsVerified
	}
	r.Tags = in.Tags
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

type ResourceService struct {
	db *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{db: db}
}

// Query returns verified resources matching q, most severe first, then
// around-the-clock services, then newest.
func (s *ResourceService) Query(ctx context.Context, q ResourceQuery) ([]models.Resource, error) {
	query := s.db.WithContext(ctx).Where("is_verified = ?", true)
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Severity != "" {
		query = query.Where("severity = ?", q.Severity)
	}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(loc)) + "%"
		query = query.Where(
			`(LOWER(location_city) LIKE ? ESCAPE '\' OR LOWER(location_state) LIKE ? ESCAPE '\' OR LOWER(location_country) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}

	resources := []models.Resource{}
	err := query.
		Order("severity_rank desc").
		Order("is_24_hours desc").
		Order("created_at desc").
		Limit(maxResourceResults).
		Find(&resources).Error
	return resources, err
}

func (s *ResourceService) Create(ctx context.Context, in ResourceInput) (*models.Resource, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	resource := models.Resource{IsVerified: true}
	in.apply(&resource)
	if err := s.db.WithContext(ctx).Create(&resource).Error; err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *ResourceService) Get(ctx context.Context, id uint) (*models.Resource, error) {
	var resource models.Resource
	err := s.db.WithContext(ctx).First(&resource, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// Update replaces the editable fields of a resource.
func (s *ResourceService) Update(ctx context.Context, id uint, in ResourceInput) (*models.Resource, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	resource, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(resource)
	if err := s.db.WithContext(ctx).Save(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Resource{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Seed replaces the whole directory with resources.
func (s *ResourceService) Seed(ctx context.Context, resources []models.Resource) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Resource{}).Error; err != nil {
			return err
		}
		if len(resources) == 0 {
			return nil
		}
		return tx.Create(&resources).Error
	})
}
