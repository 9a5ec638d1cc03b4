package services

import (
	"context"
	"errors"
	"strings"

	"ame_support_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTrainingNotFound = errors.New("training example not found")

type TrainingFilter struct {
	Category models.ResourceCategory
	Approved *bool
	Language string
}

type TrainingInput struct {
	Title            string                  `json:"title"`
	Category         models.ResourceCategory `json:"category"`
	UserMessage      string                  `json:"userMessage"`
	ExpectedResponse string                  `json:"expectedResponse"`
	Severity         models.Severity         `json:"severity"`
	Keywords         []string                `json:"keywords"`
	Context          string                  `json:"context"`
	Language         string                  `json:"language"`
	IsApproved       bool                    `json:"isApproved"`
}

type TrainingPatch struct {
	Title            *string                  `json:"title"`
	Category         *models.ResourceCategory `json:"category"`
	UserMessage      *string                  `json:"userMessage"`
	ExpectedResponse *string                  `json:"expectedResponse"`
	Severity         *models.Severity         `json:"severity"`
	Keywords         *[]string                `json:"keywords"`
	Context          *string                  `json:"context"`
	Language         *string                  `json:"language"`
	IsApproved       *bool                    `json:"isApproved"`
}

func validTrainingLanguage(lang string) bool {
	for _, l := range models.TrainingLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

type TrainingService struct {
	db *gorm.DB
}

func NewTrainingService(db *gorm.DB) *TrainingService {
	return &TrainingService{db: db}
}

func (s *TrainingService) List(ctx context.Context, filter TrainingFilter) ([]models.TrainingData, error) {
	query := s.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	items := []models.TrainingData{}
	err := query.Order("created_at desc").Find(&items).Error
	return items, err
}

func (s *TrainingService) Create(ctx context.Context, in TrainingInput) (*models.TrainingData, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.UserMessage) == "" || strings.TrimSpace(in.ExpectedResponse) == "" {
		return nil, validationErrorf("title, category, userMessage and expectedResponse are required")
	}
	if !in.Category.Valid() {
		return nil, validationErrorf("invalid category %q", in.Category)
	}

	item := models.TrainingData{
		Title:            in.Title,
		Category:         in.Category,
		UserMessage:      in.UserMessage,
		ExpectedResponse: in.ExpectedResponse,
		Severity:         in.Severity,
		Keywords:         in.Keywords,
		Context:          in.Context,
		Language:         in.Language,
		IsApproved:       in.IsApproved,
	}
	if item.Severity == "" {
		item.Severity = models.SeverityLow
	}
	if !item.Severity.Valid() {
		return nil, validationErrorf("invalid severity %q", item.Severity)
	}
	if item.Language == "" {
		item.Language = "en"
	}
	if !validTrainingLanguage(item.Language) {
		return nil, validationErrorf("unsupported language %q", item.Language)
	}
	if item.Keywords == nil {
		item.Keywords = []string{}
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *TrainingService) Update(ctx context.Context, id uint, patch TrainingPatch) (*models.TrainingData, error) {
	var item models.TrainingData
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTrainingNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, validationErrorf("invalid category %q", *patch.Category)
		}
		item.Category = *patch.Category
	}
	if patch.UserMessage != nil {
		item.UserMessage = *patch.UserMessage
	}
	if patch.ExpectedResponse != nil {
		item.ExpectedResponse = *patch.ExpectedResponse
	}
	if patch.Severity != nil {
		if !patch.Severity.Valid() {
			return nil, validationErrorf("invalid severity %q", *patch.Severity)
		}
		item.Severity = *patch.Severity
	}
	if patch.Keywords != nil {
		item.Keywords = *patch.Keywords
	}
	if patch.Context != nil {
		item.Context = *patch.Context
	}
	if patch.Language != nil {
		if !validTrainingLanguage(*patch.Language) {
			return nil, validationErrorf("unsupported language %q", *patch.Language)
		}
		item.Language = *patch.Language
	}
	if patch.IsApproved != nil {
		item.IsApproved = *patch.IsApproved
	}

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *TrainingService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.TrainingData{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTrainingNotFound
	}
	return nil
}
