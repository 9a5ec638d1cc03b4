package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"ame_support_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrConfigNotFound = errors.New("config not found")

type AdminConfigInput struct {
	ConfigType  models.ConfigType `json:"configType"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Content     json.RawMessage   `json:"content"`
	IsActive    *bool             `json:"isActive"`
	Priority    int               `json:"priority"`
	Tags        []string          `json:"tags"`
}

// AdminConfigPatch carries the fields an update may change. Nil fields are left alone.
type AdminConfigPatch struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Content     json.RawMessage `json:"content"`
	IsActive    *bool           `json:"isActive"`
	Priority    *int            `json:"priority"`
	Tags        *[]string       `json:"tags"`
}

type AdminConfigService struct {
	db *gorm.DB
}

func NewAdminConfigService(db *gorm.DB) *AdminConfigService {
	return &AdminConfigService{db: db}
}

// List returns active configs, highest priority first. An empty configType lists all types.
func (s *AdminConfigService) List(ctx context.Context, configType models.ConfigType) ([]models.AdminConfig, error) {
	if configType != "" && !configType.Valid() {
		return nil, validationErrorf("invalid config type %q", configType)
	}
	query := s.db.WithContext(ctx).Where("is_active = ?", true)
	if configType != "" {
		query = query.Where("config_type = ?", configType)
	}
	configs := []models.AdminConfig{}
	err := query.Order("priority desc").Order("created_at desc").Find(&configs).Error
	return configs, err
}

func (s *AdminConfigService) Create(ctx context.Context, in AdminConfigInput) (*models.AdminConfig, error) {
	if !in.ConfigType.Valid() || strings.TrimSpace(in.Name) == "" || len(in.Content) == 0 {
		return nil, validationErrorf("configType, name and content are required")
	}
	content, err := encodeConfigContent(in.ConfigType, in.Content)
	if err != nil {
		return nil, err
	}

	config := models.AdminConfig{
		ConfigType:  in.ConfigType,
		Name:        in.Name,
		Description: in.Description,
		Content:     content,
		IsActive:    true,
		Priority:    in.Priority,
		Tags:        in.Tags,
	}
	if in.IsActive != nil {
		config.IsActive = *in.IsActive
	}
	if config.Tags == nil {
		config.Tags = []string{}
	}
	if err := s.db.WithContext(ctx).Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *AdminConfigService) Update(ctx context.Context, id uint, patch AdminConfigPatch) (*models.AdminConfig, error) {
	var config models.AdminConfig
	err := s.db.WithContext(ctx).First(&config, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, validationErrorf("name must not be empty")
		}
		config.Name = *patch.Name
	}
	if patch.Description != nil {
		config.Description = *patch.Description
	}
	if len(patch.Content) > 0 {
		content, err := encodeConfigContent(config.ConfigType, patch.Content)
		if err != nil {
			return nil, err
		}
		config.Content = content
	}
	if patch.IsActive != nil {
		config.IsActive = *patch.IsActive
	}
	if patch.Priority != nil {
		config.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		config.Tags = *patch.Tags
	}

	if err := s.db.WithContext(ctx).Save(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (s *AdminConfigService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.AdminConfig{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConfigNotFound
	}
	return nil
}

// encodeConfigContent validates raw against the variant for t and re-encodes it
// so only the variant's fields are stored.
func encodeConfigContent(t models.ConfigType, raw []byte) (datatypes.JSON, error) {
	content, err := models.DecodeConfigContent(t, raw)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	encoded, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
