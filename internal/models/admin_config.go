package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ConfigType string

const (
	ConfigTypeRules    ConfigType = "rules"
	ConfigTypeTones    ConfigType = "tones"
	ConfigTypeTraining ConfigType = "training"
)

func (t ConfigType) Valid() bool {
	switch t {
	case ConfigTypeRules, ConfigTypeTones, ConfigTypeTraining:
		return true
	}
	return false
}

// AdminConfig is an admin-edited record. Content holds the JSON encoding of the
// ConfigContent variant selected by ConfigType.
type AdminConfig struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	ConfigType  ConfigType                  `gorm:"size:16;index:idx_config_type_active;not null" json:"configType"`
	Name        string                      `gorm:"not null" json:"name"`
	Description string                      `json:"description,omitempty"`
	Content     datatypes.JSON              `gorm:"not null" json:"content"`
	IsActive    bool                        `gorm:"index:idx_config_type_active" json:"isActive"`
	Priority    int                         `gorm:"index" json:"priority"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

// ConfigContent is implemented by RuleContent, ToneContent and TrainingContent.
type ConfigContent interface {
	ConfigType() ConfigType
	Validate() error
}

type RuleContent struct {
	Condition string           `json:"condition"`
	Action    string           `json:"action"`
	Category  ResourceCategory `json:"category"`
}

func (RuleContent) ConfigType() ConfigType { return ConfigTypeRules }

func (r RuleContent) Validate() error {
	if r.Condition == "" || r.Action == "" {
		return errors.New("rule content requires condition and action")
	}
	if r.Category != "" && !r.Category.Valid() {
		return fmt.Errorf("invalid rule category %q", r.Category)
	}
	return nil
}

type ToneContent struct {
	Tone     string   `json:"tone"`
	Context  string   `json:"context,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

func (ToneContent) ConfigType() ConfigType { return ConfigTypeTones }

func (t ToneContent) Validate() error {
	if t.Tone == "" {
		return errors.New("tone content requires tone")
	}
	if t.Severity != "" && !t.Severity.Valid() {
		return fmt.Errorf("invalid tone severity %q", t.Severity)
	}
	return nil
}

type TrainingContent struct {
	UserMessage      string           `json:"userMessage"`
	ExpectedResponse string           `json:"expectedResponse"`
	Category         ResourceCategory `json:"category,omitempty"`
}

func (TrainingContent) ConfigType() ConfigType { return ConfigTypeTraining }

func (t TrainingContent) Validate() error {
	if t.UserMessage == "" || t.ExpectedResponse == "" {
		return errors.New("training content requires userMessage and expectedResponse")
	}
	if t.Category != "" && !t.Category.Valid() {
		return fmt.Errorf("invalid training category %q", t.Category)
	}
	return nil
}

// DecodeConfigContent decodes raw into the variant for t and validates it.
// Unknown fields are rejected so a payload cannot carry another variant's shape.
func DecodeConfigContent(t ConfigType, raw []byte) (ConfigContent, error) {
	var content ConfigContent
	switch t {
	case ConfigTypeRules:
		content = &RuleContent{}
	case ConfigTypeTones:
		content = &ToneContent{}
	case ConfigTypeTraining:
		content = &TrainingContent{}
	default:
		return nil, fmt.Errorf("unknown config type %q", t)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(content); err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", t, err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

// DecodedContent returns the typed content stored on c.
func (c *AdminConfig) DecodedContent() (ConfigContent, error) {
	return DecodeConfigContent(c.ConfigType, c.Content)
}
