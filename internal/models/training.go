package models

import (
	"time"

	"gorm.io/datatypes"
)

// TrainingData is a curated example exchange. It is not read by the chat pipeline.
type TrainingData struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	Title            string                      `gorm:"not null" json:"title"`
	Category         ResourceCategory            `gorm:"size:32;index:idx_training_category;not null" json:"category"`
	UserMessage      string                      `gorm:"not null" json:"userMessage"`
	ExpectedResponse string                      `gorm:"not null" json:"expectedResponse"`
	Severity         Severity                    `gorm:"size:16;index" json:"severity"`
	Keywords         datatypes.JSONSlice[string] `json:"keywords"`
	Context          string                      `json:"context"`
	Language         string                      `gorm:"size:8;index" json:"language"`
	IsApproved       bool                        `gorm:"index:idx_training_category" json:"isApproved"`
	UsageCount       int                         `json:"usageCount"`
	CreatedAt        time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

// TrainingLanguages are the languages a training example may be written in.
var TrainingLanguages = []string{"en", "hi"}
