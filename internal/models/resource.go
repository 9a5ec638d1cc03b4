package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContactInfo struct {
	Phone   string `json:"phone,omitempty" yaml:"phone"`
	Email   string `json:"email,omitempty" yaml:"email"`
	Website string `json:"website,omitempty" yaml:"website"`
	Address string `json:"address,omitempty" yaml:"address"`
}

type Location struct {
	City    string `json:"city,omitempty" yaml:"city"`
	State   string `json:"state,omitempty" yaml:"state"`
	Country string `json:"country" yaml:"country"`
}

// Resource is a directory entry for an external support service.
type Resource struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"not null" json:"title"`
	Description  string                      `gorm:"not null" json:"description"`
	Category     ResourceCategory            `gorm:"size:32;index;not null" json:"category"`
	ContactInfo  ContactInfo                 `gorm:"embedded;embeddedPrefix:contact_" json:"contactInfo"`
	Location     Location                    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Severity     Severity                    `gorm:"size:16;index;not null" json:"severity"`
	SeverityRank int                         `gorm:"index" json:"-"`
	Languages    datatypes.JSONSlice[string] `json:"languages"`
	Is24Hours    bool                        `gorm:"column:is_24_hours" json:"is24Hours"`
	IsVerified   bool                        `json:"isVerified"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// BeforeSave keeps SeverityRank in step with Severity so queries can sort ordinally.
func (r *Resource) BeforeSave(tx *gorm.DB) error {
	r.SeverityRank = r.Severity.Rank()
	return nil
}
