package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// API is a published API in the catalog
type API struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Version         string    `gorm:"type:varchar(50);not null" json:"version"`
	Provider        string    `gorm:"type:varchar(255);not null;index" json:"provider"`
	ContextTemplate string    `gorm:"type:varchar(500);not null" json:"context_template"` // e.g. /petstore/{version}
	Description     string    `gorm:"type:text" json:"description"`
	Status          string    `gorm:"type:varchar(30);not null;default:'CREATED'" json:"status"`
	ThumbnailURL    string    `json:"thumbnail_url"`

	Documents []Documentation `gorm:"foreignKey:APIID" json:"documents,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// APIProduct bundles resources of several APIs behind one context
type APIProduct struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Version         string    `gorm:"type:varchar(50);not null;default:'1.0.0'" json:"version"`
	Provider        string    `gorm:"type:varchar(255);not null;index" json:"provider"`
	ContextTemplate string    `gorm:"type:varchar(500);not null" json:"context_template"`
	Description     string    `gorm:"type:text" json:"description"`
	ThumbnailURL    string    `json:"thumbnail_url"`

	Documents []Documentation `gorm:"foreignKey:APIProductID" json:"documents,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Documentation belongs to exactly one API or one API product.
// Type, Visibility and SourceType are stored as written by the publisher;
// they are validated when projected into search results.
type Documentation struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Type          string    `gorm:"type:varchar(30);not null" json:"type"`
	Summary       string    `gorm:"type:text" json:"summary"`
	Visibility    string    `gorm:"type:varchar(20);not null" json:"visibility"`
	SourceType    string    `gorm:"type:varchar(20);not null" json:"source_type"`
	SourceURL     string    `json:"source_url"`
	OtherTypeName string    `json:"other_type_name"`

	// Associations
	APIID        *uuid.UUID `gorm:"type:uuid;index" json:"api_id"`
	APIProductID *uuid.UUID `gorm:"type:uuid;index" json:"api_product_id"`

	API        *API        `gorm:"foreignKey:APIID" json:"api,omitempty"`
	APIProduct *APIProduct `gorm:"foreignKey:APIProductID" json:"api_product,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hooks for UUID generation
func (a *API) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (p *APIProduct) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (d *Documentation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
