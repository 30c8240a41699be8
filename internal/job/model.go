package job

import (
	"time"

	"github.com/google/uuid"
)

// Job is a contractor's job record. The editing flows own it; export only
// reads a snapshot.
type Job struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID uint64    `gorm:"index;not null"`

	Title        string `gorm:"type:text;not null;default:''"`
	TradeType    string `gorm:"type:text;not null;default:''"`
	PropertyType string `gorm:"type:text;not null;default:''"`
	Address      string `gorm:"type:text;not null;default:''"`
	ClientName   string `gorm:"type:text;not null;default:''"`
	ClientEmail  string `gorm:"type:text;not null;default:''"`

	AIReviewStatus ReviewStatus `gorm:"type:text;index;not null;default:'draft'"`

	AISummary     string `gorm:"type:text;not null;default:''"`
	AIQuote       string `gorm:"type:text;not null;default:''"` // JSON {labour?, materials?, totalEstimate?}
	AIScopeOfWork string `gorm:"type:text;not null;default:''"`
	AIInclusions  string `gorm:"type:text;not null;default:''"`
	AIExclusions  string `gorm:"type:text;not null;default:''"`
	AIClientNotes string `gorm:"type:text;not null;default:''"`
	AIMaterials   string `gorm:"type:text;not null;default:''"` // lines or JSON [{item, quantity, estimatedCost}]

	MaterialsOverrideText     string   `gorm:"type:text;not null;default:''"`
	MaterialsTotal            *float64 `gorm:"type:numeric(12,2)"`
	MaterialsAreRoughEstimate bool     `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// Material is one itemised material line of a job.
type Material struct {
	ID        uint64    `gorm:"primaryKey"`
	JobID     uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID   uint64    `gorm:"index;not null"`
	Position  int       `gorm:"not null;default:0"`
	Name      string    `gorm:"type:text;not null"`
	UnitLabel string    `gorm:"type:text;not null;default:''"`
	Quantity  float64   `gorm:"type:numeric(12,3);not null;default:0"`
	LineTotal *float64  `gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Material) TableName() string { return "job_materials" }
