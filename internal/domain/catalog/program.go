package catalog

import (
	"time"

	"github.com/xpro/backend/internal/domain/shared"
)

// Program represents a multi-course program that can be sold as a
// single purchasable product.
type Program struct {
	shared.BaseAggregateRoot
	Title      string `gorm:"type:varchar(255);not null"`
	ReadableID string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Live       bool   `gorm:"not null;default:false"`
	Courses    []Course
}

// TableName returns the table name for GORM
func (Program) TableName() string {
	return "programs"
}

// NewProgram creates a new program
func NewProgram(title, readableID string) (*Program, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateReadableID(readableID); err != nil {
		return nil, err
	}

	program := &Program{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		ReadableID:        readableID,
	}

	program.AddDomainEvent(NewProgramCreatedEvent(program))

	return program, nil
}

// Update updates the program's basic information
func (p *Program) Update(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}

	p.Title = title
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Publish makes the program visible in the catalog
func (p *Program) Publish() {
	p.Live = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Unpublish hides the program from the catalog
func (p *Program) Unpublish() {
	p.Live = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 255 characters")
	}
	return nil
}

func validateReadableID(readableID string) error {
	if readableID == "" {
		return shared.NewDomainError("INVALID_READABLE_ID", "Readable ID cannot be empty")
	}
	if len(readableID) > 255 {
		return shared.NewDomainError("INVALID_READABLE_ID", "Readable ID cannot exceed 255 characters")
	}
	return nil
}
