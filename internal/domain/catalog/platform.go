package catalog

import (
	"time"

	"github.com/xpro/backend/internal/domain/shared"
)

// Platform represents a courseware platform that hosts courses,
// either the in-house platform or an external vendor.
type Platform struct {
	shared.BaseAggregateRoot
	Name                 string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Enabled              bool   `gorm:"not null;default:true"`
	SyncDailyEnrollments bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Platform) TableName() string {
	return "platforms"
}

// NewPlatform creates a new platform
func NewPlatform(name string) (*Platform, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Platform name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Platform name cannot exceed 255 characters")
	}
	return &Platform{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Enabled:           true,
	}, nil
}

// Disable disables the platform
func (p *Platform) Disable() {
	p.Enabled = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Enable enables the platform
func (p *Platform) Enable() {
	p.Enabled = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
