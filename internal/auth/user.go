package auth

import (
	"time"

	"github.com/lib/pq"

	"jobpack/internal/policy"
)

// User is the account record. Plan fields are written by billing and only
// read here; the business fields feed the document header.
type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	PlanTier   policy.Tier   `gorm:"type:text;not null;default:'FREE'"`
	PlanStatus policy.Status `gorm:"type:text;not null;default:'TRIAL'"`
	IsAdmin    bool          `gorm:"not null;default:false"`

	BusinessName string         `gorm:"type:text;not null;default:''"`
	ABN          string         `gorm:"type:text;not null;default:''"`
	Phone        string         `gorm:"type:text;not null;default:''"`
	Licences     pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (u *User) Plan() policy.Plan {
	return policy.Plan{Tier: u.PlanTier, Status: u.PlanStatus}
}
