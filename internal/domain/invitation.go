package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantInvitation offers a specific email a role in a tenant. The token is
// the only identifier ever exposed outside the inviting workspace; it is set
// once at creation, as is ExpiresAt. Status moves one way out of pending and
// never re-enters it. The partial unique index permits a single pending
// invitation per (tenant, email) while keeping processed ones as history.
type TenantInvitation struct {
	InviteID   uuid.UUID      `gorm:"column:invite_id;type:uuid;primaryKey" json:"invite_id"`
	TenantID   uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_invitations_pending,where:status = 'pending'" json:"tenant_id"`
	Email      string         `gorm:"column:email;not null;index;uniqueIndex:idx_invitations_pending,where:status = 'pending'" json:"email"`
	Role       string         `gorm:"column:role;type:varchar(20);not null;default:'professional'" json:"role"`
	Status     string         `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`
	Token      uuid.UUID      `gorm:"column:token;type:uuid;not null;uniqueIndex" json:"-"`
	InvitedBy  uuid.UUID      `gorm:"column:invited_by;type:uuid;not null" json:"invited_by"`
	ExpiresAt  time.Time      `gorm:"column:expires_at;not null" json:"expires_at"`
	AcceptedAt *time.Time     `gorm:"column:accepted_at" json:"accepted_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TenantInvitation) TableName() string {
	return "tenant_invitations"
}

func (i *TenantInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.InviteID == uuid.Nil {
		i.InviteID = uuid.New()
	}
	if i.Token == uuid.Nil {
		i.Token = uuid.New()
	}
	return nil
}

// IsExpired reports whether the invitation's deadline has passed.
func (i *TenantInvitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
