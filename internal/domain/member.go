package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantMember associates a user with a tenant and a role. The partial unique
// index allows at most one active row per (tenant, user); deactivated rows are
// kept as history, so a removed user can be re-admitted later.
type TenantMember struct {
	MemberID  uuid.UUID      `gorm:"column:member_id;type:uuid;primaryKey" json:"member_id"`
	TenantID  uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_members_active_pair,where:is_active" json:"tenant_id"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_members_active_pair,where:is_active" json:"user_id"`
	Role      string         `gorm:"column:role;type:varchar(20);not null;default:'professional'" json:"role"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	JoinedAt  time.Time      `gorm:"column:joined_at;not null" json:"joined_at"`
	InvitedBy *uuid.UUID     `gorm:"column:invited_by;type:uuid" json:"invited_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TenantMember) TableName() string {
	return "tenant_members"
}

func (m *TenantMember) BeforeCreate(tx *gorm.DB) error {
	if m.MemberID == uuid.Nil {
		m.MemberID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}
