package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant is a workspace: an isolated organizational unit owning its members.
// Slug is derived from Name at creation and never changes afterwards; the
// owner never changes either. Deactivation is a soft toggle, tenants are not
// hard-deleted in the normal flow.
type Tenant struct {
	TenantID   uuid.UUID         `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`
	Name       string            `gorm:"column:name;not null" json:"name"`
	TenantType string            `gorm:"column:tenant_type;type:varchar(20);not null" json:"tenant_type"`
	Slug       string            `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	OwnerID    uuid.UUID         `gorm:"column:owner_id;type:uuid;not null" json:"owner_id"`
	Email      *string           `gorm:"column:email" json:"email"`
	Phone      *string           `gorm:"column:phone;type:varchar(20)" json:"phone"`
	TeamSize   string            `gorm:"column:team_size;type:varchar(10);not null;default:'solo'" json:"team_size"`
	Settings   datatypes.JSONMap `gorm:"column:settings;type:jsonb" json:"settings"`
	IsActive   bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.TenantID == uuid.Nil {
		t.TenantID = uuid.New()
	}
	return nil
}
