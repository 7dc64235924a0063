package members

import (
	"context"
	"errors"
	"time"

	"huddle-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is the membership ledger. Mutating methods take the *gorm.DB to run
// against, so the invitation engine can pass its transaction and have
// "membership created" and "invitation accepted" commit or roll back together.
type Service struct {
	DB *gorm.DB
}

// HasActiveMember reports whether the user holds an active membership in the tenant.
func (s *Service) HasActiveMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// ActiveMember returns the active membership row for (tenant, user), or
// ErrMemberNotFound. Services use it to derive the actor's workspace role.
func (s *Service) ActiveMember(ctx context.Context, tenantID, userID uuid.UUID) (*domain.TenantMember, error) {
	var m domain.TenantMember
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantID, userID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember creates an active membership on the given handle (tx or base DB).
// An existing active row for the pair fails with ErrMemberExists; the partial
// unique index backs this up against races, so a concurrent insert surfaces
// here as ErrDuplicatedKey rather than a second active row.
func (s *Service) AddMember(ctx context.Context, tx *gorm.DB, tenantID, userID uuid.UUID, role string, invitedBy *uuid.UUID) (*domain.TenantMember, error) {
	if tx == nil {
		tx = s.DB
	}
	m := &domain.TenantMember{
		TenantID:  tenantID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		InvitedBy: invitedBy,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMemberExists
		}
		return nil, err
	}
	return m, nil
}

// Deactivate models member removal: the row is kept, is_active flips off.
func (s *Service) Deactivate(ctx context.Context, tenantID, userID uuid.UUID) error {
	result := s.DB.WithContext(ctx).Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantID, userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// ListForTenant returns active memberships with the member's user loaded.
func (s *Service) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]MemberView, error) {
	var views []MemberView
	err := s.DB.WithContext(ctx).Model(&domain.TenantMember{}).
		Select("tenant_members.member_id, tenant_members.user_id, users.full_name, users.email, tenant_members.role, tenant_members.joined_at, tenant_members.invited_by").
		Joins("JOIN users ON users.user_id = tenant_members.user_id").
		Where("tenant_members.tenant_id = ? AND tenant_members.is_active = ?", tenantID, true).
		Order("tenant_members.joined_at ASC").
		Scan(&views).Error
	return views, err
}

// MemberView is the row shape returned by ListForTenant.
type MemberView struct {
	MemberID  uuid.UUID  `json:"member_id"`
	UserID    uuid.UUID  `json:"user_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`
	InvitedBy *uuid.UUID `json:"invited_by"`
}
