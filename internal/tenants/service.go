package tenants

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"huddle-backend/internal/constants"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/members"
	"huddle-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxSlugAttempts bounds the collision-suffix loop; the slug unique index is
// the real arbiter, the loop just walks candidates until an insert sticks.
const maxSlugAttempts = 50

// Service is the tenant registry.
type Service struct {
	DB      *gorm.DB
	Members *members.Service
}

type CreateInput struct {
	Name       string            `json:"name"`
	TenantType string            `json:"tenant_type"`
	Email      *string           `json:"email"`
	Phone      *string           `json:"phone"`
	TeamSize   string            `json:"team_size"`
	Settings   datatypes.JSONMap `json:"settings"`
}

// Create creates a workspace and its owner membership in one transaction.
// Slug collisions get an incrementing numeric suffix (acme, acme-2, acme-3…);
// concurrent creations with the same name are serialized by the unique index,
// so the loser's insert fails and it retries with the next suffix.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID uuid.UUID) (*domain.Tenant, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Workspace name is required")
	}
	if !constants.IsValidTenantType(in.TenantType) {
		return nil, errors.New("Invalid workspace type")
	}
	teamSize := in.TeamSize
	if teamSize == "" {
		teamSize = constants.TeamSizeSolo
	}
	if !constants.IsValidTeamSize(teamSize) {
		return nil, errors.New("Invalid team size")
	}
	if in.Email != nil && *in.Email != "" && !validation.IsValidEmail(*in.Email) {
		return nil, errors.New("Invalid email format")
	}

	base := Slugify(in.Name)

	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug := base
		if attempt > 1 {
			slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		tenant := &domain.Tenant{
			Name:       strings.TrimSpace(in.Name),
			TenantType: in.TenantType,
			Slug:       slug,
			OwnerID:    ownerID,
			Email:      in.Email,
			Phone:      in.Phone,
			TeamSize:   teamSize,
			Settings:   in.Settings,
			IsActive:   true,
		}

		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(tenant).Error; err != nil {
				return err
			}
			_, err := s.Members.AddMember(ctx, tx, tenant.TenantID, ownerID, constants.RoleOwner, nil)
			return err
		})
		if err == nil {
			return tenant, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}
	return nil, ErrSlugExhausted
}

// GetBySlug returns the workspace for a slug, or ErrTenantNotFound.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}

// TenantWithRole pairs a workspace with the requesting user's role in it.
type TenantWithRole struct {
	domain.Tenant
	MyRole string `json:"my_role"`
}

// ListForMember returns active workspaces where the user holds an active membership.
func (s *Service) ListForMember(ctx context.Context, userID uuid.UUID) ([]TenantWithRole, error) {
	var rows []TenantWithRole
	err := s.DB.WithContext(ctx).Model(&domain.Tenant{}).
		Select("tenants.*, tenant_members.role AS my_role").
		Joins("JOIN tenant_members ON tenant_members.tenant_id = tenants.tenant_id").
		Where("tenant_members.user_id = ? AND tenant_members.is_active = ? AND tenants.is_active = ?", userID, true, true).
		Order("tenants.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

// Update changes mutable workspace fields. Slug and owner are immutable;
// attempts to change them are dropped, not errors.
func (s *Service) Update(ctx context.Context, slug string, fields map[string]interface{}, actorID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, tenant.TenantID, actorID, constants.UpdateWorkspace); err != nil {
		return nil, err
	}

	allowed := map[string]bool{
		"name": true, "email": true, "phone": true, "team_size": true, "settings": true,
	}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			upd[k] = v
		}
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}
	if ts, ok := upd["team_size"].(string); ok && !constants.IsValidTeamSize(ts) {
		return nil, errors.New("Invalid team size")
	}
	if e, ok := upd["email"].(string); ok && e != "" && !validation.IsValidEmail(e) {
		return nil, errors.New("Invalid email format")
	}

	if err := s.DB.WithContext(ctx).Model(&domain.Tenant{}).
		Where("tenant_id = ?", tenant.TenantID).
		Updates(upd).Error; err != nil {
		return nil, err
	}
	return s.GetBySlug(ctx, slug)
}

// Deactivate soft-deletes a workspace (owner only). Rows are never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, slug string, actorID uuid.UUID) error {
	tenant, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.requirePermission(ctx, tenant.TenantID, actorID, constants.DeleteWorkspace); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&domain.Tenant{}).
		Where("tenant_id = ?", tenant.TenantID).
		Update("is_active", false).Error
}

// requirePermission resolves the actor's workspace role from the ledger and
// checks it against the permission table.
func (s *Service) requirePermission(ctx context.Context, tenantID, actorID uuid.UUID, permission string) error {
	m, err := s.Members.ActiveMember(ctx, tenantID, actorID)
	if errors.Is(err, members.ErrMemberNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	if !constants.AllowedRole(permission, m.Role) {
		return ErrForbidden
	}
	return nil
}
