package invitations

import (
	"context"
	"errors"
	"time"

	"huddle-backend/internal/constants"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/members"
	"huddle-backend/internal/pkg/validation"
	"huddle-backend/internal/tenants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const inviteTTL = 7 * 24 * time.Hour

// Service is the invitation engine: it owns the TenantInvitation lifecycle
// and is the only writer of invitation rows. Membership rows created on
// acceptance go through the ledger inside the engine's transaction.
type Service struct {
	DB      *gorm.DB
	Members *members.Service
	Tenants *tenants.Service
	Rdb     *redis.Client
}

// lockForUpdate adds a row lock for the accept/reject read-modify-write.
// Postgres only: sqlite has a single writer per database, so concurrent
// accepts are already serialized there and the clause is a syntax error.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

type CreateInput struct {
	Slug    string
	ActorID uuid.UUID
	Email   string
	Role    string
}

// Create issues an invitation for (tenant, email). Returns created=false when
// a pending invitation already existed; that path is race-safe because the
// partial unique index rejects the loser of a concurrent duplicate insert,
// which is then re-read and returned idempotently. invited_by is always the
// authenticated actor, never anything from the request body.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.TenantInvitation, bool, error) {
	role := in.Role
	if role == "" {
		role = constants.RoleProfessional
	}
	if !constants.IsInvitableRole(role) {
		return nil, false, errors.New("Invalid invitation role")
	}
	email := validation.NormalizeEmail(in.Email)
	if !validation.IsValidEmail(email) {
		return nil, false, errors.New("Invalid email format")
	}

	tenant, err := s.Tenants.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, false, err
	}
	if !tenant.IsActive {
		return nil, false, ErrTenantInactive
	}
	if err := s.requirePermission(ctx, tenant.TenantID, in.ActorID, constants.InviteUser); err != nil {
		return nil, false, err
	}

	// An email that already belongs to an active member gets no invitation.
	var invitee domain.User
	err = s.DB.WithContext(ctx).Where("email = ?", email).First(&invitee).Error
	if err == nil {
		isMember, err := s.Members.HasActiveMember(ctx, tenant.TenantID, invitee.UserID)
		if err != nil {
			return nil, false, err
		}
		if isMember {
			return nil, false, ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if pending, err := s.pendingFor(ctx, tenant.TenantID, email); err == nil {
		return pending, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	inv := &domain.TenantInvitation{
		TenantID:  tenant.TenantID,
		Email:     email,
		Role:      role,
		Status:    constants.InviteStatusPending,
		InvitedBy: in.ActorID,
		ExpiresAt: time.Now().Add(inviteTTL),
	}
	if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent create for the same (tenant, email).
			if pending, ferr := s.pendingFor(ctx, tenant.TenantID, email); ferr == nil {
				return pending, false, nil
			}
			return nil, false, err
		}
		return nil, false, err
	}
	return inv, true, nil
}

func (s *Service) pendingFor(ctx context.Context, tenantID uuid.UUID, email string) (*domain.TenantInvitation, error) {
	var inv domain.TenantInvitation
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND email = ? AND status = ?", tenantID, email, constants.InviteStatusPending).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ValidateResult is the public preview of a pending invitation.
type ValidateResult struct {
	TenantName string `json:"tenant_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// Validate is the public, unauthenticated token preview. Wrong token, expired
// and already-processed all return the same ErrNotFound so callers cannot
// probe which tokens exist. Never mutates state.
func (s *Service) Validate(ctx context.Context, token string) (*ValidateResult, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, ErrNotFound
	}

	var inv domain.TenantInvitation
	err = s.DB.WithContext(ctx).
		Where("token = ? AND status = ?", tok, constants.InviteStatusPending).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inv.IsExpired() {
		return nil, ErrNotFound
	}

	var tenant domain.Tenant
	if err := s.DB.WithContext(ctx).Where("tenant_id = ?", inv.TenantID).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &ValidateResult{TenantName: tenant.Name, Email: inv.Email, Role: inv.Role}, nil
}

// Accept converts a pending invitation into a membership. The whole flow runs
// in one transaction with the invitation row locked, so of two concurrent
// accepts for the same token one wins and the other observes a non-pending
// status and fails with ErrAlreadyProcessed. An email mismatch leaves the
// invitation untouched so the legitimate holder can still accept it.
func (s *Service) Accept(ctx context.Context, token string, actorID uuid.UUID) (*domain.TenantMember, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return nil, ErrNotFound
	}

	var member *domain.TenantMember
	var expired bool

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv domain.TenantInvitation
		if err := lockForUpdate(tx).Where("token = ?", tok).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Lazy expiry: the first touch after the deadline flips the status.
		// Committed even though the accept fails, hence the flag instead of
		// an error return (an error would roll the transition back).
		if inv.Status == constants.InviteStatusPending && inv.IsExpired() {
			expired = true
			return tx.Model(&domain.TenantInvitation{}).
				Where("invite_id = ?", inv.InviteID).
				Update("status", constants.InviteStatusExpired).Error
		}

		if inv.Status != constants.InviteStatusPending {
			return ErrAlreadyProcessed
		}

		var user domain.User
		if err := tx.Where("user_id = ?", actorID).First(&user).Error; err != nil {
			return err
		}
		if validation.NormalizeEmail(user.Email) != inv.Email {
			return ErrForbidden
		}

		// Idempotency pre-check runs on the transaction handle so it sees
		// rows written earlier in this same transaction.
		var existing domain.TenantMember
		err := tx.Where("tenant_id = ? AND user_id = ? AND is_active = ?", inv.TenantID, actorID, true).
			First(&existing).Error
		switch {
		case err == nil:
			// Already a member: acceptance is a no-op on the ledger.
			member = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			created, err := s.Members.AddMember(ctx, tx, inv.TenantID, actorID, inv.Role, &inv.InvitedBy)
			if err != nil {
				return err
			}
			member = created
		default:
			return err
		}

		now := time.Now()
		return tx.Model(&domain.TenantInvitation{}).
			Where("invite_id = ?", inv.InviteID).
			Updates(map[string]interface{}{
				"status":      constants.InviteStatusAccepted,
				"accepted_at": now,
			}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, members.ErrMemberExists) {
			// Ledger backstop fired: a concurrent flow admitted the user
			// through another invitation. Benign, the caller may retry.
			return nil, ErrAlreadyMember
		}
		return nil, txErr
	}
	if expired {
		return nil, ErrExpired
	}
	return member, nil
}

// Reject is the invitee-side decline: same guards as Accept, no membership,
// status flips to rejected.
func (s *Service) Reject(ctx context.Context, token string, actorID uuid.UUID) error {
	tok, err := uuid.Parse(token)
	if err != nil {
		return ErrNotFound
	}

	var expired bool
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv domain.TenantInvitation
		if err := lockForUpdate(tx).Where("token = ?", tok).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if inv.Status == constants.InviteStatusPending && inv.IsExpired() {
			expired = true
			return tx.Model(&domain.TenantInvitation{}).
				Where("invite_id = ?", inv.InviteID).
				Update("status", constants.InviteStatusExpired).Error
		}
		if inv.Status != constants.InviteStatusPending {
			return ErrAlreadyProcessed
		}

		var user domain.User
		if err := tx.Where("user_id = ?", actorID).First(&user).Error; err != nil {
			return err
		}
		if validation.NormalizeEmail(user.Email) != inv.Email {
			return ErrForbidden
		}

		return tx.Model(&domain.TenantInvitation{}).
			Where("invite_id = ?", inv.InviteID).
			Update("status", constants.InviteStatusRejected).Error
	})
	if txErr != nil {
		return txErr
	}
	if expired {
		return ErrExpired
	}
	return nil
}

// Revoke is the inviter-side cancel of a pending invitation.
func (s *Service) Revoke(ctx context.Context, slug, email string, actorID uuid.UUID) (*domain.TenantInvitation, error) {
	tenant, err := s.Tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, tenant.TenantID, actorID, constants.RevokeInvite); err != nil {
		return nil, err
	}

	inv, err := s.pendingFor(ctx, tenant.TenantID, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Conditional update so a concurrent Accept between the fetch and this
	// write cannot be overwritten; zero rows means the invitation went
	// terminal under us.
	result := s.DB.WithContext(ctx).Model(&domain.TenantInvitation{}).
		Where("invite_id = ? AND status = ?", inv.InviteID, constants.InviteStatusPending).
		Update("status", constants.InviteStatusRejected)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyProcessed
	}
	inv.Status = constants.InviteStatusRejected
	return inv, nil
}

// List returns the tenant's invitations, newest first, optionally filtered by
// status. Pending rows past their deadline are swept to expired first; the
// sweep is a freshness aid for the UI, correctness never depends on it
// because Accept and Validate check expiry themselves.
func (s *Service) List(ctx context.Context, slug, status string, actorID uuid.UUID) ([]domain.TenantInvitation, error) {
	tenant, err := s.Tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, tenant.TenantID, actorID, constants.ViewInvites); err != nil {
		return nil, err
	}

	if err := s.SweepExpired(ctx, tenant.TenantID); err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Where("tenant_id = ?", tenant.TenantID)
	if status != "" {
		if !constants.IsValidInviteStatus(status) {
			return nil, errors.New("Invalid status filter")
		}
		q = q.Where("status = ?", status)
	}
	var invitations []domain.TenantInvitation
	if err := q.Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// SweepExpired transitions the tenant's overdue pending invitations to
// expired in one statement.
func (s *Service) SweepExpired(ctx context.Context, tenantID uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&domain.TenantInvitation{}).
		Where("tenant_id = ? AND status = ? AND expires_at < ?", tenantID, constants.InviteStatusPending, time.Now()).
		Update("status", constants.InviteStatusExpired).Error
}

// Resend re-issues the invite email for a pending, unexpired invitation.
// Token and expiry are fixed at creation, so resending never extends the
// deadline or rotates the secret; a Redis key throttles to one send per day.
func (s *Service) Resend(ctx context.Context, slug, email string, actorID uuid.UUID) (*domain.TenantInvitation, error) {
	tenant, err := s.Tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, tenant.TenantID, actorID, constants.InviteUser); err != nil {
		return nil, err
	}

	inv, err := s.pendingFor(ctx, tenant.TenantID, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if inv.IsExpired() {
		if err := s.SweepExpired(ctx, tenant.TenantID); err != nil {
			return nil, err
		}
		return nil, ErrExpired
	}

	if s.Rdb != nil {
		ok, err := s.Rdb.SetNX(ctx, "invite:resend:"+inv.InviteID.String(), 1, 24*time.Hour).Result()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrResendThrottled
		}
	}
	return inv, nil
}

func (s *Service) requirePermission(ctx context.Context, tenantID, actorID uuid.UUID, permission string) error {
	m, err := s.Members.ActiveMember(ctx, tenantID, actorID)
	if errors.Is(err, members.ErrMemberNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	if !constants.AllowedRole(permission, m.Role) {
		return ErrNoPermission
	}
	return nil
}
