package invitations

import (
	"context"
	"testing"
	"time"

	"huddle-backend/internal/constants"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/members"
	"huddle-backend/internal/tenants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInviteTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Tenant{}, &domain.TenantMember{}, &domain.TenantInvitation{},
	))

	membersService := &members.Service{DB: db}
	tenantsService := &tenants.Service{DB: db, Members: membersService}
	svc := &Service{DB: db, Members: membersService, Tenants: tenantsService}
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, fullName, email string) *domain.User {
	t.Helper()
	u := &domain.User{
		FullName:     fullName,
		Username:     email,
		Email:        email,
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createWorkspace(t *testing.T, svc *Service, name string, owner *domain.User) *domain.Tenant {
	t.Helper()
	tenant, err := svc.Tenants.Create(context.Background(), tenants.CreateInput{
		Name:       name,
		TenantType: constants.TenantTypeCompany,
	}, owner.UserID)
	require.NoError(t, err)
	return tenant
}

func TestCreateInvitation_Basic(t *testing.T) {
	svc, _ := setupInviteTest(t)
	alice := createUser(t, svc.DB, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, created, err := svc.Create(context.Background(), CreateInput{
		Slug:    tenant.Slug,
		ActorID: alice.UserID,
		Email:   "  Bob@X.com ",
		Role:    constants.RoleProfessional,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "bob@x.com", inv.Email)
	assert.Equal(t, constants.InviteStatusPending, inv.Status)
	assert.NotEqual(t, uuid.Nil, inv.Token)
	assert.Equal(t, alice.UserID, inv.InvitedBy)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)
}

func TestCreateInvitation_DefaultRole(t *testing.T) {
	svc, _ := setupInviteTest(t)
	alice := createUser(t, svc.DB, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug:    tenant.Slug,
		ActorID: alice.UserID,
		Email:   "bob@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleProfessional, inv.Role)
}

func TestCreateInvitation_OwnerRoleRejected(t *testing.T) {
	svc, _ := setupInviteTest(t)
	alice := createUser(t, svc.DB, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	_, _, err := svc.Create(context.Background(), CreateInput{
		Slug:    tenant.Slug,
		ActorID: alice.UserID,
		Email:   "bob@x.com",
		Role:    constants.RoleOwner,
	})
	require.Error(t, err)
}

func TestCreateInvitation_AlreadyPendingIdempotent(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	first, created, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "BOB@x.com",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.InviteID, second.InviteID)
	assert.Equal(t, first.Token, second.Token)

	var count int64
	db.Model(&domain.TenantInvitation{}).
		Where("tenant_id = ? AND email = ? AND status = ?", tenant.TenantID, "bob@x.com", constants.InviteStatusPending).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateInvitation_AlreadyMember(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	dave := createUser(t, db, "Dave Jones", "dave@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	_, err := svc.Members.AddMember(context.Background(), nil, tenant.TenantID, dave.UserID, constants.RoleProfessional, &alice.UserID)
	require.NoError(t, err)

	_, _, err = svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "dave@x.com",
	})
	assert.ErrorIs(t, err, ErrAlreadyMember)

	var count int64
	db.Model(&domain.TenantInvitation{}).Where("tenant_id = ?", tenant.TenantID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateInvitation_RequiresInvitePermission(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	pro := createUser(t, db, "Pat Doe", "pat@x.com")
	outsider := createUser(t, db, "Oz Out", "oz@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	_, err := svc.Members.AddMember(context.Background(), nil, tenant.TenantID, pro.UserID, constants.RoleProfessional, &alice.UserID)
	require.NoError(t, err)

	_, _, err = svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: pro.UserID, Email: "new@x.com",
	})
	assert.ErrorIs(t, err, ErrNoPermission)

	_, _, err = svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: outsider.UserID, Email: "new@x.com",
	})
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestCreateInvitation_InactiveTenant(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)
	require.NoError(t, db.Model(&domain.Tenant{}).Where("tenant_id = ?", tenant.TenantID).Update("is_active", false).Error)

	_, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	assert.ErrorIs(t, err, ErrTenantInactive)
}

func TestValidate(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	result, err := svc.Validate(context.Background(), inv.Token.String())
	require.NoError(t, err)
	assert.Equal(t, "Acme Clinic", result.TenantName)
	assert.Equal(t, "bob@x.com", result.Email)
	assert.Equal(t, constants.RoleProfessional, result.Role)

	// Wrong token, malformed token and expired invite are indistinguishable.
	_, err = svc.Validate(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.Model(&domain.TenantInvitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)
	_, err = svc.Validate(context.Background(), inv.Token.String())
	assert.ErrorIs(t, err, ErrNotFound)

	// Validation never mutates: the row is still pending.
	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusPending, reloaded.Status)
}

func TestAcceptInvitation_Scenario(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	carol := createUser(t, db, "Carol White", "carol@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com", Role: constants.RoleProfessional,
	})
	require.NoError(t, err)

	member, err := svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, tenant.TenantID, member.TenantID)
	assert.Equal(t, bob.UserID, member.UserID)
	assert.Equal(t, constants.RoleProfessional, member.Role)
	require.NotNil(t, member.InvitedBy)
	assert.Equal(t, alice.UserID, *member.InvitedBy)

	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusAccepted, reloaded.Status)
	require.NotNil(t, reloaded.AcceptedAt)

	// Second accept by bob: no new membership, benign failure.
	_, err = svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	// Carol on a terminal invitation also gets AlreadyProcessed, uniformly.
	_, err = svc.Accept(context.Background(), inv.Token.String(), carol.UserID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var count int64
	db.Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenant.TenantID, bob.UserID, true).
		Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAcceptInvitation_IdentityBinding(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	carol := createUser(t, db, "Carol White", "carol@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), inv.Token.String(), carol.UserID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Wrong-account attempt must not consume the invite.
	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.AcceptedAt)

	var count int64
	db.Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ?", tenant.TenantID, carol.UserID).
		Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAcceptInvitation_CaseInsensitiveEmailMatch(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "Bob@X.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	require.NoError(t, err)
}

func TestAcceptInvitation_Expired(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.TenantInvitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	assert.ErrorIs(t, err, ErrExpired)

	// The expiry transition is persisted even though the accept failed.
	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusExpired, reloaded.Status)

	// Expired is terminal: the retry is AlreadyProcessed, not Expired again.
	_, err = svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var count int64
	db.Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ?", tenant.TenantID, bob.UserID).
		Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAcceptInvitation_ExistingMemberIsNoOp(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	// Bob is admitted through another path while the invite is still open.
	_, err = svc.Members.AddMember(context.Background(), nil, tenant.TenantID, bob.UserID, constants.RoleAdmin, nil)
	require.NoError(t, err)

	member, err := svc.Accept(context.Background(), inv.Token.String(), bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, member.Role)

	var count int64
	db.Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenant.TenantID, bob.UserID, true).
		Count(&count)
	assert.EqualValues(t, 1, count)

	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusAccepted, reloaded.Status)
}

func TestAcceptInvitation_NotFound(t *testing.T) {
	svc, db := setupInviteTest(t)
	bob := createUser(t, db, "Bob Brown", "bob@x.com")

	_, err := svc.Accept(context.Background(), uuid.New().String(), bob.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Accept(context.Background(), "garbage", bob.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectInvitation(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), inv.Token.String(), bob.UserID))

	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusRejected, reloaded.Status)

	var count int64
	db.Model(&domain.TenantMember{}).
		Where("tenant_id = ? AND user_id = ?", tenant.TenantID, bob.UserID).
		Count(&count)
	assert.EqualValues(t, 0, count)

	err = svc.Reject(context.Background(), inv.Token.String(), bob.UserID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestRevokeInvitation(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	_, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	inv, err := svc.Revoke(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, constants.InviteStatusRejected, inv.Status)

	_, err = svc.Revoke(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListInvitations_SweepsExpired(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)
	_, _, err = svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "carol@x.com",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.TenantInvitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	all, err := svc.List(context.Background(), tenant.Slug, "", alice.UserID)
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending, err := svc.List(context.Background(), tenant.Slug, constants.InviteStatusPending, alice.UserID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "carol@x.com", pending[0].Email)

	expired, err := svc.List(context.Background(), tenant.Slug, constants.InviteStatusExpired, alice.UserID)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "bob@x.com", expired[0].Email)
}

func TestResendInvitation_Throttled(t *testing.T) {
	svc, db := setupInviteTest(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	svc.Rdb = rdb

	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	created, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	inv, err := svc.Resend(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	require.NoError(t, err)
	// Token and deadline are fixed at creation; resend never rotates them.
	assert.Equal(t, created.Token, inv.Token)
	assert.WithinDuration(t, created.ExpiresAt, inv.ExpiresAt, time.Second)

	_, err = svc.Resend(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	assert.ErrorIs(t, err, ErrResendThrottled)

	mr.FastForward(25 * time.Hour)
	_, err = svc.Resend(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	require.NoError(t, err)
}

// A raced duplicate create bypasses the service's pending pre-check and lands
// on the partial unique index. Inserting the duplicate row directly models the
// loser of that race: the index must reject it, and the rejection must surface
// as gorm.ErrDuplicatedKey — the signal Create re-fetches on.
func TestCreateInvitation_PendingIndexIsArbiter(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	first, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	dup := &domain.TenantInvitation{
		TenantID:  tenant.TenantID,
		Email:     "bob@x.com",
		Role:      constants.RoleProfessional,
		Status:    constants.InviteStatusPending,
		InvitedBy: alice.UserID,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	err = db.Create(dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	db.Model(&domain.TenantInvitation{}).
		Where("tenant_id = ? AND email = ? AND status = ?", tenant.TenantID, "bob@x.com", constants.InviteStatusPending).
		Count(&count)
	assert.EqualValues(t, 1, count)

	// The index only guards pending rows: once the first invitation goes
	// terminal, a fresh one for the same (tenant, email) is allowed.
	require.NoError(t, db.Model(&domain.TenantInvitation{}).
		Where("invite_id = ?", first.InviteID).
		Update("status", constants.InviteStatusRejected).Error)

	second, created, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.InviteID, second.InviteID)
}

// The invitation is accepted between Revoke's read and its conditional write
// (injected via an update callback). The write must affect zero rows and the
// accepted status must survive instead of a fabricated rejection.
func TestRevokeInvitation_LosesRaceToAccept(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)

	flipped := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("accept_wins", func(tx *gorm.DB) {
		if flipped {
			return
		}
		flipped = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE tenant_invitations SET status = ? WHERE invite_id = ?",
				constants.InviteStatusAccepted, inv.InviteID)
	}))
	t.Cleanup(func() {
		require.NoError(t, db.Callback().Update().Remove("accept_wins"))
	})

	_, err = svc.Revoke(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusAccepted, reloaded.Status)
}

func TestResendInvitation_Expired(t *testing.T) {
	svc, db := setupInviteTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	tenant := createWorkspace(t, svc, "Acme Clinic", alice)

	inv, _, err := svc.Create(context.Background(), CreateInput{
		Slug: tenant.Slug, ActorID: alice.UserID, Email: "bob@x.com",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.TenantInvitation{}).
		Where("invite_id = ?", inv.InviteID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Resend(context.Background(), tenant.Slug, "bob@x.com", alice.UserID)
	assert.ErrorIs(t, err, ErrExpired)

	var reloaded domain.TenantInvitation
	require.NoError(t, db.Where("invite_id = ?", inv.InviteID).First(&reloaded).Error)
	assert.Equal(t, constants.InviteStatusExpired, reloaded.Status)
}
