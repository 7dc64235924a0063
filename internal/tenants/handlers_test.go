package tenants

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"huddle-backend/internal/constants"
	"huddle-backend/internal/domain"
	"huddle-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspaceApp(h *Handlers, actor *domain.User) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if actor != nil {
			c.Locals("user", &middleware.AuthUser{UserID: actor.UserID, Email: actor.Email})
		}
		return c.Next()
	})
	ws := app.Group("/api/v1/workspaces")
	ws.Post("/", h.CreateWorkspace)
	ws.Get("/", h.ListWorkspaces)
	ws.Get("/:slug", h.ViewWorkspace)
	ws.Patch("/:slug", h.UpdateWorkspace)
	ws.Delete("/:slug", h.DeactivateWorkspace)
	ws.Get("/:slug/members", h.ListMembers)
	ws.Delete("/:slug/members/:user_id", h.RemoveMember)
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestCreateWorkspaceRoute(t *testing.T) {
	svc, db := setupTenantTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	h := &Handlers{Service: svc, Members: svc.Members}
	app := newWorkspaceApp(h, alice)

	resp, body := request(t, app, http.MethodPost, "/api/v1/workspaces/", fiber.Map{
		"name":        "Acme Clinic",
		"tenant_type": constants.TenantTypeDoctor,
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "acme-clinic", data["slug"])

	resp, _ = request(t, app, http.MethodPost, "/api/v1/workspaces/", fiber.Map{
		"name": "Acme Clinic", "tenant_type": "hospital",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestViewWorkspaceRoute_MembersOnly(t *testing.T) {
	svc, db := setupTenantTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	outsider := createUser(t, db, "Oz Out", "oz@x.com")
	_, err := svc.Create(context.Background(), CreateInput{Name: "Acme", TenantType: constants.TenantTypeCompany}, alice.UserID)
	require.NoError(t, err)
	h := &Handlers{Service: svc, Members: svc.Members}

	resp, body := request(t, newWorkspaceApp(h, alice), http.MethodGet, "/api/v1/workspaces/acme", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, constants.RoleOwner, data["my_role"])

	resp, _ = request(t, newWorkspaceApp(h, outsider), http.MethodGet, "/api/v1/workspaces/acme", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = request(t, newWorkspaceApp(h, alice), http.MethodGet, "/api/v1/workspaces/ghost", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRemoveMemberRoute(t *testing.T) {
	svc, db := setupTenantTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	tenant, err := svc.Create(context.Background(), CreateInput{Name: "Acme", TenantType: constants.TenantTypeCompany}, alice.UserID)
	require.NoError(t, err)
	_, err = svc.Members.AddMember(context.Background(), nil, tenant.TenantID, bob.UserID, constants.RoleProfessional, &alice.UserID)
	require.NoError(t, err)
	h := &Handlers{Service: svc, Members: svc.Members}

	// The owner cannot be removed, even by themselves.
	resp, _ := request(t, newWorkspaceApp(h, alice), http.MethodDelete,
		"/api/v1/workspaces/acme/members/"+alice.UserID.String(), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Professionals cannot remove members.
	resp, _ = request(t, newWorkspaceApp(h, bob), http.MethodDelete,
		"/api/v1/workspaces/acme/members/"+alice.UserID.String(), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = request(t, newWorkspaceApp(h, alice), http.MethodDelete,
		"/api/v1/workspaces/acme/members/"+bob.UserID.String(), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	ok, err := svc.Members.HasActiveMember(context.Background(), tenant.TenantID, bob.UserID)
	require.NoError(t, err)
	assert.False(t, ok)

	resp, _ = request(t, newWorkspaceApp(h, alice), http.MethodDelete,
		"/api/v1/workspaces/acme/members/"+bob.UserID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListMembersRoute(t *testing.T) {
	svc, db := setupTenantTest(t)
	alice := createUser(t, db, "Alice Smith", "alice@x.com")
	bob := createUser(t, db, "Bob Brown", "bob@x.com")
	tenant, err := svc.Create(context.Background(), CreateInput{Name: "Acme", TenantType: constants.TenantTypeCompany}, alice.UserID)
	require.NoError(t, err)
	_, err = svc.Members.AddMember(context.Background(), nil, tenant.TenantID, bob.UserID, constants.RoleProfessional, &alice.UserID)
	require.NoError(t, err)
	h := &Handlers{Service: svc, Members: svc.Members}

	resp, body := request(t, newWorkspaceApp(h, bob), http.MethodGet, "/api/v1/workspaces/acme/members", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]interface{}), 2)
}
