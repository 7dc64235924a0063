package app

import (
	"net/http"

	"huddle-backend/internal/auth"
	"huddle-backend/internal/config"
	"huddle-backend/internal/database"
	"huddle-backend/internal/emails"
	"huddle-backend/internal/health"
	"huddle-backend/internal/invitations"
	"huddle-backend/internal/members"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/tenants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so callers (cmd/api) can
// ping them at startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	app.Use(middleware.RequestCounter(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &health.Handlers{DB: db, Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	// db/rdb may be nil when env is not configured (e.g. smoke tests); the
	// API modules are only mounted when both stores are available.
	if db != nil && rdb != nil {
		mailer := &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}

		membersService := &members.Service{DB: db}
		tenantsService := &tenants.Service{DB: db, Members: membersService}
		authService := &auth.Service{DB: db}
		tokens := &auth.TokenIssuer{Secret: cfg.JWTSecret, Rdb: rdb}
		invitationsService := &invitations.Service{
			DB:      db,
			Members: membersService,
			Tenants: tenantsService,
			Rdb:     rdb,
		}

		requireAuth := middleware.RequireAuth(cfg.JWTSecret)

		// Auth module
		authHandlers := &auth.Handlers{Service: authService, Tokens: tokens}
		authGroup := app.Group("/api/v1/auth")
		authGroup.Post("/register", authHandlers.Register)
		authGroup.Post("/login", authHandlers.Login)
		authGroup.Post("/refresh", authHandlers.Refresh)
		authGroup.Post("/logout", authHandlers.Logout)
		authGroup.Get("/me", requireAuth, authHandlers.Me)

		// Workspaces module (tenant registry + membership ledger views)
		tenantHandlers := &tenants.Handlers{Service: tenantsService, Members: membersService}
		wsGroup := app.Group("/api/v1/workspaces", requireAuth)
		wsGroup.Post("/", tenantHandlers.CreateWorkspace)
		wsGroup.Get("/", tenantHandlers.ListWorkspaces)
		wsGroup.Get("/:slug", tenantHandlers.ViewWorkspace)
		wsGroup.Patch("/:slug", tenantHandlers.UpdateWorkspace)
		wsGroup.Delete("/:slug", tenantHandlers.DeactivateWorkspace)
		wsGroup.Get("/:slug/members", tenantHandlers.ListMembers)
		wsGroup.Delete("/:slug/members/:user_id", tenantHandlers.RemoveMember)

		// Invitations module: public validate + authenticated lifecycle
		invitationHandlers := &invitations.Handlers{
			Service:       invitationsService,
			Mailer:        mailer,
			InviteBaseURL: cfg.InviteBaseURL,
		}
		app.Post("/api/v1/invitations/validate", invitationHandlers.ValidateToken)
		invGroup := app.Group("/api/v1/invitations", requireAuth)
		invGroup.Post("/accept", invitationHandlers.AcceptInvite)
		invGroup.Post("/reject", invitationHandlers.RejectInvite)
		wsGroup.Post("/:slug/invitations", invitationHandlers.CreateInvite)
		wsGroup.Get("/:slug/invitations", invitationHandlers.ListInvitations)
		wsGroup.Post("/:slug/invitations/revoke", invitationHandlers.RevokeInvite)
		wsGroup.Post("/:slug/invitations/resend", invitationHandlers.ResendInvite)
	}

	return app, db, rdb, nil
}

// Handler returns an http.Handler for serverless deployment (Fiber app as net/http handler).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
