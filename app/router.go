// Package app assembles the HTTP API
package app

import (
	"fmt"
	"time"

	"flowmind/core-api/app/admin"
	"flowmind/core-api/app/auth"
	"flowmind/core-api/app/root"
	"flowmind/core-api/app/workflow"
	"flowmind/core-api/config"
	"flowmind/core-api/db"
	"flowmind/core-api/internal"
	"flowmind/core-api/internal/service"
	"flowmind/core-api/pkg/middleware"
	"flowmind/core-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

// NewRouter wires the whole application together: logger, database,
// dependencies, routes and background jobs.
func NewRouter(cfg *config.Config) (*gin.Engine, error) {
	makeLogger(cfg.LogLevel)

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d := &internal.Deps{
		DB:           database,
		Config:       cfg,
		Argon:        security.New(),
		Tokens:       security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Verification: service.NewVerification(database, cfg),
		Mailer:       service.NewMailer(cfg),
	}

	router := NewEngine(d)

	// Expired codes only block a resend, so a daily sweep is plenty
	service.CodeCleanup(time.Hour*24, database)

	return router, nil
}

// NewEngine builds the gin engine from already-constructed
// dependencies. Split from NewRouter so tests can run against an
// in-memory database.
func NewEngine(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     d.Config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					if id, ok := v.(uint); ok {
						fields = append(fields, zap.Uint("user_id", id))
					}
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	bearer := middleware.NewAuthMiddleware(d.DB, d.Tokens)

	// GET /health			-> Used to check if the server is alive
	router.GET("/health", root.Health)

	// GET /info			-> Basic info about the running app
	router.GET("/info", cacheFor(60), root.Info(d.Config.Env))

	a := router.Group("/api/auth")
	{
		// POST /api/auth/register	-> Registers a new account and mails a verification code
		a.POST("/register", func(c *gin.Context) { auth.Register(c, d) })

		// POST /api/auth/verify-email	-> Redeems a verification code
		a.POST("/verify-email", func(c *gin.Context) { auth.Verify(c, d) })

		// POST /api/auth/resend-code	-> Reissues the verification code
		a.POST("/resend-code", func(c *gin.Context) { auth.ResendCode(c, d) })

		// POST /api/auth/login		-> Checks credentials and returns a bearer token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// GET /api/auth/me		-> Returns the authenticated principal
		a.GET("/me", bearer, func(c *gin.Context) { auth.Me(c, d) })
	}

	w := router.Group("/api/workflows", bearer)
	{
		// POST /api/workflows		-> Stores a new workflow graph
		w.POST("", func(c *gin.Context) { workflow.Create(c, d) })

		// GET /api/workflows		-> Lists the caller's active workflows
		w.GET("", func(c *gin.Context) { workflow.List(c, d) })

		// GET /api/workflows/:id	-> Returns a workflow by ID if the caller owns it
		w.GET("/:id", func(c *gin.Context) { workflow.Fetch(c, d) })

		// PUT /api/workflows/:id	-> Partially updates a workflow
		w.PUT("/:id", func(c *gin.Context) { workflow.Update(c, d) })

		// DELETE /api/workflows/:id	-> Deletes a workflow owned by the caller
		w.DELETE("/:id", func(c *gin.Context) { workflow.Delete(c, d) })
	}

	adm := router.Group("/api/admin")
	{
		// GET /api/admin/users		-> Lists all accounts
		adm.GET("/users", func(c *gin.Context) { admin.ListUsers(c, d) })

		// GET /api/admin/workflows	-> Lists all workflows, optionally by owner
		adm.GET("/workflows", func(c *gin.Context) { admin.ListWorkflows(c, d) })

		// GET /api/admin/workflows/:id	-> Returns any workflow by ID
		adm.GET("/workflows/:id", func(c *gin.Context) { admin.FetchWorkflow(c, d) })
	}

	return router
}

func makeLogger(level string) {
	cfg := zap.NewDevelopmentConfig()

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
