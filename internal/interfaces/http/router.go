package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/sibci-api/internal/application/asset"
	"github.com/jhoicas/sibci-api/internal/application/auth"
	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ticket"
	"github.com/jhoicas/sibci-api/internal/application/usecase"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	DepartmentUC *usecase.DepartmentUseCase
	Assets       *asset.Workflow
	Reports      *ticket.Workflow
	Mail         *ticket.MailDiagnostics

	CORSOrigins string
	// LoginPerMinute intentos de login por IP; 0 usa 20.
	LoginPerMinute int
}

// Router registra middlewares globales y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(requestid.New())
	app.Use(RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", loginLimiter(deps.LoginPerMinute), authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Get("/verify", AuthMiddleware(deps.AuthUC), authHandler.Verify)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.AuthUC))

	assetHandler := NewAssetHandler(deps.Assets)
	assets := protected.Group("/assets")
	assets.Get("/", RequireAction(policy.AssetList), assetHandler.List)
	assets.Post("/", RequireAction(policy.AssetCreate), assetHandler.Create)
	assets.Get("/:id", RequireAction(policy.AssetRead), assetHandler.Get)
	assets.Put("/:id", RequireAction(policy.AssetUpdate), assetHandler.Update)
	assets.Delete("/:id", RequireAction(policy.AssetDelete), assetHandler.Delete)
	assets.Put("/:id/approve", RequireAction(policy.AssetApprove), assetHandler.Approve)
	assets.Post("/:id/upload", RequireAction(policy.AssetAttach), assetHandler.Upload)
	assets.Get("/:id/document", RequireAction(policy.AssetRead), assetHandler.Document)

	reportHandler := NewReportHandler(deps.Reports)
	reports := protected.Group("/reports")
	reports.Get("/", RequireAction(policy.ReportList), reportHandler.List)
	reports.Post("/", RequireAction(policy.ReportCreate), reportHandler.Create)
	reports.Get("/:id", RequireAction(policy.ReportRead), reportHandler.Get)
	reports.Put("/:id", RequireAction(policy.ReportUpdate), reportHandler.Update)
	reports.Delete("/:id", RequireAction(policy.ReportDelete), reportHandler.Delete)
	reports.Put("/:id/toggle", RequireAction(policy.ReportUpdate), reportHandler.Toggle)
	reports.Get("/:id/pdf", RequireAction(policy.ReportRead), reportHandler.PDF)

	deptHandler := NewDepartmentHandler(deps.DepartmentUC)
	depts := protected.Group("/departments")
	depts.Get("/", RequireAction(policy.DepartmentList), deptHandler.List)
	depts.Post("/", RequireAction(policy.DepartmentUpsert), deptHandler.Upsert)
	depts.Delete("/:name", RequireAction(policy.DepartmentDelete), deptHandler.Delete)

	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", RequireAction(policy.UserList), userHandler.List)
	users.Post("/", RequireAction(policy.UserCreate), userHandler.Create)
	users.Delete("/:id", RequireAction(policy.UserDelete), userHandler.Delete)

	mailHandler := NewMailHandler(deps.Mail)
	protected.Get("/mail/test", RequireAction(policy.MailDiagnose), mailHandler.Test)
}

func loginLimiter(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		perMinute = 20
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiados intentos de inicio de sesión, intente en un minuto",
			})
		},
	})
}

func corsOrigins(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "*"
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
