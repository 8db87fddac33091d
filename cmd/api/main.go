package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/sibci-api/docs"
	"github.com/jhoicas/sibci-api/internal/application/asset"
	"github.com/jhoicas/sibci-api/internal/application/auth"
	"github.com/jhoicas/sibci-api/internal/application/ticket"
	"github.com/jhoicas/sibci-api/internal/application/usecase"
	"github.com/jhoicas/sibci-api/internal/infrastructure/captcha"
	"github.com/jhoicas/sibci-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/sibci-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sibci-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sibci-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sibci-api/internal/interfaces/http"
	"github.com/jhoicas/sibci-api/pkg/config"
	"github.com/jhoicas/sibci-api/pkg/logger"
)

const orgName = "SIBCI - Sistema Bolivariano de Comunicación e Información"

// @title                       SIBCI API
// @version                     1.0
// @description                 Inventario de bienes y reportes de fallas de SIBCI.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	deptRepo := postgres.NewDepartmentRepository(pool)
	assetRepo := postgres.NewAssetRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	userUC := usecase.NewUserUseCase(userRepo, txRunner)
	created, err := userUC.EnsureSuperadmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword, cfg.Seed.AdminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("crear superadmin inicial")
	}
	if created {
		log.Warn().
			Str("username", cfg.Seed.AdminUsername).
			Msg("superadmin inicial creado con las credenciales de SEED_ADMIN_*; cambie la contraseña")
	}

	recaptcha := captcha.NewRecaptcha(cfg.Captcha.SecretKey, cfg.Captcha.VerifyURL)
	if cfg.Captcha.SecretKey == "" {
		log.Warn().Msg("RECAPTCHA_SECRET_KEY no definido: verificación de captcha deshabilitada")
	}
	authUC := auth.NewAuthUseCase(userRepo, recaptcha, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.RegistrationEnabled)

	docs, err := storage.NewLocalStore(cfg.Storage.UploadDir, int64(cfg.Storage.MaxUploadM)<<20)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.UploadDir).Msg("directorio de documentos")
	}

	mailer := mail.NewMailer(cfg.SMTP, "SIBCI Soporte")
	if !mailer.Enabled() {
		log.Warn().Msg("EMAIL_USER/EMAIL_PASS/ADMIN_EMAIL incompletos: los reportes no se notificarán")
	}

	assetWF := asset.NewWorkflow(assetRepo, deptRepo, docs)
	reportWF := ticket.NewWorkflow(reportRepo, deptRepo, mailer, infrapdf.NewReportGenerator(orgName), mailer.Timeout())
	mailDiag := ticket.NewMailDiagnostics(mailer, mail.EnvInfo(cfg.SMTP), mailer.Timeout())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Storage.MaxUploadM + 1) << 20,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SIBCI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UserUC:       userUC,
		DepartmentUC: usecase.NewDepartmentUseCase(deptRepo),
		Assets:       assetWF,
		Reports:      reportWF,
		Mail:         mailDiag,
		CORSOrigins:  cfg.HTTP.CORSOrigins,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
