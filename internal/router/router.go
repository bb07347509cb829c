package router

import (
	"context"
	"time"

	"evidencias/internal/config"
	"evidencias/internal/handler"
	"evidencias/internal/metrics"
	"evidencias/internal/middleware"
	"evidencias/internal/model"
	"evidencias/internal/rate"
	"evidencias/internal/repository"
	"evidencias/internal/service"
	"evidencias/internal/token"
	"evidencias/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// rdb and m may be nil. ctx bounds the background goroutines the router
// starts (in-memory rate-limit purging).
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, m *metrics.Metrics) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := token.NewService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.NoRoute(middleware.NotFound())

	// ── Rate limiting ────────────────────────────────────────────────────────
	loginLimiter := newLimiter(ctx, rdb, "rl:login:", cfg.LoginRateLimit)
	apiLimiter := newLimiter(ctx, rdb, "rl:api:", cfg.APIRateLimit)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	expedienteRepo := repository.NewExpedienteRepository(db)
	indicioRepo := repository.NewIndicioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Notifications need both the queue and a mail relay to deliver to.
	var notificador service.Notificador
	if rdb != nil && cfg.SMTPHost != "" {
		notificador = worker.NewDispatcher(rdb)
	}

	authSvc := service.NewAuthService(usuarioRepo, tokens, m)
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	expedienteSvc := service.NewExpedienteService(expedienteRepo, usuarioRepo, notificador, m)
	indicioSvc := service.NewIndicioService(indicioRepo, expedienteRepo, usuarioRepo)
	reporteSvc := service.NewReporteService(expedienteRepo, indicioRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	expedientesH := handler.NewExpedientesHandler(expedienteSvc)
	indiciosH := handler.NewIndiciosHandler(indicioSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.GET("/health", handler.Health())
	api.GET("/health/db", handler.Readiness(db, rdb))

	auth := api.Group("/auth")
	{
		auth.POST("/login",
			middleware.RateLimit(loginLimiter, "login", "Demasiados intentos de login. Intente en 1 minuto.", m),
			authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	// Protected routes
	protected := api.Group("",
		middleware.RateLimit(apiLimiter, "api", "Demasiadas solicitudes. Intente nuevamente en un momento.", m),
		middleware.Authenticate(tokens),
	)

	ambosRoles := middleware.RequireRole(model.RolTecnico, model.RolCoordinador)
	soloCoordinador := middleware.RequireRole(model.RolCoordinador)

	usuarios := protected.Group("/usuarios", soloCoordinador)
	{
		usuarios.GET("", usuariosH.Listar)
		usuarios.POST("", usuariosH.Crear)
		usuarios.GET("/:username", usuariosH.Obtener)
		usuarios.PUT("/:username", usuariosH.Actualizar)
		usuarios.PUT("/activardesactivar/:username", usuariosH.CambiarActivo)
	}

	expedientes := protected.Group("/expedientes", ambosRoles)
	{
		expedientes.GET("", expedientesH.Listar)
		expedientes.POST("", expedientesH.Crear)
		expedientes.GET("/:id", expedientesH.Obtener)
		// Changing estado additionally requires coordinador; enforced per request.
		expedientes.PUT("/:id", expedientesH.Actualizar)
		expedientes.PUT("/activardesactivar/:id", expedientesH.CambiarActivo)
	}

	indicios := protected.Group("/indicios", ambosRoles)
	{
		indicios.GET("", indiciosH.Listar)
		indicios.POST("", indiciosH.Crear)
		indicios.GET("/expediente/:expediente_id", indiciosH.ListarPorExpediente)
		indicios.GET("/:id", indiciosH.Obtener)
		indicios.PUT("/:id", indiciosH.Actualizar)
		indicios.PUT("/activardesactivar/:id", indiciosH.CambiarActivo)
	}

	reportes := protected.Group("/reportes")
	{
		reportes.GET("/aprobaciones", soloCoordinador, reportesH.Aprobaciones)
		reportes.GET("/indicios", ambosRoles, reportesH.Indicios)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		api.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}

// newLimiter shares windows across instances through Redis when available
// and falls back to a per-process table otherwise.
func newLimiter(ctx context.Context, rdb *redis.Client, prefix string, perMinute int) rate.Limiter {
	if rdb != nil {
		return rate.NewRedisLimiter(rdb, prefix, perMinute, time.Minute)
	}
	l := rate.NewMemoryLimiter(perMinute, time.Minute)
	go l.RunPurge(ctx, 5*time.Minute)
	return l
}
