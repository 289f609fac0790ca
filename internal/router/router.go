package router

import (
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/config"
	"github.com/Fraancoboss/WTRACKER/internal/handler"
	"github.com/Fraancoboss/WTRACKER/internal/middleware"
	"github.com/Fraancoboss/WTRACKER/internal/repository"
	"github.com/Fraancoboss/WTRACKER/internal/service"
	"github.com/Fraancoboss/WTRACKER/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOriginList()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	resumenSvc := service.NewResumenService(pedidoRepo, rdb)
	pedidoSvc := service.NewPedidoService(pedidoRepo, auditoriaRepo, resumenSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc, resumenSvc, cfg.PDFStoragePath)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(authSvc)
	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/me", authH.Me)
		api.POST("/auth/change-password", authH.ChangePassword)

		pedidos := api.Group("/pedidos")
		{
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/resumen", pedidosH.Resumen)
			pedidos.GET("/:id", pedidosH.Obtener)
			pedidos.GET("/:id/pdf", pedidosH.DescargarPDF)
			pedidos.POST("", middleware.Require("pedidos:crear"), pedidosH.Crear)
			pedidos.PUT("/:id", middleware.Require("pedidos:actualizar"), pedidosH.Actualizar)
			pedidos.DELETE("/:id", middleware.Require("pedidos:eliminar"), pedidosH.Eliminar)
		}

		usuarios := api.Group("/usuarios", middleware.Require("usuarios:administrar"))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		api.GET("/auditoria", middleware.Require("auditoria:leer"), auditoriaH.Listar)
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
