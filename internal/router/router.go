package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/config"
	"github.com/artmorais77/backend-orise/internal/handler"
	"github.com/artmorais77/backend-orise/internal/infra"
	"github.com/artmorais77/backend-orise/internal/middleware"
	"github.com/artmorais77/backend-orise/internal/repository"
	"github.com/artmorais77/backend-orise/internal/service"
	"github.com/artmorais77/backend-orise/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	productRepo := repository.NewProductRepository(db)
	registerRepo := repository.NewRegisterRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, sequenceRepo)
	registerSvc := service.NewRegisterService(registerRepo, movementRepo, sequenceRepo)
	saleSvc := service.NewSaleService(saleRepo, registerRepo, movementRepo, productRepo, sequenceRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	registersH := handler.NewRegisterHandler(registerSvc)
	salesH := handler.NewSaleHandler(saleSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))
	r.POST("/v1/users", authH.Register)
	r.POST("/v1/session", middleware.LoginRateLimiter(), authH.Login)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Show)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
		}

		registers := v1.Group("/cash-registers")
		{
			registers.POST("/open", registersH.Open)
			registers.POST("/:id/close", registersH.Close)
			registers.GET("/current", registersH.Current)
			registers.POST("/movements", registersH.AddMovement)
			registers.GET("", registersH.List)
			registers.GET("/:id", registersH.Show)
		}

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Show)
			sales.PUT("/:id", salesH.Amend)
			sales.POST("/:id/cancel", salesH.Cancel)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
