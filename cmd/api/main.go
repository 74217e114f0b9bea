package main

import (
	"log"

	"travelagency/internal/config"
	"travelagency/internal/database"
	"travelagency/internal/ledger"
	"travelagency/internal/middleware"
	"travelagency/internal/modules/agent"
	"travelagency/internal/modules/audit"
	"travelagency/internal/modules/auth"
	"travelagency/internal/modules/booking"
	"travelagency/internal/modules/dashboard"
	"travelagency/internal/modules/document"
	"travelagency/internal/modules/hub"
	"travelagency/internal/modules/promotion"
	"travelagency/internal/pkg/jwt"
	"travelagency/internal/pkg/metrics"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	repo := repository.NewCollectionRepository(db)
	if err := repo.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	bus := hub.NewBus()
	l := ledger.New(repo, bus)

	jwtSvc := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	auditSvc := audit.NewService(l)
	bookingSvc := booking.NewService(l, auditSvc)
	dashboardSvc := dashboard.NewService(l)
	promotionSvc := promotion.NewService(l, auditSvc)
	documentSvc := document.NewService(l, auditSvc)
	agentSvc := agent.NewService(l, auditSvc)
	authSvc := auth.NewService(l, auditSvc, jwtSvc, auth.AdminCredentials{
		Email:       cfg.AdminEmail,
		Password:    cfg.AdminPassword,
		StaffEmails: cfg.StaffEmails,
	})

	wsHub := hub.New(cfg.PublicOrigin, bookingSvc)
	bus.Subscribe(wsHub.OnCollectionChanged)
	bus.Subscribe(dashboardSvc.OnCollectionChanged)
	bus.Subscribe(func(collection string) {
		metrics.CollectionWrites.WithLabelValues(collection).Inc()
	})

	requireAuth := middleware.Auth(middleware.TokenValidatorFunc(func(tokenStr string) (string, string, error) {
		claims, err := jwtSvc.ValidateToken(tokenStr)
		if err != nil {
			return "", "", err
		}
		return claims.Email, claims.Role, nil
	}))

	r := gin.New()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authHandler := auth.NewHandler(authSvc)
	bookingHandler := booking.NewHandler(bookingSvc)

	authHandler.RegisterPublicRoutes(api)
	bookingHandler.RegisterPublicRoutes(api)
	api.GET("/ws", wsHub.ServeWS)

	customer := api.Group("", requireAuth)
	authHandler.RegisterCustomerRoutes(customer)

	admin := api.Group("/admin", requireAuth, middleware.AdminOnly(), audit.ActorMiddleware())
	bookingHandler.RegisterAdminRoutes(admin)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(admin)
	audit.NewHandler(auditSvc).RegisterRoutes(admin)
	promotion.NewHandler(promotionSvc).RegisterRoutes(admin)
	document.NewHandler(documentSvc).RegisterRoutes(admin)
	agent.NewHandler(agentSvc).RegisterRoutes(admin)
	authHandler.RegisterAdminRoutes(admin)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
