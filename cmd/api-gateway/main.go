package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dtp-gov/portal-api/api/swagger"
	"github.com/dtp-gov/portal-api/internal/handler"
	"github.com/dtp-gov/portal-api/internal/middleware"
	"github.com/dtp-gov/portal-api/internal/models"
	"github.com/dtp-gov/portal-api/internal/repository"
	"github.com/dtp-gov/portal-api/internal/service"
	"github.com/dtp-gov/portal-api/pkg/cache"
	"github.com/dtp-gov/portal-api/pkg/config"
	"github.com/dtp-gov/portal-api/pkg/database"
	"github.com/dtp-gov/portal-api/pkg/logger"
	corsmiddleware "github.com/dtp-gov/portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dtp-gov/portal-api/pkg/middleware/requestid"
	"github.com/dtp-gov/portal-api/pkg/storage"
)

// @title DTP Portal API
// @version 1.0.0
// @description Backend for the Digital Transformation Program public portal and admin dashboard
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		} else {
			redisClient = client
			defer client.Close() //nolint:errcheck
		}
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare upload storage", "error", err)
	}

	validate := validator.New()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	supportRepo := repository.NewSupportRequestRepository(db)
	initiativeRepo := repository.NewInitiativeRepository(db)
	eventRepo := repository.NewEventRepository(db)
	standardRepo := repository.NewStandardRepository(db)
	learningRepo := repository.NewLearningRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheRepo.SetLookupHook(metricsSvc.RecordCacheLookup)
	authRepo := struct {
		*repository.UserRepository
		*repository.AuditRepository
	}{userRepo, auditRepo}
	authSvc := service.NewAuthService(authRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "dtp-portal-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	settingSvc := service.NewSettingService(settingRepo, auditRepo, logr)
	ttl := cfg.Cache.ContentTTL
	projectSvc := service.NewProjectService(projectRepo, cacheRepo, ttl, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, userRepo, projectRepo, validate, logr)
	supportSvc := service.NewSupportRequestService(supportRepo, assignmentRepo, projectRepo, auditRepo, validate, logr)
	initiativeSvc := service.NewInitiativeService(initiativeRepo, cacheRepo, ttl, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheRepo, ttl, validate, logr)
	standardSvc := service.NewStandardService(standardRepo, cacheRepo, ttl, validate, logr)
	learningSvc := service.NewLearningService(learningRepo, cacheRepo, ttl, validate, logr)
	teamSvc := service.NewTeamService(teamRepo, cacheRepo, ttl, validate, logr)
	partnerSvc := service.NewPartnerService(partnerRepo, cacheRepo, ttl, validate, logr)
	uploadSvc := service.NewUploadService(store, cfg.Uploads.PublicBaseURL, cfg.Uploads.MaxFileSizeBytes, logr)
	exportSvc := service.NewExportService(supportRepo, cfg.Exports.ProgramName, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	settingHandler := handler.NewSettingHandler(settingSvc)
	projectHandler := handler.NewProjectHandler(projectSvc, supportSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	supportHandler := handler.NewSupportRequestHandler(supportSvc, exportSvc)
	initiativeHandler := handler.NewInitiativeHandler(initiativeSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	standardHandler := handler.NewStandardHandler(standardSvc)
	learningHandler := handler.NewLearningHandler(learningSvc)
	teamHandler := handler.NewTeamHandler(teamSvc)
	partnerHandler := handler.NewPartnerHandler(partnerSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc, metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stored uploads are served directly.
	r.Static("/uploads", store.BaseDir())

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	// Public surface. Claims are attached when present so admins can see
	// unpublished content through the same routes.
	public := api.Group("", middleware.OptionalJWT(authSvc))
	{
		public.GET("/settings/:key", settingHandler.Get)
		public.GET("/settings/sections", settingHandler.Sections)

		public.GET("/initiatives", initiativeHandler.List)
		public.GET("/initiatives/:id", initiativeHandler.Get)
		public.GET("/events", eventHandler.List)
		public.GET("/events/:id", eventHandler.Get)
		public.GET("/projects", projectHandler.List)
		public.GET("/projects/:id", projectHandler.Get)
		public.GET("/projects/:id/support-requests", projectHandler.SupportRequests)
		public.GET("/standards", standardHandler.List)
		public.GET("/standards/:id", standardHandler.Get)
		public.GET("/learning-modules", learningHandler.List)
		public.GET("/learning-modules/:id", learningHandler.Get)
		public.POST("/learning-modules/:id/download", learningHandler.Download)
		public.GET("/team-members", teamHandler.List)
		public.GET("/team-members/:id", teamHandler.Get)
		public.GET("/partners", partnerHandler.List)
		public.GET("/partners/:id", partnerHandler.Get)

		// Guests may submit; the service requires contact details when
		// no claims are attached.
		public.POST("/support-requests", supportHandler.Create)
	}

	authed := api.Group("", middleware.JWT(authSvc))
	{
		authed.GET("/support-requests", supportHandler.List)
		authed.GET("/support-requests/:id", supportHandler.Get)
		authed.GET("/users/:id/projects", middleware.RBAC(string(models.RoleAdmin), "SELF"), assignmentHandler.ProjectsForUser)
	}

	admin := api.Group("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.PUT("/settings/:key", settingHandler.Put)
		admin.PUT("/settings/sections/:key/visibility", settingHandler.SetVisibility)
		admin.PATCH("/settings/sections/:key/move", settingHandler.MoveSection)

		admin.GET("/users", userHandler.List)
		admin.GET("/users/:id", userHandler.Get)
		admin.POST("/users", userHandler.Create)
		admin.DELETE("/users/:id", userHandler.Deactivate)

		admin.POST("/projects", projectHandler.Create)
		admin.PUT("/projects/:id", projectHandler.Update)
		admin.DELETE("/projects/:id", projectHandler.Delete)
		admin.GET("/projects/:id/users", assignmentHandler.UsersForProject)

		admin.POST("/project-assignments", assignmentHandler.Assign)
		admin.DELETE("/project-assignments", assignmentHandler.Unassign)

		admin.PATCH("/support-requests/:id/status", supportHandler.UpdateStatus)
		admin.PATCH("/support-requests/:id/progress", supportHandler.AppendWorkUpdate)
		admin.GET("/support-requests/export", supportHandler.Export)

		admin.POST("/initiatives", initiativeHandler.Create)
		admin.PUT("/initiatives/:id", initiativeHandler.Update)
		admin.DELETE("/initiatives/:id", initiativeHandler.Delete)
		admin.POST("/events", eventHandler.Create)
		admin.PUT("/events/:id", eventHandler.Update)
		admin.DELETE("/events/:id", eventHandler.Delete)
		admin.POST("/standards", standardHandler.Create)
		admin.PUT("/standards/:id", standardHandler.Update)
		admin.DELETE("/standards/:id", standardHandler.Delete)
		admin.POST("/learning-modules", learningHandler.Create)
		admin.PUT("/learning-modules/:id", learningHandler.Update)
		admin.DELETE("/learning-modules/:id", learningHandler.Delete)
		admin.POST("/team-members", teamHandler.Create)
		admin.PUT("/team-members/:id", teamHandler.Update)
		admin.DELETE("/team-members/:id", teamHandler.Delete)
		admin.POST("/partners", partnerHandler.Create)
		admin.PUT("/partners/:id", partnerHandler.Update)
		admin.PATCH("/partners/:id/featured", partnerHandler.ToggleFeatured)
		admin.DELETE("/partners/:id", partnerHandler.Delete)

		admin.POST("/uploads/:folder", uploadHandler.Upload)
		admin.GET("/uploads/:folder", uploadHandler.List)
		admin.DELETE("/uploads/:folder/:filename", uploadHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
