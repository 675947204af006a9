package routes

import (
	"net/http"
	"time"

	"clientdesk-backend/internal/api/handlers"
	"clientdesk-backend/internal/api/middleware"
	"clientdesk-backend/internal/auth"
	"clientdesk-backend/internal/config"
	"clientdesk-backend/internal/lifecycle"
	"clientdesk-backend/internal/policy"
	"clientdesk-backend/internal/repository"
	"clientdesk-backend/internal/service"
	"clientdesk-backend/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	validate := validator.New()

	// Repositories
	identityRepo := repository.NewIdentityRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Policy engine and tenant resolver sit under every service
	engine := policy.NewEngine(membershipRepo)
	resolver := tenant.NewResolver(organizationRepo, clientRepo, projectRepo, taskRepo, invoiceRepo, attachmentRepo)
	cascade := lifecycle.NewCascadeManager(db, engine)

	// Services
	organizationService := service.NewOrganizationService(organizationRepo, engine, cascade, validate)
	invitationService := service.NewInvitationService(identityRepo, membershipRepo, engine, service.NewLogNotifier(), validate)
	membershipService := service.NewMembershipService(membershipRepo, engine, validate)
	clientService := service.NewClientService(clientRepo, engine, validate)
	projectService := service.NewProjectService(projectRepo, resolver, engine, validate)
	taskService := service.NewTaskService(taskRepo, attachmentRepo, resolver, engine, validate)
	invoiceService := service.NewInvoiceService(invoiceRepo, resolver, engine, validate)
	summaryService := service.NewSummaryService(organizationRepo, clientRepo, projectRepo, taskRepo, invoiceRepo, engine)

	authService := auth.NewService(identityRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	authMiddleware := auth.NewMiddleware(authService)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService, summaryService)
	membershipHandler := handlers.NewMembershipHandler(membershipService, invitationService)
	clientHandler := handlers.NewClientHandler(clientService, projectService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	// Health and documentation
	router.GET("/health", healthHandler.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
	}

	// Everything below requires an authenticated identity
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/summary", organizationHandler.GetSummary)

		orgs := protected.Group("/organizations")
		{
			orgs.POST("", organizationHandler.CreateOrganization)
			orgs.GET("", organizationHandler.ListOrganizations)
			orgs.GET("/:id", organizationHandler.GetOrganization)
			orgs.PATCH("/:id", organizationHandler.UpdateOrganization)
			orgs.DELETE("/:id", organizationHandler.DeleteOrganization)

			orgs.GET("/:id/memberships", membershipHandler.ListMemberships)
			orgs.POST("/:id/invitations", membershipHandler.Invite)
			orgs.PATCH("/:id/memberships/:membershipId", membershipHandler.UpdateMembershipRole)
			orgs.DELETE("/:id/memberships/:membershipId", membershipHandler.RemoveMembership)

			orgs.POST("/:id/clients", clientHandler.CreateClient)
			orgs.GET("/:id/clients", clientHandler.ListClients)

			orgs.POST("/:id/projects", projectHandler.CreateProject)
			orgs.GET("/:id/projects", projectHandler.ListProjects)

			orgs.POST("/:id/tasks", taskHandler.CreateTask)

			orgs.POST("/:id/invoices", invoiceHandler.CreateInvoice)
			orgs.GET("/:id/invoices", invoiceHandler.ListInvoices)
		}

		clients := protected.Group("/clients")
		{
			clients.GET("/:clientId", clientHandler.GetClient)
			clients.PATCH("/:clientId", clientHandler.UpdateClient)
			clients.DELETE("/:clientId", clientHandler.DeleteClient)
			clients.GET("/:clientId/projects", clientHandler.ListClientProjects)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("/:projectId", projectHandler.GetProject)
			projects.PATCH("/:projectId", projectHandler.UpdateProject)
			projects.DELETE("/:projectId", projectHandler.DeleteProject)
			projects.GET("/:projectId/tasks", projectHandler.ListProjectTasks)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("/:taskId", taskHandler.GetTask)
			tasks.PATCH("/:taskId", taskHandler.UpdateTask)
			tasks.DELETE("/:taskId", taskHandler.DeleteTask)
			tasks.POST("/:taskId/attachments", taskHandler.AddAttachment)
			tasks.GET("/:taskId/attachments", taskHandler.ListAttachments)
			tasks.DELETE("/:taskId/attachments/:attachmentId", taskHandler.RemoveAttachment)
		}

		invoices := protected.Group("/invoices")
		{
			invoices.GET("/:invoiceId", invoiceHandler.GetInvoice)
			invoices.PATCH("/:invoiceId", invoiceHandler.UpdateInvoice)
			invoices.DELETE("/:invoiceId", invoiceHandler.DeleteInvoice)
			invoices.POST("/:invoiceId/line-items", invoiceHandler.AddLineItem)
			invoices.GET("/:invoiceId/line-items", invoiceHandler.ListLineItems)
			invoices.DELETE("/:invoiceId/line-items/:itemId", invoiceHandler.RemoveLineItem)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
