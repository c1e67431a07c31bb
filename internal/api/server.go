package api

import (
	"context"
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tal3a-app/tal3a-api/docs"
	v1 "github.com/tal3a-app/tal3a-api/internal/api/handler/v1"
	"github.com/tal3a-app/tal3a-api/internal/api/middleware"
	"github.com/tal3a-app/tal3a-api/internal/config"
	"github.com/tal3a-app/tal3a-api/internal/repository"
	"github.com/tal3a-app/tal3a-api/internal/repository/dao"
	"github.com/tal3a-app/tal3a-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := v1.NewAuthHandler(conf.API)
	tal3aHandler, participantHandler := s.initTal3aHandlers(db)
	reviewHandler := s.initReviewHandler(db)
	adminHandler, ownerHandler, groupAdminHandler, ownerSvc := s.initAdminHandlers(db)
	s.MountHandlers(authHandler, tal3aHandler, participantHandler, reviewHandler, adminHandler, ownerHandler, groupAdminHandler)

	if conf.API.BootstrapAdmin != "" {
		owner, err := ownerSvc.Bootstrap(context.Background(), conf.API.BootstrapAdmin, "Bootstrap Admin")
		if err != nil {
			return nil, fmt.Errorf("ownerSvc.Bootstrap -> %w", err)
		}

		zap.L().Info("bootstrap admin ready", zap.String("principal", owner.Principal))
	}

	return s, nil
}

func (s *Server) initTal3aHandlers(db *gorm.DB) (*v1.Tal3aHandler, *v1.ParticipantHandler) {
	tal3aDAO := dao.NewTal3aDAO(db)
	repo := repository.NewTal3aRepository(tal3aDAO)
	tal3aHandler := v1.NewTal3aHandler(service.NewTal3aService(repo))
	participantHandler := v1.NewParticipantHandler(service.NewParticipantService(repo))

	return tal3aHandler, participantHandler
}

func (s *Server) initReviewHandler(db *gorm.DB) *v1.ReviewHandler {
	reviewDAO := dao.NewReviewDAO(db)
	repo := repository.NewReviewRepository(reviewDAO)
	tal3aRepo := repository.NewTal3aRepository(dao.NewTal3aDAO(db))
	svc := service.NewReviewService(repo, tal3aRepo)
	handler := v1.NewReviewHandler(svc)

	return handler
}

func (s *Server) initAdminHandlers(db *gorm.DB) (*v1.AdminHandler, *v1.OwnerHandler, *v1.GroupAdminHandler, *service.OwnerService) {
	adminDAO := dao.NewAdminDAO(db)
	repo := repository.NewAdminRepository(adminDAO)
	adminHandler := v1.NewAdminHandler(service.NewAdminRequestService(repo))
	ownerSvc := service.NewOwnerService(repo)
	ownerHandler := v1.NewOwnerHandler(ownerSvc)

	groupAdminRepo := repository.NewGroupAdminRepository(dao.NewGroupAdminDAO(db))
	groupAdminHandler := v1.NewGroupAdminHandler(service.NewGroupAdminService(groupAdminRepo, repo))

	return adminHandler, ownerHandler, groupAdminHandler, ownerSvc
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	tal3aHandler *v1.Tal3aHandler,
	participantHandler *v1.ParticipantHandler,
	reviewHandler *v1.ReviewHandler,
	adminHandler *v1.AdminHandler,
	ownerHandler *v1.OwnerHandler,
	groupAdminHandler *v1.GroupAdminHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/token", authHandler.HandleMintToken)
		public.GET("/tal3as", tal3aHandler.HandleListTal3as)
		public.GET("/tal3as/:tal3aID", tal3aHandler.HandleGetTal3a)
		public.GET("/tal3as/:tal3aID/participants", participantHandler.HandleGetParticipants)
		public.GET("/tal3as/:tal3aID/waitlist", participantHandler.HandleGetWaitlist)
		public.GET("/tal3as/:tal3aID/reviews", reviewHandler.HandleGetTal3aReviews)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/tal3as", tal3aHandler.HandleCreateTal3a)
		authed.GET("/tal3as/organized", tal3aHandler.HandleGetOrganizedTal3as)
		authed.GET("/tal3as/joined", tal3aHandler.HandleGetJoinedTal3as)
		authed.PUT("/tal3as/:tal3aID", tal3aHandler.HandleUpdateTal3a)
		authed.PUT("/tal3as/:tal3aID/status", tal3aHandler.HandleUpdateTal3aStatus)
		authed.DELETE("/tal3as/:tal3aID", tal3aHandler.HandleDeleteTal3a)

		authed.POST("/tal3as/:tal3aID/join", participantHandler.HandleJoinTal3a)
		authed.POST("/tal3as/:tal3aID/leave", participantHandler.HandleLeaveTal3a)
		authed.PUT("/tal3as/:tal3aID/participants/status", participantHandler.HandleUpdateParticipantStatus)

		authed.POST("/tal3as/:tal3aID/reviews", reviewHandler.HandleCreateReview)
		authed.GET("/reviews/mine", reviewHandler.HandleGetMyReviews)
		authed.PUT("/reviews/:reviewID", reviewHandler.HandleUpdateReview)
		authed.DELETE("/reviews/:reviewID", reviewHandler.HandleDeleteReview)
		authed.POST("/reviews/:reviewID/helpful", reviewHandler.HandleMarkHelpful)
		authed.POST("/reviews/:reviewID/report", reviewHandler.HandleReportReview)

		authed.POST("/admin/requests", adminHandler.HandleSubmitRequest)
		authed.GET("/admin/requests", adminHandler.HandleListRequests)
		authed.GET("/admin/requests/mine", adminHandler.HandleGetMyRequest)
		authed.DELETE("/admin/requests/mine", adminHandler.HandleCancelRequest)
		authed.GET("/admin/requests/:requestID", adminHandler.HandleGetRequest)
		authed.DELETE("/admin/requests/:requestID", adminHandler.HandleDeleteRequest)
		authed.POST("/admin/requests/:requestID/approve", adminHandler.HandleApproveRequest)
		authed.POST("/admin/requests/:requestID/reject", adminHandler.HandleRejectRequest)

		authed.GET("/admin/owners", ownerHandler.HandleListOwners)
		authed.POST("/admin/owners", ownerHandler.HandleAddOwner)
		authed.GET("/admin/owners/me", ownerHandler.HandleGetMe)
		authed.DELETE("/admin/owners/:principal", ownerHandler.HandleRemoveOwner)
		authed.PUT("/admin/owners/:principal/permissions", ownerHandler.HandleUpdatePermissions)

		authed.GET("/groups/roles/mine", groupAdminHandler.HandleGetMyGroupRoles)
		authed.GET("/groups/:groupID/admins", groupAdminHandler.HandleListGroupAdmins)
		authed.POST("/groups/:groupID/admins", groupAdminHandler.HandleAddGroupAdmin)
		authed.DELETE("/groups/:groupID/admins/:principal", groupAdminHandler.HandleRemoveGroupAdmin)
		authed.PUT("/groups/:groupID/admins/:principal/permissions", groupAdminHandler.HandleUpdateGroupPermissions)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Tal3a API"
	docs.SwaggerInfo.Description = "API for organizing and joining sports outings."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
