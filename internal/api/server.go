package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/recaudacion/rifas-api/docs"
	v1 "github.com/recaudacion/rifas-api/internal/api/handler/v1"
	"github.com/recaudacion/rifas-api/internal/api/middleware"
	"github.com/recaudacion/rifas-api/internal/config"
	"github.com/recaudacion/rifas-api/internal/metrics"
	"github.com/recaudacion/rifas-api/internal/repository"
	"github.com/recaudacion/rifas-api/internal/repository/dao"
	"github.com/recaudacion/rifas-api/internal/service"
)

type Server struct {
	Config   *config.AppConfig
	Router   *gin.Engine
	Feed     *v1.SaleFeed
	Registry *prometheus.Registry
}

type handlers struct {
	auth   *v1.AuthHandler
	user   *v1.UserHandler
	raffle *v1.RaffleHandler
	sale   *v1.RaffleSaleHandler
	report *v1.ReportHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		Config:   conf,
		Router:   engine,
		Registry: registry,
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db))

	return s
}

func (s *Server) initHandlers(db *gorm.DB) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	raffleRepo := repository.NewRaffleRepository(dao.NewRaffleDAO(db))

	userSvc := service.NewUserService(userRepo)
	raffleSvc := service.NewRaffleService(raffleRepo, userRepo)

	s.Feed = v1.NewSaleFeed(raffleSvc)
	saleSvc := service.NewRaffleSaleService(raffleRepo, s.Feed, metrics.NewSaleMetrics(s.Registry))

	return handlers{
		auth:   v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo)),
		user:   v1.NewUserHandler(userSvc),
		raffle: v1.NewRaffleHandler(raffleSvc, userSvc),
		sale:   v1.NewRaffleSaleHandler(saleSvc, s.Config.Sales.RequestTimeout),
		report: v1.NewReportHandler(service.NewReportService(raffleRepo)),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	api := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		api.GET("/users/:userID", h.user.HandleGetUser)
		api.GET("/voluntarios", h.user.HandleGetVolunteers)

		api.POST("/rifas", h.raffle.HandleCreateCampaign)
		api.GET("/rifas", h.raffle.HandleGetCampaigns)
		api.GET("/rifas/:campaignID", h.raffle.HandleGetCampaign)
		api.POST("/rifas/:campaignID/talonarios", h.raffle.HandleCreateTicketBook)
		api.GET("/rifas/:campaignID/talonarios", h.raffle.HandleGetTicketBooks)
		api.GET("/rifas/:campaignID/reconciliacion", h.raffle.HandleGetReconciliation)
		api.POST("/rifas/:campaignID/reconciliacion", h.raffle.HandleRepairReconciliation)
		api.GET("/rifas/:campaignID/feed", s.Feed.HandleFeed)

		api.POST("/solicitudesTalonario", h.raffle.HandleAssignTicketBook)
		api.DELETE("/solicitudesTalonario/:requestID", h.raffle.HandleReleaseTicketBook)
		api.GET("/tiposPago", h.raffle.HandleGetPaymentMethods)

		api.POST("/recaudacionRifa", h.sale.HandleCreateSale)
		api.PUT("/recaudacionRifa", h.sale.HandleUpdateSale)
		api.GET("/recaudacionRifa/:saleID", h.sale.HandleGetSale)
		api.DELETE("/recaudacionRifa/:saleID", h.sale.HandleDeactivateSale)
		api.DELETE("/recaudacionRifa/:saleID/purge", h.sale.HandlePurgeSale)

		api.GET("/reportes/recaudacionRifa", h.report.HandleGetSaleReport)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Raffle fundraising API"
	docs.SwaggerInfo.Description = "Ticket book inventory, raffle sales and their payments."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
