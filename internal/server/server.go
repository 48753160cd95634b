// Package server assembles services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	_ "stockbook/api/swagger" // swagger docs
	"stockbook/internal/config"
	"stockbook/internal/forecast"
	"stockbook/internal/handler"
	"stockbook/internal/middleware"
	"stockbook/internal/repository"
	"stockbook/internal/service"
	"stockbook/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Services holds every business service behind one storage backend.
type Services struct {
	Users          service.UserService
	Audit          service.AuditService
	Products       service.ProductService
	Locations      service.LocationService
	Inventory      service.InventoryService
	Suppliers      service.SupplierService
	SupplierOrders service.SupplierOrderService
	Sales          service.SalesService
	Statistics     service.StatisticsService
	Predictions    service.PredictionService
	Invoices       service.InvoiceService
	GST            service.GSTService
	Payments       service.PaymentService
	Revaluations   service.RevaluationService
}

// NewServices wires the service layer (Repository -> Service).
func NewServices(cfg *config.Config, repos *repository.Repositories, hub service.Broadcaster, predictor *forecast.Predictor, logger *zap.Logger) *Services {
	rate := cfg.GST.DefaultRate
	return &Services{
		Users:     service.NewUserService(repos.Users, []byte(cfg.JWT.Secret), cfg.JWT.TTL),
		Audit:     service.NewAuditService(repos.Audit, repos.Users),
		Products:  service.NewProductService(repos.Products, repos.Audit, repos.Tx, hub),
		Locations: service.NewLocationService(repos.Locations),
		Inventory: service.NewInventoryService(repos.Inventory, repos.Products, repos.Locations, repos.Audit, repos.Tx, hub),
		Suppliers: service.NewSupplierService(repos.Suppliers, repos.Products, repos.SupplierOrders),
		SupplierOrders: service.NewSupplierOrderService(repos.SupplierOrders, repos.Suppliers, repos.Products, repos.Locations,
			repos.Audit, repos.Tx, hub, rate, logger.Named("orders")),
		Sales:      service.NewSalesService(repos.Sales, repos.Products, repos.Locations),
		Statistics: service.NewStatisticsService(repos.Inventory, repos.Products, repos.SupplierOrders, repos.Suppliers),
		Predictions: service.NewPredictionService(repos.Predictions, repos.Products, repos.Inventory, repos.Locations,
			repos.Sales, predictor, logger.Named("predictions")),
		Invoices: service.NewInvoiceService(repos.Invoices, repos.Products, repos.Locations, repos.Sales,
			repos.Audit, repos.Tx, hub, rate, logger.Named("invoices")),
		GST:          service.NewGSTService(repos.Invoices, repos.SupplierOrders, repos.Locations, rate),
		Payments:     service.NewPaymentService(repos.Payments, repos.Invoices, repos.SupplierOrders, repos.Audit, repos.Tx, hub, logger.Named("payments")),
		Revaluations: service.NewRevaluationService(repos.PriceRevaluation, repos.Products, repos.Audit, repos.Tx, hub),
	}
}

// NewPredictor picks the OpenAI forecaster when an API key is configured.
func NewPredictor(cfg config.ForecastConfig, logger *zap.Logger) *forecast.Predictor {
	var remote forecast.Forecaster
	if cfg.APIKey != "" {
		remote = forecast.NewOpenAIForecaster(cfg.APIKey, cfg.Model)
	}
	return forecast.NewPredictor(remote, cfg.Timeout, logger.Named("forecast"))
}

// NewRouter builds the gin engine with middleware, API routes, websocket, health and swagger.
func NewRouter(cfg *config.Config, svc *Services, hub *websocket.Hub, logger *zap.Logger) *gin.Engine {
	if err := middleware.RegisterValidators(); err != nil {
		logger.Error("failed to register binding validators", zap.Error(err))
	}
	middleware.SetJWTSecret(cfg.JWT.Secret)
	middleware.SetSecureCookies(cfg.Server.AppEnv == "production")

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(logger.Named("http")), middleware.Recovery(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(hub, c, middleware.GetJWTSecret())
		})
	}

	root := router.Group("")
	handler.NewUserHandler(svc.Users, cfg.JWT.TTL).RegisterRoutes(root)
	handler.NewAuditHandler(svc.Audit).RegisterRoutes(root)
	handler.NewProductHandler(svc.Products).RegisterRoutes(root)
	handler.NewLocationHandler(svc.Locations).RegisterRoutes(root)
	handler.NewInventoryHandler(svc.Inventory).RegisterRoutes(root)
	handler.NewSupplierHandler(svc.Suppliers).RegisterRoutes(root)
	handler.NewSupplierOrderHandler(svc.SupplierOrders).RegisterRoutes(root)
	handler.NewSalesHandler(svc.Sales).RegisterRoutes(root)
	handler.NewStatisticsHandler(svc.Statistics).RegisterRoutes(root)
	handler.NewPredictionHandler(svc.Predictions).RegisterRoutes(root)
	handler.NewInvoiceHandler(svc.Invoices).RegisterRoutes(root)
	handler.NewTaxHandler(svc.GST).RegisterRoutes(root)
	handler.NewPaymentHandler(svc.Payments).RegisterRoutes(root)
	handler.NewRevaluationHandler(svc.Revaluations).RegisterRoutes(root)

	return router
}
