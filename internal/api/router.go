package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/api/handlers"
	"github.com/ekoelbar/barclient/internal/api/middleware"
	"github.com/ekoelbar/barclient/internal/audit"
	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/cart"
	"github.com/ekoelbar/barclient/internal/config"
	"github.com/ekoelbar/barclient/internal/service"
)

// Dependencies are the long-lived objects the routes are served from
type Dependencies struct {
	Client       *barapi.Client
	Cart         *cart.Store
	Orders       *service.OrderService
	Reservations *service.ReservationRegistry
	Contact      *service.ContactService
	Sink         audit.Sink
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/home", handlers.HandleHome(deps.Cart))

		api.GET("/beers", handlers.HandleListBeers(deps.Client, deps.Cart, logger))
		api.GET("/beers/:id", handlers.HandleGetBeer(deps.Client, deps.Cart, logger))

		api.GET("/events", handlers.HandleListEvents(deps.Client, logger))
		api.GET("/events/:id", handlers.HandleGetEvent(deps.Client, logger))
		api.GET("/events/:id/reservation", handlers.HandleGetReservationWidget(deps.Reservations))
		api.POST("/events/:id/reservation", handlers.HandleSubmitReservation(deps.Reservations, logger))
		api.POST("/events/:id/reservation/open", handlers.HandleOpenReservation(deps.Reservations))
		api.POST("/events/:id/reservation/close", handlers.HandleCloseReservation(deps.Reservations))

		api.GET("/weather", handlers.HandleWeather(deps.Client, logger))

		api.GET("/contact", handlers.HandleGetContact(deps.Contact))
		api.POST("/contact", handlers.HandleSendContact(deps.Contact, logger))

		cartRoutes := api.Group("/cart")
		{
			cartRoutes.GET("", handlers.HandleGetCart(deps.Cart))
			cartRoutes.DELETE("", handlers.HandleClearCart(deps.Cart))
			cartRoutes.GET("/stream", handlers.HandleCartStream(deps.Cart, logger))
			cartRoutes.POST("/items", handlers.HandleAddToCart(deps.Cart, deps.Client, logger))
			cartRoutes.PUT("/items/:beerId", handlers.HandleUpdateCartLine(deps.Cart))
			cartRoutes.DELETE("/items/:beerId", handlers.HandleRemoveCartLine(deps.Cart))
		}

		orderRoutes := api.Group("/order")
		{
			orderRoutes.GET("", handlers.HandleGetOrder(deps.Orders))
			orderRoutes.POST("", handlers.HandleCreateOrder(deps.Orders, logger))
			orderRoutes.DELETE("", handlers.HandleResetOrder(deps.Orders))
			orderRoutes.POST("/items", handlers.HandleAddOrderItem(deps.Orders, logger))
			for _, action := range []string{"confirm", "pay", "complete", "cancel"} {
				orderRoutes.POST("/"+action, handlers.HandleOrderAction(deps.Orders, action, logger))
			}
		}

		staffRoutes := api.Group("/staff")
		staffRoutes.Use(middleware.StaffAuth(cfg.Staff.PinHash, logger))
		{
			staffRoutes.GET("/orders", handlers.HandleListOrders(deps.Client, logger))
			staffRoutes.GET("/reservations", handlers.HandleListReservations(deps.Client, logger))
			staffRoutes.POST("/reservations/:id/confirm", handlers.HandleConfirmReservation(deps.Client, deps.Sink, logger))
			staffRoutes.POST("/reservations/:id/cancel", handlers.HandleCancelReservation(deps.Client, deps.Sink, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
	}
}
