package api

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/manokmart/manokmart-BE/internal/event"
	"github.com/manokmart/manokmart-BE/internal/util"
	"github.com/manokmart/manokmart-BE/internal/worker"
	"golang.ngrok.com/ngrok"
	ngrokconfig "golang.ngrok.com/ngrok/config"
)

type Server struct {
	router          *gin.Engine
	dbStore         db.Store
	config          *util.Config
	deliveryService *delivery.Orchestrator
	taskDistributor worker.TaskDistributor
	taskInspector   worker.TaskInspector
	eventSender     event.EventSender
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(store db.Store, config *util.Config, deliveryService *delivery.Orchestrator, taskDistributor worker.TaskDistributor, taskInspector worker.TaskInspector, eventSender event.EventSender) *Server {
	server := &Server{
		dbStore:         store,
		config:          config,
		deliveryService: deliveryService,
		taskDistributor: taskDistributor,
		taskInspector:   taskInspector,
		eventSender:     eventSender,
	}

	server.setupRouter()
	return server
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", server.checkHealth)

	// Provider callbacks live outside /v1: the URLs are registered with
	// Lalamove and verified by signature, not by user auth. All three carry
	// the same signed {data:{orderId,status,...}} envelope and flow through
	// the same dispatcher.
	webhookGroup := router.Group("/webhook/lalamove")
	{
		webhookGroup.POST("/delivery", server.handleLalamoveWebhook)
		webhookGroup.POST("/cancellation", server.handleLalamoveWebhook)
		webhookGroup.POST("/driver", server.handleLalamoveWebhook)
	}

	v1 := router.Group("/v1")

	orderGroup := v1.Group("/orders")
	{
		orderGroup.POST(":orderID/delivery", server.createOrderDelivery)
		orderGroup.GET(":orderID/delivery", server.getOrderDelivery)
		orderGroup.DELETE(":orderID/delivery", server.cancelOrderDelivery)
		orderGroup.GET(":orderID/delivery/driver", server.getDeliveryDriver)
		orderGroup.GET(":orderID/delivery/driver-location", server.getDeliveryDriverLocation)
		orderGroup.GET(":orderID/stream", server.streamOrderEvents)
	}

	server.router = router
}

func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// StartWithTunnel serves over an ngrok endpoint so the provider can reach
// the webhook routes from a local development machine. Returns the public
// URL to register in the Lalamove dashboard.
func (server *Server) StartWithTunnel(ctx context.Context, authToken string) (string, error) {
	tunnel, err := ngrok.Listen(ctx,
		ngrokconfig.HTTPEndpoint(),
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		return "", err
	}

	go func() {
		_ = server.router.RunListener(tunnel)
	}()

	return tunnel.URL(), nil
}
