package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ai-writing-assistant/internal/model"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers the webhook ingress and the read API.
func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	if srv.webhookHandler != nil {
		srv.gin.POST("/webhook/chat", srv.webhookHandler.HandleChatWebhook)
		srv.l.Infof(ctx, "Chat webhook route registered at POST /webhook/chat")
	} else {
		srv.l.Infof(ctx, "Webhook handler not configured, skipping chat webhook route")
	}

	api := srv.gin.Group("/api/v1")
	api.GET("/metrics", srv.getMetrics)
	if srv.catalog != nil {
		api.GET("/models", srv.getModels)
	}
}
