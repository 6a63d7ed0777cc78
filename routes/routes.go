package routes

import (
	"net/http"
	"time"

	"mentorhub/handlers"
	"mentorhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers booking and meeting lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.POST("", hb.BookSession)
		api.POST("/:id/cancel", hb.CancelSession)
		api.POST("/:id/end", hb.EndMeeting)
		api.POST("/:id/recording/retry", hb.RetryTranscription)
	}
}

// RegisterMentorRoutes registers mentor slot management endpoints.
func RegisterMentorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/mentors")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.GET("/:id/slots", hb.GetAvailableSlots)
		api.PUT("/:id/slots", hb.CreateTimeSlots)
		api.DELETE("/:id/slots/:slotID", hb.DeleteTimeSlot)
	}
}

// RegisterPaymentRoutes registers payment orchestration endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.POST("/intent", hb.CreateIntent)
		api.POST("/confirm", hb.ConfirmPayment)
		api.POST("/:id/refund", hb.RefundPayment)
		api.GET("/:id", hb.GetPayment)
	}
}

// RegisterSettlementRoutes registers payout and dispute endpoints.
func RegisterSettlementRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	payouts := r.Group("/api/payouts")
	{
		payouts.Use(middleware.RateLimitMiddleware())
		payouts.POST("/:id/request", hb.RequestPayout)
		payouts.POST("/:id/process", hb.ProcessPayout)
		payouts.POST("/:id/cancel", hb.CancelPayout)
	}
	disputes := r.Group("/api/disputes")
	{
		disputes.Use(middleware.RateLimitMiddleware())
		disputes.POST("", hb.CreateDispute)
		disputes.POST("/:id/resolve", hb.ResolveDispute)
	}
}

// RegisterWebhookRoutes registers inbound webhook endpoints. No rate
// limiting here: provider retry bursts must always land.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	hooks := r.Group("/webhooks")
	{
		hooks.POST("/payment", hb.PaymentWebhook)
		hooks.POST("/meeting", hb.MeetingWebhook)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSessionRoutes(r, hb)
	RegisterMentorRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterSettlementRoutes(r, hb)
	RegisterWebhookRoutes(r, hb)
}
