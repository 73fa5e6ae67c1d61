package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"certback/internal/handlers"
	"certback/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	registerHandler *handlers.RegisterHandler,
	verifyHandler *handlers.VerifyHandler,
	paymentHandler *handlers.PaymentHandler,
	accessHandler *handlers.AccessHandler,
	adminHandler *handlers.AdminHandler,
	productHandler *handlers.ProductHandler,
	rdb *redis.Client, // nil — без rate limit
	productsDir string,
) *gin.Engine {

	api := r.Group("/api")

	// ---- public, с rate limit
	public := api.Group("", middleware.RateLimit(rdb))
	{
		public.POST("/register", registerHandler.Register)
		public.POST("/register/resend", registerHandler.ResendOTP)
		public.POST("/verify/email", verifyHandler.VerifyEmail)
		public.POST("/verify/whatsapp", verifyHandler.VerifyWhatsApp)
		public.POST("/checkout", paymentHandler.CreateCheckout)
		public.POST("/access/login", accessHandler.Login)
		public.POST("/access/change", accessHandler.Change)
		public.POST("/admin/login", adminHandler.Login)
	}

	// ---- webhooks (секрет проверяется в хендлере, без лимита — провайдеры ретраят)
	api.POST("/webhooks/stripe", paymentHandler.StripeWebhook)
	api.POST("/webhooks/paypal", paymentHandler.PayPalWebhook)

	// ---- products
	api.GET("/products", productHandler.List)
	api.GET("/export/zip", productHandler.ExportZip)
	api.GET("/export/pdf", productHandler.ExportPDF)
	r.Static("/api/products/static", productsDir)

	// ---- admin (JWT)
	admin := api.Group("/admin", middleware.AuthMiddleware())
	{
		admin.GET("/payments", adminHandler.ListPayments)
		admin.POST("/payments/:id/approve", adminHandler.ApprovePayment)
	}

	return r
}
