package routes

import (
	"time"

	"tradelink/handlers"
	"tradelink/middleware"
	"tradelink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDirectoryRoutes registers category and specialist endpoints.
func RegisterDirectoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/categories", hb.ListCategoriesHandler)
		api.GET("/categories/:id/specialists", hb.ListSpecialistsHandler)

		specialists := api.Group("/specialists/:id")
		specialists.GET("", hb.GetSpecialistHandler)
		specialists.PATCH("", hb.UpdateSpecialistHandler)
		specialists.POST("/reviews", hb.SubmitReviewHandler)
		specialists.POST("/availability", hb.ToggleAvailabilityHandler)
		specialists.PUT("/image", hb.SetProfileImageHandler)
		specialists.GET("/contact", hb.ContactHandler)
		specialists.POST("/quote", hb.QuoteHandler)
	}
}

// RegisterRegistrationRoutes registers the sign-up wizard endpoints.
func RegisterRegistrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	reg := r.Group("/api/registration")
	{
		reg.POST("", hb.OpenRegistrationHandler)
		reg.GET("/:sid", hb.GetRegistrationHandler)
		reg.PUT("/:sid/details", hb.SubmitDetailsHandler)
		reg.POST("/:sid/back", hb.RegistrationBackHandler)
		reg.POST("/:sid/payment", hb.StartPaymentHandler)
		reg.DELETE("/:sid", hb.CloseRegistrationHandler)
	}
}

// RegisterAuthRoutes registers the mock identity endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", hb.LoginHandler)
		auth.POST("/logout", hb.LogoutHandler)
		auth.GET("/me", hb.MeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", utils.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Identity())

	RegisterHealthRoute(r, hb)
	RegisterDirectoryRoutes(r, hb)
	RegisterRegistrationRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
}
