// internal/app/router.go
package app

import (
	"net/http"

	"freightline-service/internal/config"
	"freightline-service/internal/domain/auth"
	"freightline-service/internal/handlers"
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type routerDeps struct {
	cfg        config.AppConfig
	auth       *handlers.AuthHandler
	navigation *handlers.NavigationHandler
	truck      *handlers.TruckHandler
	cart       *handlers.CartHandler
	quotation  *handlers.QuotationHandler
	wsHandler  *handlers.WSHandler
	validator  middleware.TokenValidator
	logger     *zap.Logger
}

func setupRouter(deps routerDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(deps.logger))
	router.Use(middleware.LoggingMiddleware(deps.logger))
	router.Use(middleware.CORSMiddleware(deps.cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	requireAuth := middleware.AuthMiddleware(deps.validator)

	v1 := router.Group("/api/v1")
	{
		// public surfaces
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", deps.auth.Register)
			authGroup.POST("/login", deps.auth.Login)
			authGroup.POST("/refresh", deps.auth.Refresh)
			authGroup.POST("/forgot-password", deps.auth.ForgotPassword)
			authGroup.POST("/reset-password", deps.auth.ResetPassword)
		}
		v1.GET("/trucks/types", deps.truck.Types)

		// authenticated surfaces
		secured := v1.Group("")
		secured.Use(requireAuth)
		{
			secured.POST("/auth/logout", deps.auth.Logout)
			secured.POST("/auth/logout-all", deps.auth.LogoutAll)
			secured.GET("/auth/session", deps.auth.Session)
			secured.GET("/auth/me", deps.auth.Me)
			secured.PUT("/auth/me", deps.auth.UpdateProfile)
			secured.POST("/auth/change-password", deps.auth.ChangePassword)

			secured.GET("/navigation", deps.navigation.Menu)

			secured.POST("/trucks/search", deps.truck.Search)
			secured.GET("/trucks/search/results", deps.truck.Results)

			secured.GET("/cart", deps.cart.Get)
			secured.POST("/cart/items", deps.cart.AddItem)
			secured.PUT("/cart/items/:truckId", deps.cart.UpdateItem)
			secured.DELETE("/cart/items/:truckId", deps.cart.RemoveItem)
			secured.DELETE("/cart", deps.cart.Clear)
			secured.POST("/cart/history", deps.cart.SaveToHistory)
			secured.GET("/cart/history", deps.cart.History)

			secured.POST("/quotations", deps.quotation.Submit)
			secured.GET("/quotations", deps.quotation.List)
			secured.GET("/quotations/:id", deps.quotation.Get)
			secured.PUT("/quotations/:id/accept", deps.quotation.Accept)
			secured.PUT("/quotations/:id/reject", deps.quotation.Reject)
			secured.GET("/quotations/:id/invoice", deps.quotation.Invoice)

			fleet := secured.Group("/fleet")
			fleet.Use(middleware.RequireRole(auth.RoleVendor, auth.RoleAdmin))
			{
				fleet.GET("", deps.truck.ListFleet)
				fleet.POST("", deps.truck.AddTruck)
				fleet.PUT("/:id/active", deps.truck.SetTruckActive)
			}
		}
	}

	router.GET("/ws", requireAuth, deps.wsHandler.Connect)

	return router
}
