package api

import (
	"net/http"

	"auto-shipping/internal/api/middleware"
	"auto-shipping/internal/modules/fleet"
	"auto-shipping/internal/modules/pricing"
	"auto-shipping/internal/modules/shipments"
	"auto-shipping/internal/modules/users"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	pricingHandler *pricing.Handler,
	shipmentHandler *shipments.Handler,
	fleetHandler *fleet.Handler,
	assignHandler *fleet.AssignHandler,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	adminRequired := middleware.AdminRequired()
	driverRequired := middleware.DriverRequired()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the Auto Shipping Marketplace!"})
	})

	// Quoting is public: visitors price a shipment before signing up.
	e.POST("/pricing/quote", pricingHandler.Quote)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/activate", userHandler.ActivateAccount)
		authGroup.POST("/resend-activation", userHandler.ResendActivation)
		authGroup.POST("/request-password-reset", userHandler.RequestPasswordReset)
		authGroup.POST("/reset-password", userHandler.ResetPassword)
		authGroup.GET("/google/login", userHandler.GoogleLogin)
		authGroup.GET("/google/callback", userHandler.GoogleCallback)
	}

	// --- Profile & Saved Addresses ---
	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", userHandler.GetProfile)
		profileGroup.PUT("", userHandler.UpdateProfile)
		profileGroup.GET("/addresses", userHandler.ListAddresses)
		profileGroup.POST("/addresses", userHandler.AddAddress)
		profileGroup.PUT("/addresses/:addressId", userHandler.UpdateAddress)
		profileGroup.DELETE("/addresses/:addressId", userHandler.DeleteAddress)
	}

	// --- Shipment Routes ---
	shipmentGroup := e.Group("/shipments", authMiddleware)
	{
		shipmentGroup.POST("", shipmentHandler.CreateShipment)
		shipmentGroup.GET("", shipmentHandler.ListMyShipments)
		shipmentGroup.GET("/:shipmentId", shipmentHandler.GetShipmentDetails)
		shipmentGroup.PUT("/:shipmentId/cancel", shipmentHandler.CancelShipment)
		shipmentGroup.POST("/:shipmentId/feedback", shipmentHandler.SubmitFeedback)
		shipmentGroup.GET("/:shipmentId/tracking", fleetHandler.GetTracking)
	}

	// --- Driver Routes ---
	driverGroup := e.Group("/driver", authMiddleware, driverRequired)
	{
		driverGroup.POST("/shipments/:shipmentId/tracking", fleetHandler.ReportTracking)
	}

	// --- Admin Routes ---
	adminGroup := e.Group("/admin", authMiddleware, adminRequired)
	{
		// Pricing Management
		adminGroup.GET("/pricing/rates", pricingHandler.ListRates)
		adminGroup.PUT("/pricing/rates/:vehicleType", pricingHandler.UpdateRate)

		// Shipment Management
		adminGroup.GET("/shipments", shipmentHandler.ListAllShipments)
		adminGroup.PATCH("/shipments/:shipmentId", shipmentHandler.AdminUpdateShipment)
		adminGroup.POST("/shipments/:shipmentId/reassign", assignHandler.ReassignShipment)

		// Fleet Management
		adminGroup.GET("/fleet", fleetHandler.GetFleet)
		adminGroup.PUT("/fleet/:carrierId/status", fleetHandler.SetCarrierStatus)

		// User Management
		adminGroup.GET("/users", userHandler.ListUsers)
	}
}
