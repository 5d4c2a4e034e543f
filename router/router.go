package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/config"
	"github.com/yeremiapane/taplink-saas/controllers"
	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/services"
)

// Deps is everything the HTTP layer needs. Nil Locker and Hub get in-process
// defaults; a nil Notifier sends nothing.
type Deps struct {
	DB       *gorm.DB
	Config   config.Config
	Locker   services.BookingLocker
	Notifier services.ReservationNotifier
	Hub      *hub.Hub
}

func SetupRouter(deps Deps) *gin.Engine {
	if deps.Hub == nil {
		deps.Hub = hub.New()
	}
	cfg := deps.Config
	secret := []byte(cfg.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.GinMode == gin.ReleaseMode))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowedOrigins))

	tenants := services.NewTenantService(deps.DB)
	plans := services.NewFloorPlanService(deps.DB)
	reservations := services.NewReservationService(deps.DB, plans, deps.Locker, deps.Notifier)

	bookingCtrl := controllers.NewBookingController(deps.DB, tenants, reservations, deps.Hub)
	reservationCtrl := controllers.NewReservationController(reservations, tenants, deps.Hub)
	planCtrl := controllers.NewFloorPlanController(plans, deps.Hub)
	categoryCtrl := controllers.NewMenuCategoryController(deps.DB)
	menuCtrl := controllers.NewMenuController(deps.DB)
	pageCtrl := controllers.NewClientPageController(deps.DB)
	integrationCtrl := controllers.NewIntegrationController(deps.DB)
	wsCtrl := controllers.NewWSController(deps.Hub, cfg.CORSAllowedOrigins)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC TAPLINK
	// ----------------------------------------------------------------
	limiter := middlewares.NewRateLimiter(cfg.PublicRateLimit, cfg.PublicRateBurst)
	public := r.Group("/t/:slug")
	public.Use(limiter.RateLimit())
	{
		public.GET("", bookingCtrl.GetPage)
		public.GET("/menu", bookingCtrl.GetMenu)
		public.GET("/availability", bookingCtrl.GetAvailability)
		public.POST("/reservations", bookingCtrl.CreateBooking)
		public.POST("/reservations/:token/cancel", bookingCtrl.CancelBooking)
	}

	// Browsers cannot set headers on websocket upgrades.
	r.GET("/admin/ws", middlewares.WebSocketAuthMiddleware(secret), wsCtrl.Dashboard)

	// ----------------------------------------------------------------
	//                      ADMIN (any role)
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(secret))

	admin.GET("/reservations", reservationCtrl.ListReservations)
	admin.GET("/reservations/export", reservationCtrl.ExportReservations)
	admin.POST("/reservations", reservationCtrl.CreateReservation)
	admin.GET("/reservations/:id", reservationCtrl.GetReservation)
	admin.PATCH("/reservations/:id", reservationCtrl.UpdateReservation)
	admin.PATCH("/reservations/:id/status", reservationCtrl.UpdateReservationStatus)
	admin.DELETE("/reservations/:id", reservationCtrl.DeleteReservation)

	admin.GET("/floor-plans", planCtrl.ListPlans)
	admin.GET("/floor-plans/active", planCtrl.GetActivePlan)
	admin.GET("/floor-plans/:id", planCtrl.GetPlan)

	admin.GET("/menu/categories", categoryCtrl.GetAllCategories)
	admin.GET("/menu/categories/:cat_id", categoryCtrl.GetCategoryByID)
	admin.GET("/menu/items", menuCtrl.GetAllMenus)
	admin.GET("/menu/items/:menu_id", menuCtrl.GetMenuByID)

	admin.GET("/client-page", pageCtrl.GetClientPage)

	// ----------------------------------------------------------------
	//                      ADMIN (owner / manager)
	// ----------------------------------------------------------------
	manage := admin.Group("")
	manage.Use(middlewares.RequireRole(middlewares.RoleOwner, middlewares.RoleManager))

	manage.POST("/floor-plans", planCtrl.CreatePlan)
	manage.POST("/floor-plans/:id/activate", planCtrl.ActivatePlan)
	manage.PUT("/floor-plans/:id/layout", planCtrl.SaveLayout)
	manage.POST("/floor-plans/:id/tables/next", planCtrl.NextTable)
	manage.DELETE("/floor-plans/:id", planCtrl.DeletePlan)

	manage.POST("/menu/categories", categoryCtrl.CreateCategory)
	manage.PUT("/menu/categories/:cat_id", categoryCtrl.UpdateCategory)
	manage.DELETE("/menu/categories/:cat_id", categoryCtrl.DeleteCategory)
	manage.POST("/menu/items", menuCtrl.CreateMenu)
	manage.PUT("/menu/items/:menu_id", menuCtrl.UpdateMenu)
	manage.DELETE("/menu/items/:menu_id", menuCtrl.DeleteMenu)

	manage.PUT("/client-page", pageCtrl.UpdateClientPage)

	manage.GET("/integrations", integrationCtrl.GetIntegrations)
	manage.PUT("/integrations/:kind", integrationCtrl.UpdateIntegration)

	return r
}
