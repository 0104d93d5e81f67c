package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/server/handlers"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
)

// Handlers groups the HTTP adapters mounted under /api.
type Handlers struct {
	Inventory     *handlers.InventoryHandler
	Requests      *handlers.RequestHandler
	Pantries      *handlers.PantryHandler
	Profiles      *handlers.ProfileHandler
	Events        *handlers.EventHandler
	Finance       *handlers.FinanceHandler
	Notifications *handlers.NotificationHandler
	Reports       *handlers.ReportHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	Tokens         middleware.TokenParser
	Metrics        *middleware.Metrics
	AllowedOrigins []string
	// Ready reports whether backing stores are reachable. Nil means always
	// ready.
	Ready func(*gin.Context) error
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	handlers.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", opts.Metrics.Handler())
	}
	r.Use(middleware.Authenticate(opts.Tokens))
	r.Use(middleware.Logger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if opts.Ready != nil {
			if err := opts.Ready(c); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := middleware.RequireAuth()
	api := r.Group("/api")

	inventory := api.Group("/inventory")
	{
		inv := h.Inventory
		inventory.GET("", inv.List)
		inventory.GET("/incoming", inv.ListIncoming)
		inventory.GET("/outgoing", inv.ListOutgoing)
		inventory.POST("", authed, inv.Add)
		inventory.POST("/Incoming", authed, inv.RecordIncoming)
		inventory.POST("/Outgoing", authed, inv.RecordOutgoing)
		inventory.POST("/:id/restock", authed, inv.Restock)
		inventory.POST("/:id/distribute", authed, inv.Distribute)
		inventory.PUT("/:id", authed, inv.Update)
		inventory.DELETE("/:id", authed, inv.Delete)
		inventory.DELETE("", authed, inv.Clear)
	}

	mapGroup := api.Group("/map")
	{
		mapGroup.GET("/pantry/:pantryID", h.Inventory.GetLayout)
		mapGroup.POST("", authed, h.Inventory.SaveLayout)
	}

	requests := api.Group("/requests", authed)
	{
		req := h.Requests
		requests.POST("", req.Add)
		requests.GET("/mine", req.ListMine)
		requests.GET("/pantry/:pantryID", req.ListByPantry)
		requests.PUT("/complete", req.Complete)
		requests.PUT("/incomplete", req.Incomplete)
		requests.PUT("/update/:profileID/:pantryID/:itemName", req.Update)
		requests.DELETE("/:profileID/:pantryID/:itemName", req.Delete)
	}

	pantries := api.Group("/pantries")
	{
		p := h.Pantries
		pantries.GET("", p.List)
		pantries.GET("/all", p.ListInfo)
		pantries.GET("/:id", p.Get)
		pantries.GET("/:id/email", p.InfoField("email", "Email", func(i models.PantryInfo) string { return i.Email }))
		pantries.GET("/:id/name", p.InfoField("name", "name", func(i models.PantryInfo) string { return i.Name }))
		pantries.GET("/:id/location", p.InfoField("location", "location", func(i models.PantryInfo) string { return i.Location }))
		pantries.GET("/:id/phone", p.InfoField("phone", "phone", func(i models.PantryInfo) string { return i.Phone }))
		pantries.POST("", authed, p.Create)
		pantries.POST("/verify-access-code", authed, p.VerifyAccessCode)
		pantries.POST("/:id/contact", authed, h.Notifications.ContactPantry)
		pantries.PUT("/:id", authed, p.Update)
		pantries.PUT("/:id/info", authed, p.SaveInfo)
		pantries.DELETE("/:id", authed, p.Delete)
	}

	profiles := api.Group("/profiles")
	{
		pr := h.Profiles
		profiles.GET("", authed, pr.List)
		profiles.GET("/:id", authed, pr.Get)
		profiles.POST("", pr.SignIn)
		profiles.PUT("/:id", authed, pr.Update)
		profiles.DELETE("/:id", authed, pr.Delete)
	}

	pantryUsers := api.Group("/pantry-users")
	{
		pr := h.Profiles
		pantryUsers.GET("", pr.ListPantryUsers)
		pantryUsers.GET("/:id/profiles", authed, pr.ListMembers)
		pantryUsers.GET("/:id/subscriptions", pr.Subscriptions)
		pantryUsers.POST("", authed, pr.AddPantryUser)
		pantryUsers.DELETE("/:profileID/:pantryID", authed, pr.RemovePantryUser)
		pantryUsers.PUT("/:profileID/:pantryID/authority", authed, pr.UpdateAuthority)
	}

	subscriptions := api.Group("/subscriptions/profile")
	{
		pr := h.Profiles
		subscriptions.GET("/:id/subscriptions", pr.Subscriptions)
		subscriptions.GET("/:id/emails", authed, pr.SubscriberEmails)
		subscriptions.GET("/:id/profileID", authed, pr.SubscriberProfileIDs)
	}

	events := api.Group("/events")
	{
		ev := h.Events
		events.GET("/pantry/:pantryID", ev.List)
		events.POST("", authed, ev.Create)
		events.PUT("/:eventID", authed, ev.Update)
		events.DELETE("/:eventID", authed, ev.Delete)
	}

	finance := api.Group("/finance", authed)
	{
		fin := h.Finance
		finance.GET("/:pantryID", fin.List)
		finance.GET("/:pantryID/summary", fin.Summary)
		finance.POST("/:pantryID", fin.Create)
		finance.PUT("/:id", fin.Update)
		finance.DELETE("/:id", fin.Delete)
	}

	notifications := api.Group("/notifications", authed)
	{
		n := h.Notifications
		notifications.GET("", n.ListForPantry)
		notifications.GET("/:profileID", n.ListForProfile)
		notifications.POST("", n.Add)
		notifications.DELETE("/:notificationID", n.Delete)
		notifications.PATCH("/:profileID", n.MarkAllRead)
	}

	reports := api.Group("/reports", authed)
	{
		rep := h.Reports
		reports.GET("/expiry/:pantryID", rep.Expiry)
		reports.GET("/popular/:pantryID", rep.Popular)
		reports.GET("/finance/:pantryID", h.Finance.Summary)
		reports.GET("/inventory/:pantryID/export", rep.ExportInventory)
		reports.GET("/snapshot/:pantryID", rep.Snapshot)
	}

	recipes := api.Group("/recipes")
	{
		rep := h.Reports
		recipes.GET("/random", rep.RandomRecipe)
		recipes.GET("/suggest", rep.SuggestRecipes)
		recipes.POST("/generate", authed, rep.GenerateRecipe)
	}

	logger.Info("router initialized")
	return r
}
