package router

import (
	"github.com/fintrack/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers holds every API handler. AuthGuard runs in front of the
// credential endpoints, typically a stricter rate limit.
type Handlers struct {
	Auth         *handler.AuthHandler
	Account      *handler.AccountHandler
	Category     *handler.CategoryHandler
	Transaction  *handler.TransactionHandler
	Subscription *handler.SubscriptionHandler
	Goal         *handler.GoalHandler
	Investment   *handler.InvestmentHandler
	Notification *handler.NotificationHandler
	Settings     *handler.SettingsHandler
	ExchangeRate *handler.ExchangeRateHandler
	Activity     *handler.ActivityHandler
	Dashboard    *handler.DashboardHandler
	System       *handler.SystemHandler

	AuthGuard []gin.HandlerFunc
}

// Groups returns the API route groups
func (h Handlers) Groups() []*DomainGroup {
	auth := NewDomainGroup("auth", "/auth").Use(h.AuthGuard...)
	auth.POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/password", h.Auth.ChangePassword)

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.GET("", h.Account.List).
		POST("", h.Account.Create).
		GET("/:id", h.Account.Get).
		PUT("/:id", h.Account.Update).
		DELETE("/:id", h.Account.Delete).
		POST("/:id/archive", h.Account.Archive).
		POST("/:id/unarchive", h.Account.Unarchive).
		POST("/:id/adjust-balance", h.Account.AdjustBalance)

	categories := NewDomainGroup("categories", "/categories")
	categories.GET("", h.Category.List).
		POST("", h.Category.Create).
		GET("/:id", h.Category.Get).
		PUT("/:id", h.Category.Update).
		DELETE("/:id", h.Category.Delete)

	// static segments are registered before /:id
	transactions := NewDomainGroup("transactions", "/transactions")
	transactions.GET("", h.Transaction.List).
		POST("", h.Transaction.Create).
		GET("/export", h.Transaction.Export).
		POST("/export/upload", h.Transaction.UploadExport).
		POST("/import", h.Transaction.Import).
		GET("/statement", h.Transaction.Statement).
		GET("/:id", h.Transaction.Get).
		PUT("/:id", h.Transaction.Update).
		DELETE("/:id", h.Transaction.Delete)

	subscriptions := NewDomainGroup("subscriptions", "/subscriptions")
	subscriptions.GET("", h.Subscription.List).
		GET("/upcoming", h.Subscription.Upcoming).
		POST("", h.Subscription.Create).
		GET("/:id", h.Subscription.Get).
		PUT("/:id", h.Subscription.Update).
		DELETE("/:id", h.Subscription.Delete).
		POST("/:id/pause", h.Subscription.Pause).
		POST("/:id/resume", h.Subscription.Resume).
		POST("/:id/cancel", h.Subscription.Cancel).
		POST("/:id/renew", h.Subscription.Renew)

	goals := NewDomainGroup("goals", "/goals")
	goals.GET("", h.Goal.List).
		POST("", h.Goal.Create).
		GET("/:id", h.Goal.Get).
		PUT("/:id", h.Goal.Update).
		DELETE("/:id", h.Goal.Delete).
		POST("/:id/contribute", h.Goal.Contribute).
		POST("/:id/withdraw", h.Goal.Withdraw)

	investments := NewDomainGroup("investments", "/investments")
	investments.GET("", h.Investment.List).
		POST("", h.Investment.Create).
		GET("/:id", h.Investment.Get).
		PUT("/:id", h.Investment.Update).
		DELETE("/:id", h.Investment.Delete).
		PUT("/:id/price", h.Investment.UpdatePrice).
		GET("/:id/snapshots", h.Investment.Snapshots)

	notifications := NewDomainGroup("notifications", "/notifications")
	notifications.GET("", h.Notification.List).
		GET("/unread-count", h.Notification.UnreadCount).
		POST("/read-all", h.Notification.MarkAllRead).
		POST("/:id/read", h.Notification.MarkRead).
		DELETE("/:id", h.Notification.Delete)

	settings := NewDomainGroup("settings", "/settings")
	settings.GET("", h.Settings.Get).
		PUT("", h.Settings.Update)

	rates := NewDomainGroup("exchange-rates", "/exchange-rates")
	rates.GET("", h.ExchangeRate.List).
		PUT("", h.ExchangeRate.Upsert).
		GET("/convert", h.ExchangeRate.Convert).
		POST("/refresh", h.ExchangeRate.Refresh)

	activities := NewDomainGroup("activities", "/activities")
	activities.GET("", h.Activity.List)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("/summary", h.Dashboard.Summary).
		GET("/spending-by-category", h.Dashboard.SpendingByCategory).
		GET("/cash-flow", h.Dashboard.CashFlow)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health).
		GET("/system/info", h.System.GetSystemInfo).
		GET("/system/ping", h.System.Ping)

	return []*DomainGroup{
		auth, accounts, categories, transactions, subscriptions, goals,
		investments, notifications, settings, rates, activities, dashboard, system,
	}
}

// PublicPaths lists the API paths served without a bearer token
func PublicPaths(prefix string) []string {
	return []string{
		prefix + "/health",
		prefix + "/auth/register",
		prefix + "/auth/login",
		prefix + "/auth/refresh",
		prefix + "/system/info",
		prefix + "/system/ping",
	}
}

// Mount registers every group from h on r and wires the routes
func Mount(r *Router, h Handlers) {
	for _, g := range h.Groups() {
		r.Register(g)
	}
	r.Setup()
}
