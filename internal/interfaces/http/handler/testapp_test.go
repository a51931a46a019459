package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	accountapp "github.com/fintrack/backend/internal/application/account"
	activityapp "github.com/fintrack/backend/internal/application/activity"
	categoryapp "github.com/fintrack/backend/internal/application/category"
	dashboardapp "github.com/fintrack/backend/internal/application/dashboard"
	rateapp "github.com/fintrack/backend/internal/application/exchangerate"
	goalapp "github.com/fintrack/backend/internal/application/goal"
	investmentapp "github.com/fintrack/backend/internal/application/investment"
	notificationapp "github.com/fintrack/backend/internal/application/notification"
	settingsapp "github.com/fintrack/backend/internal/application/settings"
	subapp "github.com/fintrack/backend/internal/application/subscription"
	txnapp "github.com/fintrack/backend/internal/application/transaction"
	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"github.com/fintrack/backend/internal/infrastructure/event"
	"github.com/fintrack/backend/internal/infrastructure/persistence"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testOwnerHeader stands in for the JWT middleware in handler tests
const testOwnerHeader = "X-Test-Owner"

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	bus    *event.InMemoryEventBus

	settings *settingsapp.SettingsService
	rates    *rateapp.ExchangeRateService
}

// newTestApp wires every resource handler over a migrated in-memory sqlite
// database
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	database, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = database.Close() })
	db := database.DB
	log := zap.NewNop()

	accountRepo := persistence.NewGormAccountRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	txnRepo := persistence.NewGormTransactionRepository(db)
	subRepo := persistence.NewGormSubscriptionRepository(db)
	goalRepo := persistence.NewGormGoalRepository(db)
	investmentRepo := persistence.NewGormInvestmentRepository(db)
	snapshotRepo := persistence.NewGormSnapshotRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	settingsRepo := persistence.NewGormSettingsRepository(db)
	activityRepo := persistence.NewGormActivityRepository(db)
	rateRepo := persistence.NewGormExchangeRateRepository(db)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(activityapp.NewRecorder(activityRepo, log))
	bus.Subscribe(notificationapp.NewGoalCompletedHandler(notificationRepo, log))

	converter := exchangerate.NewConverter(rateRepo)

	accountService := accountapp.NewAccountService(accountRepo)
	accountService.SetEventPublisher(bus)
	categoryService := categoryapp.NewCategoryService(categoryRepo)
	categoryService.SetEventPublisher(bus)
	txnService := txnapp.NewTransactionService(txnRepo, accountRepo, categoryRepo, converter)
	txnService.SetEventPublisher(bus)
	csvService := txnapp.NewCSVService(txnService, txnRepo, accountRepo, categoryRepo, nil, log)
	statementService := txnapp.NewStatementService(txnRepo, accountRepo, categoryRepo, settingsRepo, nil, log)
	renewals := subapp.NewRenewalService(subRepo, accountRepo, notificationRepo, settingsRepo, converter, log, subapp.DefaultRenewalConfig())
	renewals.SetEventPublisher(bus)
	subService := subapp.NewSubscriptionService(subRepo, accountRepo, categoryRepo, renewals)
	subService.SetEventPublisher(bus)
	goalService := goalapp.NewGoalService(goalRepo)
	goalService.SetEventPublisher(bus)
	investmentService := investmentapp.NewInvestmentService(investmentRepo, snapshotRepo)
	investmentService.SetEventPublisher(bus)
	notificationService := notificationapp.NewNotificationService(notificationRepo)
	settingsService := settingsapp.NewSettingsService(settingsRepo)
	activityService := activityapp.NewActivityService(activityRepo, log)
	rateService := rateapp.NewExchangeRateService(rateRepo, converter, log)
	dashboardService := dashboardapp.NewDashboardService(dashboardapp.Repositories{
		Accounts:      accountRepo,
		Transactions:  txnRepo,
		Subscriptions: subRepo,
		Investments:   investmentRepo,
		Goals:         goalRepo,
		Notifications: notificationRepo,
		Categories:    categoryRepo,
		Settings:      settingsRepo,
	}, converter)

	router := gin.New()
	router.Use(middleware.RequestID(), func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader(testOwnerHeader)); err == nil {
			middleware.SetOwnerID(c, id)
		}
		c.Next()
	})
	api := router.Group("/api/v1")

	accounts := NewAccountHandler(accountService)
	api.GET("/accounts", accounts.List)
	api.POST("/accounts", accounts.Create)
	api.GET("/accounts/:id", accounts.Get)
	api.PUT("/accounts/:id", accounts.Update)
	api.DELETE("/accounts/:id", accounts.Delete)
	api.POST("/accounts/:id/archive", accounts.Archive)
	api.POST("/accounts/:id/unarchive", accounts.Unarchive)
	api.POST("/accounts/:id/adjust-balance", accounts.AdjustBalance)

	categories := NewCategoryHandler(categoryService)
	api.GET("/categories", categories.List)
	api.POST("/categories", categories.Create)
	api.GET("/categories/:id", categories.Get)
	api.PUT("/categories/:id", categories.Update)
	api.DELETE("/categories/:id", categories.Delete)

	txns := NewTransactionHandler(txnService, csvService, statementService)
	api.GET("/transactions", txns.List)
	api.POST("/transactions", txns.Create)
	api.GET("/transactions/export", txns.Export)
	api.POST("/transactions/export/upload", txns.UploadExport)
	api.POST("/transactions/import", txns.Import)
	api.GET("/transactions/statement", txns.Statement)
	api.GET("/transactions/:id", txns.Get)
	api.PUT("/transactions/:id", txns.Update)
	api.DELETE("/transactions/:id", txns.Delete)

	subs := NewSubscriptionHandler(subService)
	api.GET("/subscriptions", subs.List)
	api.GET("/subscriptions/upcoming", subs.Upcoming)
	api.POST("/subscriptions", subs.Create)
	api.GET("/subscriptions/:id", subs.Get)
	api.PUT("/subscriptions/:id", subs.Update)
	api.DELETE("/subscriptions/:id", subs.Delete)
	api.POST("/subscriptions/:id/pause", subs.Pause)
	api.POST("/subscriptions/:id/resume", subs.Resume)
	api.POST("/subscriptions/:id/cancel", subs.Cancel)
	api.POST("/subscriptions/:id/renew", subs.Renew)

	goals := NewGoalHandler(goalService)
	api.GET("/goals", goals.List)
	api.POST("/goals", goals.Create)
	api.GET("/goals/:id", goals.Get)
	api.PUT("/goals/:id", goals.Update)
	api.DELETE("/goals/:id", goals.Delete)
	api.POST("/goals/:id/contribute", goals.Contribute)
	api.POST("/goals/:id/withdraw", goals.Withdraw)

	investments := NewInvestmentHandler(investmentService)
	api.GET("/investments", investments.List)
	api.POST("/investments", investments.Create)
	api.GET("/investments/:id", investments.Get)
	api.PUT("/investments/:id", investments.Update)
	api.DELETE("/investments/:id", investments.Delete)
	api.PUT("/investments/:id/price", investments.UpdatePrice)
	api.GET("/investments/:id/snapshots", investments.Snapshots)

	notifications := NewNotificationHandler(notificationService)
	api.GET("/notifications", notifications.List)
	api.GET("/notifications/unread-count", notifications.UnreadCount)
	api.POST("/notifications/read-all", notifications.MarkAllRead)
	api.POST("/notifications/:id/read", notifications.MarkRead)
	api.DELETE("/notifications/:id", notifications.Delete)

	settingsHandler := NewSettingsHandler(settingsService)
	api.GET("/settings", settingsHandler.Get)
	api.PUT("/settings", settingsHandler.Update)

	rateHandler := NewExchangeRateHandler(rateService)
	api.GET("/exchange-rates", rateHandler.List)
	api.PUT("/exchange-rates", rateHandler.Upsert)
	api.GET("/exchange-rates/convert", rateHandler.Convert)
	api.POST("/exchange-rates/refresh", rateHandler.Refresh)

	api.GET("/activities", NewActivityHandler(activityService).List)

	dashboard := NewDashboardHandler(dashboardService)
	api.GET("/dashboard/summary", dashboard.Summary)
	api.GET("/dashboard/spending-by-category", dashboard.SpendingByCategory)
	api.GET("/dashboard/cash-flow", dashboard.CashFlow)

	return &testApp{
		t:        t,
		db:       db,
		router:   router,
		bus:      bus,
		settings: settingsService,
		rates:    rateService,
	}
}

// do sends a request as owner. body may be nil, a string sent verbatim, or a
// value encoded as JSON. A nil owner sends no identity.
func (a *testApp) do(method, path string, owner uuid.UUID, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if owner != uuid.Nil {
		req.Header.Set(testOwnerHeader, owner.String())
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// serve sends a prepared request as owner
func (a *testApp) serve(req *http.Request, owner uuid.UUID) *httptest.ResponseRecorder {
	if owner != uuid.Nil {
		req.Header.Set(testOwnerHeader, owner.String())
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// decode unwraps the response envelope, checking the status first
func decode[T any](t *testing.T, w *httptest.ResponseRecorder, status int) envelope[T] {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// errorCode asserts the status and returns the API error code
func errorCode(t *testing.T, w *httptest.ResponseRecorder, status int) string {
	t.Helper()
	env := decode[json.RawMessage](t, w, status)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error.Code
}

// createAccount opens an account through the API
func (a *testApp) createAccount(owner uuid.UUID, name, currency, opening string) accountapp.AccountResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/accounts", owner, map[string]any{
		"name":            name,
		"type":            "checking",
		"currency":        currency,
		"opening_balance": opening,
	})
	return decode[accountapp.AccountResponse](a.t, w, http.StatusCreated).Data
}

// createCategory adds a category through the API
func (a *testApp) createCategory(owner uuid.UUID, name, kind string) categoryapp.CategoryResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/categories", owner, map[string]any{"name": name, "type": kind})
	return decode[categoryapp.CategoryResponse](a.t, w, http.StatusCreated).Data
}
