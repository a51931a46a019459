package dashboard

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/exchangerate"
	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/investment"
	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/subscription"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultCashFlowMonths = 6
	maxCashFlowMonths     = 24
	uncategorized         = "Uncategorized"
)

// Quoter resolves conversion paths; *exchangerate.Converter implements it
type Quoter interface {
	Quote(ctx context.Context, from, to valueobject.Currency) (exchangerate.Quote, error)
}

// Repositories groups the read models the dashboard aggregates over
type Repositories struct {
	Accounts      account.AccountRepository
	Transactions  transaction.TransactionRepository
	Subscriptions subscription.SubscriptionRepository
	Investments   investment.InvestmentRepository
	Goals         goal.GoalRepository
	Notifications notification.NotificationRepository
	Categories    category.CategoryRepository
	Settings      settings.SettingsRepository
}

// DashboardService computes analytics in the user's base currency
type DashboardService struct {
	repos  Repositories
	quoter Quoter
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repos Repositories, quoter Quoter) *DashboardService {
	return &DashboardService{repos: repos, quoter: quoter, now: time.Now}
}

// Summary returns net worth, this month's flows and the subscription,
// investment, goal and notification totals
func (s *DashboardService) Summary(ctx context.Context, ownerID uuid.UUID) (*SummaryResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	conv, err := s.converterFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := &SummaryResponse{BaseCurrency: conv.to, AsOf: now}

	if err := s.addAccounts(ctx, ownerID, conv, resp); err != nil {
		return nil, err
	}

	monthStart := startOfMonth(now)
	resp.Month = monthStart.Format("2006-01")
	totals, err := s.repos.Transactions.SumByMonth(ctx, ownerID, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		amount, err := conv.convert(ctx, t.Total, valueobject.Currency(t.Currency))
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case transaction.TransactionTypeIncome:
			resp.MonthIncome = resp.MonthIncome.Add(amount)
		case transaction.TransactionTypeExpense:
			resp.MonthExpense = resp.MonthExpense.Add(amount)
		}
	}
	resp.MonthNet = resp.MonthIncome.Sub(resp.MonthExpense)

	if err := s.addSubscriptions(ctx, ownerID, conv, resp); err != nil {
		return nil, err
	}
	if err := s.addInvestments(ctx, ownerID, conv, resp); err != nil {
		return nil, err
	}
	if err := s.addGoals(ctx, ownerID, conv, resp); err != nil {
		return nil, err
	}

	resp.UnreadNotification, err = s.repos.Notifications.CountForOwner(ctx, ownerID, notification.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *DashboardService) addAccounts(ctx context.Context, ownerID uuid.UUID, conv *baseConverter, resp *SummaryResponse) error {
	accounts, err := shared.CollectPages(shared.Filter{OrderBy: "created_at", OrderDir: "asc"}, func(f shared.Filter) ([]account.Account, error) {
		return s.repos.Accounts.FindAllForOwner(ctx, ownerID, account.AccountFilter{Filter: f})
	})
	if err != nil {
		return err
	}
	for _, a := range accounts {
		amount, err := conv.convert(ctx, a.Balance, a.Currency)
		if err != nil {
			return err
		}
		resp.NetWorth = resp.NetWorth.Add(amount)
	}
	resp.AccountCount = len(accounts)
	return nil
}

func (s *DashboardService) addSubscriptions(ctx context.Context, ownerID uuid.UUID, conv *baseConverter, resp *SummaryResponse) error {
	subs, err := s.repos.Subscriptions.FindActiveForOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range subs {
		amount, err := conv.convert(ctx, subs[i].MonthlyCost().Round(valueobject.MoneyScale), subs[i].Currency)
		if err != nil {
			return err
		}
		resp.SubscriptionMonthlyCost = resp.SubscriptionMonthlyCost.Add(amount)
	}
	resp.ActiveSubscriptions = len(subs)
	return nil
}

func (s *DashboardService) addInvestments(ctx context.Context, ownerID uuid.UUID, conv *baseConverter, resp *SummaryResponse) error {
	holdings, err := shared.CollectPages(shared.Filter{OrderBy: "created_at", OrderDir: "asc"}, func(f shared.Filter) ([]investment.Investment, error) {
		return s.repos.Investments.FindAllForOwner(ctx, ownerID, investment.InvestmentFilter{Filter: f})
	})
	if err != nil {
		return err
	}
	for i := range holdings {
		value, err := conv.convert(ctx, holdings[i].CurrentValue(), holdings[i].Currency)
		if err != nil {
			return err
		}
		cost, err := conv.convert(ctx, holdings[i].CostBasis(), holdings[i].Currency)
		if err != nil {
			return err
		}
		resp.InvestmentValue = resp.InvestmentValue.Add(value)
		resp.InvestmentCost = resp.InvestmentCost.Add(cost)
	}
	resp.InvestmentGain = resp.InvestmentValue.Sub(resp.InvestmentCost)
	return nil
}

func (s *DashboardService) addGoals(ctx context.Context, ownerID uuid.UUID, conv *baseConverter, resp *SummaryResponse) error {
	goals, err := shared.CollectPages(shared.Filter{OrderBy: "created_at", OrderDir: "asc"}, func(f shared.Filter) ([]goal.Goal, error) {
		return s.repos.Goals.FindAllForOwner(ctx, ownerID, goal.GoalFilter{Filter: f})
	})
	if err != nil {
		return err
	}
	for i := range goals {
		saved, err := conv.convert(ctx, goals[i].CurrentAmount, goals[i].Currency)
		if err != nil {
			return err
		}
		target, err := conv.convert(ctx, goals[i].TargetAmount, goals[i].Currency)
		if err != nil {
			return err
		}
		resp.GoalSaved = resp.GoalSaved.Add(saved)
		resp.GoalTarget = resp.GoalTarget.Add(target)
		if goals[i].IsCompleted {
			resp.GoalsCompleted++
		}
	}
	resp.GoalCount = len(goals)
	return nil
}

// SpendingByCategory totals one transaction type per category over a range,
// largest first
func (s *DashboardService) SpendingByCategory(ctx context.Context, ownerID uuid.UUID, q SpendingQuery) (*SpendingResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	from := startOfMonth(now)
	to := from.AddDate(0, 1, 0)
	if q.From != nil {
		from = q.From.UTC()
	}
	if q.To != nil {
		// inclusive end date
		to = q.To.UTC().AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "from must be before to")
	}
	txType := transaction.TransactionTypeExpense
	if q.Type != "" {
		txType = transaction.TransactionType(q.Type)
	}

	conv, err := s.converterFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	totals, err := s.repos.Transactions.SumByCategory(ctx, ownerID, txType, from, to)
	if err != nil {
		return nil, err
	}

	names, err := s.categoryIndex(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uuid.UUID]*CategorySpending)
	var order []uuid.UUID
	sum := decimal.Zero
	for _, t := range totals {
		amount, err := conv.convert(ctx, t.Total, valueobject.Currency(t.Currency))
		if err != nil {
			return nil, err
		}
		key := uuid.Nil
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		entry, ok := byCategory[key]
		if !ok {
			entry = &CategorySpending{CategoryName: uncategorized}
			if key != uuid.Nil {
				id := key
				entry.CategoryID = &id
				if c, found := names[key]; found {
					entry.CategoryName = c.Name
					entry.Color = c.Color
				}
			}
			byCategory[key] = entry
			order = append(order, key)
		}
		entry.Total = entry.Total.Add(amount)
		sum = sum.Add(amount)
	}

	out := make([]CategorySpending, 0, len(order))
	for _, key := range order {
		entry := byCategory[key]
		if sum.IsPositive() {
			entry.Share = entry.Total.Div(sum).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out = append(out, *entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryName < out[j].CategoryName
	})

	return &SpendingResponse{
		BaseCurrency: conv.to,
		From:         from,
		To:           to,
		Type:         string(txType),
		Total:        sum,
		Categories:   out,
	}, nil
}

// CashFlow returns income and expense per month for the trailing window,
// including empty months
func (s *DashboardService) CashFlow(ctx context.Context, ownerID uuid.UUID, q CashFlowQuery) (*CashFlowResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	months := q.Months
	if months <= 0 {
		months = defaultCashFlowMonths
	}
	months = min(months, maxCashFlowMonths)

	conv, err := s.converterFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	end := startOfMonth(s.now().UTC()).AddDate(0, 1, 0)
	start := end.AddDate(0, -months, 0)
	totals, err := s.repos.Transactions.SumByMonth(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	points := make([]CashFlowPoint, months)
	index := make(map[string]int, months)
	for i := range points {
		m := start.AddDate(0, i, 0).Format("2006-01")
		points[i] = CashFlowPoint{Month: m}
		index[m] = i
	}
	for _, t := range totals {
		i, ok := index[t.Month]
		if !ok {
			continue
		}
		amount, err := conv.convert(ctx, t.Total, valueobject.Currency(t.Currency))
		if err != nil {
			return nil, err
		}
		switch t.Type {
		case transaction.TransactionTypeIncome:
			points[i].Income = points[i].Income.Add(amount)
		case transaction.TransactionTypeExpense:
			points[i].Expense = points[i].Expense.Add(amount)
		}
	}
	for i := range points {
		points[i].Net = points[i].Income.Sub(points[i].Expense)
	}

	return &CashFlowResponse{BaseCurrency: conv.to, Months: points}, nil
}

func (s *DashboardService) categoryIndex(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]category.Category, error) {
	cats, err := shared.CollectPages(shared.Filter{OrderBy: "name", OrderDir: "asc"}, func(f shared.Filter) ([]category.Category, error) {
		return s.repos.Categories.FindAllForOwner(ctx, ownerID, category.CategoryFilter{Filter: f})
	})
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]category.Category, len(cats))
	for _, c := range cats {
		index[c.ID] = c
	}
	return index, nil
}

func (s *DashboardService) converterFor(ctx context.Context, ownerID uuid.UUID) (*baseConverter, error) {
	base := valueobject.DefaultCurrency
	prefs, err := s.repos.Settings.FindByOwner(ctx, ownerID)
	switch {
	case err == nil:
		base = prefs.BaseCurrency
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return &baseConverter{quoter: s.quoter, to: base, quotes: make(map[valueobject.Currency]exchangerate.Quote)}, nil
}

// baseConverter memoizes one quote per source currency for a single request
type baseConverter struct {
	quoter Quoter
	to     valueobject.Currency
	quotes map[valueobject.Currency]exchangerate.Quote
}

func (c *baseConverter) convert(ctx context.Context, amount decimal.Decimal, from valueobject.Currency) (decimal.Decimal, error) {
	q, ok := c.quotes[from]
	if !ok {
		var err error
		q, err = c.quoter.Quote(ctx, from, c.to)
		if err != nil {
			return decimal.Zero, err
		}
		c.quotes[from] = q
	}
	return q.Apply(amount), nil
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
