package transaction

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/settings"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/pdf"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrPDFUnavailable is returned when statement printing is not configured
var ErrPDFUnavailable = shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured")

//go:embed statement.html.tmpl
var statementLayout string

var statementTemplate = template.Must(template.New("statement").Funcs(template.FuncMap{
	"date":      func(t time.Time) string { return t.Format("2006-01-02") },
	"dayBefore": func(t time.Time) time.Time { return t.AddDate(0, 0, -1) },
}).Parse(statementLayout))

// PDFRenderer prints HTML documents
type PDFRenderer interface {
	Render(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// StatementService builds monthly account statements
type StatementService struct {
	txnRepo      transaction.TransactionRepository
	accountRepo  account.AccountRepository
	categoryRepo category.CategoryRepository
	settingsRepo settings.SettingsRepository
	renderer     PDFRenderer
	logger       *zap.Logger
	now          func() time.Time
}

// NewStatementService creates a StatementService. renderer may be nil, in
// which case PDF returns ErrPDFUnavailable and only HTML is served.
func NewStatementService(
	txnRepo transaction.TransactionRepository,
	accountRepo account.AccountRepository,
	categoryRepo category.CategoryRepository,
	settingsRepo settings.SettingsRepository,
	renderer PDFRenderer,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		logger:       logger,
		now:          time.Now,
	}
}

// Build computes the statement of one account for one calendar month (UTC).
// Balances are derived backwards from the current balance through the
// recorded entries.
func (s *StatementService) Build(ctx context.Context, ownerID uuid.UUID, q StatementQuery) (*Statement, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(q.AccountID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_ID", "account_id must be a UUID")
	}
	start, err := time.Parse("2006-01", q.Month)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_MONTH", "month must be formatted as YYYY-MM")
	}
	end := start.AddDate(0, 1, 0)

	acct, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	later, err := s.entries(ctx, ownerID, acct.ID, &end, nil)
	if err != nil {
		return nil, err
	}
	last := end.Add(-time.Nanosecond)
	inPeriod, err := s.entries(ctx, ownerID, acct.ID, &start, &last)
	if err != nil {
		return nil, err
	}

	closing := acct.Balance
	for i := range later {
		closing = closing.Sub(deltaFor(&later[i], acct.ID))
	}
	opening := closing
	for i := range inPeriod {
		opening = opening.Sub(deltaFor(&inPeriod[i], acct.ID))
	}

	categoryNames, err := s.categoryNames(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{
		AccountID:      acct.ID,
		AccountName:    acct.Name,
		Currency:       acct.Currency.String(),
		PeriodStart:    start,
		PeriodEnd:      end,
		OpeningBalance: opening.Round(2),
		ClosingBalance: closing.Round(2),
		TotalIn:        decimal.Zero,
		TotalOut:       decimal.Zero,
		GeneratedAt:    s.now().UTC(),
		Lines:          make([]StatementLine, 0, len(inPeriod)),
	}
	running := opening
	for i := range inPeriod {
		t := &inPeriod[i]
		amount := deltaFor(t, acct.ID)
		running = running.Add(amount)
		if amount.IsPositive() {
			stmt.TotalIn = stmt.TotalIn.Add(amount)
		} else {
			stmt.TotalOut = stmt.TotalOut.Add(amount.Neg())
		}
		line := StatementLine{
			Date:        t.Date,
			Type:        t.Type.String(),
			Description: t.Description,
			Amount:      amount.Round(2),
			Balance:     running.Round(2),
		}
		if t.CategoryID != nil {
			line.Category = categoryNames[*t.CategoryID]
		}
		stmt.Lines = append(stmt.Lines, line)
	}
	stmt.TotalIn = stmt.TotalIn.Round(2)
	stmt.TotalOut = stmt.TotalOut.Round(2)
	return stmt, nil
}

// HTML renders the statement as a standalone HTML page
func (s *StatementService) HTML(ctx context.Context, ownerID uuid.UUID, q StatementQuery) ([]byte, *Statement, error) {
	stmt, err := s.Build(ctx, ownerID, q)
	if err != nil {
		return nil, nil, err
	}
	locale := "en-US"
	if prefs, err := s.settingsRepo.FindByOwner(ctx, ownerID); err == nil && prefs.Locale != "" {
		locale = prefs.Locale
	}
	out, err := renderStatement(stmt, locale)
	if err != nil {
		return nil, nil, err
	}
	return out, stmt, nil
}

// PDF prints the statement through the configured renderer
func (s *StatementService) PDF(ctx context.Context, ownerID uuid.UUID, q StatementQuery) ([]byte, *Statement, error) {
	if s.renderer == nil {
		return nil, nil, ErrPDFUnavailable
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "statement_pdf")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOwnerID, ownerID.String(), telemetry.SpanAttrAccountID, q.AccountID)

	page, stmt, err := s.HTML(ctx, ownerID, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}
	out, err := s.renderer.Render(ctx, pdf.Document{
		Title:      stmt.Title(),
		HTML:       page,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, fmt.Errorf("print statement: %w", err)
	}
	s.logger.Info("Statement printed",
		zap.String("owner_id", ownerID.String()),
		zap.String("account_id", stmt.AccountID.String()),
		zap.String("month", q.Month),
		zap.Int("lines", len(stmt.Lines)))
	return out, stmt, nil
}

func (s *StatementService) entries(ctx context.Context, ownerID, accountID uuid.UUID, from, to *time.Time) ([]transaction.Transaction, error) {
	base := transaction.TransactionFilter{
		Filter:    shared.Filter{OrderBy: "date", OrderDir: "asc"},
		AccountID: &accountID,
		FromDate:  from,
		ToDate:    to,
	}
	return shared.CollectPages(base.Filter, func(f shared.Filter) ([]transaction.Transaction, error) {
		tf := base
		tf.Filter = f
		return s.txnRepo.FindAllForOwner(ctx, ownerID, tf)
	})
}

func (s *StatementService) categoryNames(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]string, error) {
	cats, err := shared.CollectPages(shared.Filter{}, func(f shared.Filter) ([]category.Category, error) {
		return s.categoryRepo.FindAllForOwner(ctx, ownerID, category.CategoryFilter{Filter: f})
	})
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names, nil
}

// deltaFor is the signed amount t moved on accountID
func deltaFor(t *transaction.Transaction, accountID uuid.UUID) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range t.BalanceDeltas() {
		if d.AccountID == accountID {
			sum = sum.Add(d.Amount)
		}
	}
	return sum
}

type statementView struct {
	*Statement
	Money func(decimal.Decimal) string
}

func renderStatement(stmt *Statement, locale string) ([]byte, error) {
	cur := valueobject.Currency(stmt.Currency)
	view := statementView{
		Statement: stmt,
		Money:     func(d decimal.Decimal) string { return cur.Format(d, locale) },
	}
	var buf bytes.Buffer
	if err := statementTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}
