package transaction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/fintrack/backend/internal/domain/account"
	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/csvio"
	"github.com/fintrack/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImportRows bounds a single import file
const MaxImportRows = 5000

// categoryMatchRatio is the largest edit distance, relative to the longer
// name, that still counts as the same category
const categoryMatchRatio = 0.4

// ErrStorageUnavailable is returned when export upload is not configured
var ErrStorageUnavailable = shared.NewDomainError("STORAGE_UNAVAILABLE", "Export storage is not configured")

// ObjectStorage keeps exported files and hands out download links
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// CSVService exports a user's ledger to CSV and imports CSV files into an account
type CSVService struct {
	transactions *TransactionService
	txnRepo      transaction.TransactionRepository
	accountRepo  account.AccountRepository
	categoryRepo category.CategoryRepository
	storage      ObjectStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewCSVService creates a CSVService. storage may be nil, in which case
// UploadExport returns ErrStorageUnavailable.
func NewCSVService(
	transactions *TransactionService,
	txnRepo transaction.TransactionRepository,
	accountRepo account.AccountRepository,
	categoryRepo category.CategoryRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *CSVService {
	return &CSVService{
		transactions: transactions,
		txnRepo:      txnRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		logger:       logger,
		now:          time.Now,
	}
}

// Export renders every matching entry as CSV, oldest first
func (s *CSVService) Export(ctx context.Context, ownerID uuid.UUID, q ExportQuery) ([]byte, int, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, 0, err
	}
	if q.FromDate != nil && q.ToDate != nil && q.ToDate.Before(*q.FromDate) {
		return nil, 0, shared.NewDomainError("INVALID_DATE_RANGE", "to_date must not be before from_date")
	}

	base := transaction.TransactionFilter{
		Filter:    shared.Filter{OrderBy: "date", OrderDir: "asc"},
		AccountID: shared.OptionalID(q.AccountID),
		FromDate:  q.FromDate,
		ToDate:    q.ToDate,
	}
	txns, err := shared.CollectPages(base.Filter, func(f shared.Filter) ([]transaction.Transaction, error) {
		tf := base
		tf.Filter = f
		return s.txnRepo.FindAllForOwner(ctx, ownerID, tf)
	})
	if err != nil {
		return nil, 0, err
	}

	accounts, err := shared.CollectPages(shared.Filter{}, func(f shared.Filter) ([]account.Account, error) {
		return s.accountRepo.FindAllForOwner(ctx, ownerID, account.AccountFilter{Filter: f, IncludeArchived: true})
	})
	if err != nil {
		return nil, 0, err
	}
	accountNames := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}

	categories, err := s.categories(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	categoryNames := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	records := make([]csvio.ExportRecord, len(txns))
	for i, t := range txns {
		rec := csvio.ExportRecord{
			Date:            t.Date,
			Type:            t.Type.String(),
			Amount:          t.Amount,
			Currency:        t.Currency.String(),
			ConvertedAmount: t.ConvertedAmount,
			Account:         accountNames[t.AccountID],
			Description:     t.Description,
			Notes:           t.Notes,
		}
		if t.DestinationAccountID != nil {
			rec.DestinationAccount = accountNames[*t.DestinationAccountID]
		}
		if t.CategoryID != nil {
			rec.Category = categoryNames[*t.CategoryID]
		}
		records[i] = rec
	}

	var buf bytes.Buffer
	if err := csvio.WriteTransactions(&buf, records); err != nil {
		return nil, 0, fmt.Errorf("failed to write export: %w", err)
	}
	return buf.Bytes(), len(records), nil
}

// UploadExport stores the export in object storage and returns a presigned link
func (s *CSVService) UploadExport(ctx context.Context, ownerID uuid.UUID, q ExportQuery) (*ExportUploadResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	data, rows, err := s.Export(ctx, ownerID, q)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/transactions-%s.csv", ownerID, s.now().UTC().Format("20060102T150405Z"))
	if err := s.storage.Upload(ctx, key, data, "text/csv"); err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.PresignDownload(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Transaction export uploaded",
		zap.String("owner_id", ownerID.String()),
		zap.String("key", key),
		zap.Int("rows", rows))

	return &ExportUploadResponse{Key: key, URL: url, ExpiresAt: expiresAt, Rows: rows}, nil
}

// Import reads a CSV file into one account. Rows that fail to parse or are
// rejected by validation are reported and the rest are still recorded.
func (s *CSVService) Import(ctx context.Context, ownerID, accountID uuid.UUID, r io.Reader) (*ImportResponse, error) {
	if err := shared.RequireOwner(ownerID); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "import")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOwnerID, ownerID.String(),
		telemetry.SpanAttrAccountID, accountID.String(),
	)

	acct, err := s.accountRepo.FindByIDForOwner(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	if err := acct.EnsureActive(); err != nil {
		return nil, err
	}

	parsed, err := csvio.ParseTransactions(r, MaxImportRows)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}
	categories, err := s.categories(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	resp := &ImportResponse{}
	for _, rec := range parsed.Records {
		req := TransactionRequest{
			AccountID:   acct.ID,
			Type:        rec.Type,
			Amount:      rec.Amount,
			Currency:    rec.Currency,
			Description: rec.Description,
			Notes:       rec.Notes,
			Date:        rec.Date,
		}
		if rec.Category != "" {
			if c := matchCategory(categories, rec.Category, category.CategoryType(rec.Type)); c != nil {
				req.CategoryID = &c.ID
			} else {
				resp.Uncategorized++
			}
		}

		if _, err := s.transactions.Create(ctx, ownerID, req); err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) {
				return nil, err
			}
			parsed.Errors.Add(csvio.NewRowError(rec.Line, "", csvio.ErrCodeRejected, de.Message))
			continue
		}
		resp.Imported++
	}

	resp.Failed = parsed.Errors.TotalCount()
	resp.Errors = parsed.Errors.Errors()
	resp.ErrorsTruncated = parsed.Errors.IsTruncated()
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, resp.Imported, "failed", resp.Failed)
	s.logger.Info("Transactions imported",
		zap.String("owner_id", ownerID.String()),
		zap.String("account_id", acct.ID.String()),
		zap.Int("imported", resp.Imported),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

func (s *CSVService) categories(ctx context.Context, ownerID uuid.UUID) ([]category.Category, error) {
	return shared.CollectPages(shared.Filter{OrderBy: "name", OrderDir: "asc"}, func(f shared.Filter) ([]category.Category, error) {
		return s.categoryRepo.FindAllForOwner(ctx, ownerID, category.CategoryFilter{Filter: f})
	})
}

// matchCategory finds the category of the given type whose name equals name
// ignoring case, or else the closest one by edit distance within
// categoryMatchRatio. Ties go to the first in the list.
func matchCategory(categories []category.Category, name string, typ category.CategoryType) *category.Category {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}

	var (
		best     *category.Category
		bestDist = -1
	)
	for i := range categories {
		c := &categories[i]
		if c.Type != typ {
			continue
		}
		have := strings.ToLower(c.Name)
		if have == want {
			return c
		}
		dist := levenshtein.ComputeDistance(have, want)
		longer := max(len([]rune(have)), len([]rune(want)))
		if float64(dist)/float64(longer) >= categoryMatchRatio {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}
