package transaction

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/category"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/fintrack/backend/internal/domain/transaction"
	"github.com/fintrack/backend/internal/infrastructure/csvio"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type categoryList struct {
	category.CategoryRepository
	items []category.Category
}

func (c categoryList) FindByIDForOwner(_ context.Context, ownerID, id uuid.UUID) (*category.Category, error) {
	for i := range c.items {
		if c.items[i].ID == id && c.items[i].OwnerID == ownerID {
			return &c.items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (c categoryList) FindAllForOwner(_ context.Context, ownerID uuid.UUID, _ category.CategoryFilter) ([]category.Category, error) {
	var out []category.Category
	for _, item := range c.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func newCategory(ownerID uuid.UUID, name string, typ category.CategoryType) category.Category {
	return category.Category{OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID), Name: name, Type: typ}
}

type recordingStorage struct {
	key         string
	data        []byte
	contentType string
}

func (r *recordingStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	r.key, r.data, r.contentType = key, data, contentType
	return nil
}

func (r *recordingStorage) PresignDownload(_ context.Context, key string, _ time.Duration) (string, time.Time, error) {
	return "https://files.example.test/" + key + "?sig=1", time.Date(2026, 5, 10, 12, 15, 0, 0, time.UTC), nil
}

type csvFixture struct {
	*fixture
	csv        *CSVService
	categories categoryList
	storage    *recordingStorage
}

func newCSVFixture(t *testing.T) *csvFixture {
	t.Helper()
	f := newFixture(t)
	cats := categoryList{items: []category.Category{
		newCategory(f.ownerID, "Groceries", category.CategoryTypeExpense),
		newCategory(f.ownerID, "Rent", category.CategoryTypeExpense),
		newCategory(f.ownerID, "Salary", category.CategoryTypeIncome),
	}}
	f.svc.categoryRepo = cats
	storage := &recordingStorage{}
	svc := NewCSVService(f.svc, f.repo, f.accounts, cats, storage, zaptest.NewLogger(t))
	svc.now = func() time.Time { return time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC) }
	return &csvFixture{fixture: f, csv: svc, categories: cats, storage: storage}
}

func TestMatchCategory(t *testing.T) {
	owner := uuid.New()
	cats := []category.Category{
		newCategory(owner, "Groceries", category.CategoryTypeExpense),
		newCategory(owner, "Restaurants", category.CategoryTypeExpense),
		newCategory(owner, "Rent", category.CategoryTypeExpense),
		newCategory(owner, "Salary", category.CategoryTypeIncome),
	}

	tests := []struct {
		name string
		in   string
		typ  category.CategoryType
		want string
	}{
		{"exact ignoring case", "GROCERIES", category.CategoryTypeExpense, "Groceries"},
		{"typo", "grocerys", category.CategoryTypeExpense, "Groceries"},
		{"closest wins", "Rentt", category.CategoryTypeExpense, "Rent"},
		{"other type is skipped", "Salary", category.CategoryTypeExpense, ""},
		{"too far", "Travel", category.CategoryTypeExpense, ""},
		{"blank", "  ", category.CategoryTypeExpense, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchCategory(cats, tt.in, tt.typ)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestCSVService_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("good rows are recorded and bad rows reported", func(t *testing.T) {
		f := newCSVFixture(t)
		var created []*transaction.Transaction
		f.repo.On("Create", mock.Anything, mock.AnythingOfType("*transaction.Transaction"), mock.Anything).
			Run(func(args mock.Arguments) {
				created = append(created, args.Get(1).(*transaction.Transaction))
			}).Return(nil)

		input := strings.Join([]string{
			"date,type,amount,category,description",
			"2026-05-01,expense,12.5,grocerys,Market",
			"2026-05-02,income,3000,SALARY,May pay",
			"2026-05-03,expense,abc,,bad amount",
			"2026-05-04,expense,5,," + strings.Repeat("x", 300),
			"2026-05-05,expense,7,Unknown thing,misc",
		}, "\n")

		resp, err := f.csv.Import(ctx, f.ownerID, f.usd.ID, strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, 3, resp.Imported)
		assert.Equal(t, 2, resp.Failed)
		assert.Equal(t, 1, resp.Uncategorized)
		require.Len(t, resp.Errors, 2)
		assert.Equal(t, 4, resp.Errors[0].Row)
		assert.Equal(t, csvio.ErrCodeInvalidFormat, resp.Errors[0].Code)
		assert.Equal(t, 5, resp.Errors[1].Row)
		assert.Equal(t, csvio.ErrCodeRejected, resp.Errors[1].Code)

		require.Len(t, created, 3)
		assert.Equal(t, f.categories.items[0].ID, *created[0].CategoryID)
		assert.Equal(t, f.categories.items[2].ID, *created[1].CategoryID)
		assert.Nil(t, created[2].CategoryID)
		assert.Equal(t, valueobject.USD, created[0].Currency)
		assert.Equal(t, "12.50", created[0].ConvertedAmount.StringFixed(2))
	})

	t.Run("another owner's account is not found", func(t *testing.T) {
		f := newCSVFixture(t)
		_, err := f.csv.Import(ctx, uuid.New(), f.usd.ID, strings.NewReader("date,amount\n2026-05-01,1\n"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("file without required columns", func(t *testing.T) {
		f := newCSVFixture(t)
		_, err := f.csv.Import(ctx, f.ownerID, f.usd.ID, strings.NewReader("when,how much\n"))
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_IMPORT_FILE", de.Code)
	})
}

func TestCSVService_Export(t *testing.T) {
	ctx := context.Background()
	f := newCSVFixture(t)

	groceries := f.categories.items[0].ID
	spend, err := transaction.NewTransaction(f.ownerID, transaction.Params{
		AccountID: f.usd.ID, CategoryID: &groceries, Type: transaction.TransactionTypeExpense,
		Amount: decimal.RequireFromString("12.5"), Currency: valueobject.USD,
		ConvertedAmount: decimal.RequireFromString("12.5"),
		Description:     "Market", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	move, err := transaction.NewTransaction(f.ownerID, transaction.Params{
		AccountID: f.usd.ID, Type: transaction.TransactionTypeTransfer,
		Amount: decimal.NewFromInt(110), Currency: valueobject.USD, ConvertedAmount: decimal.NewFromInt(110),
		DestinationAccountID: &f.eur.ID, DestinationAmount: decimal.NewFromInt(100),
		Description: "Move", Date: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	f.repo.On("FindAllForOwner", ctx, f.ownerID, mock.MatchedBy(func(tf transaction.TransactionFilter) bool {
		return tf.OrderBy == "date" && tf.OrderDir == "asc" && tf.Page == 1
	})).Return([]transaction.Transaction{*spend, *move}, nil)

	want := "date,type,amount,currency,converted_amount,account,destination_account,category,description,notes\n" +
		"2026-05-01,expense,12.50,USD,12.50,Checking,,Groceries,Market,\n" +
		"2026-05-02,transfer,110.00,USD,110.00,Checking,Euro,,Move,\n"

	t.Run("renders names", func(t *testing.T) {
		data, rows, err := f.csv.Export(ctx, f.ownerID, ExportQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		assert.Equal(t, want, string(data))
	})

	t.Run("upload returns a presigned link", func(t *testing.T) {
		resp, err := f.csv.UploadExport(ctx, f.ownerID, ExportQuery{})
		require.NoError(t, err)
		wantKey := "exports/" + f.ownerID.String() + "/transactions-20260510T120000Z.csv"
		assert.Equal(t, wantKey, resp.Key)
		assert.Equal(t, wantKey, f.storage.key)
		assert.Equal(t, "text/csv", f.storage.contentType)
		assert.Equal(t, want, string(f.storage.data))
		assert.Contains(t, resp.URL, wantKey)
		assert.Equal(t, 2, resp.Rows)
	})

	t.Run("inverted range", func(t *testing.T) {
		from := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -1)
		_, _, err := f.csv.Export(ctx, f.ownerID, ExportQuery{FromDate: &from, ToDate: &to})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_DATE_RANGE", de.Code)
	})

	t.Run("upload without storage", func(t *testing.T) {
		svc := NewCSVService(f.svc, f.repo, f.accounts, f.categories, nil, zaptest.NewLogger(t))
		_, err := svc.UploadExport(ctx, f.ownerID, ExportQuery{})
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}
