package notification

import (
	"context"
	"testing"
	"time"

	"github.com/fintrack/backend/internal/domain/goal"
	"github.com/fintrack/backend/internal/domain/notification"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, f notification.NotificationFilter) ([]notification.Notification, error) {
	args := m.Called(ctx, ownerID, f)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, f notification.NotificationFilter) (int64, error) {
	args := m.Called(ctx, ownerID, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) CreateIfAbsent(ctx context.Context, n *notification.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)

	n, err := notification.NewNotification(ownerID, notification.TypeSystem, "Welcome", "Hello", nil)
	require.NoError(t, err)
	typ := notification.TypeSystem
	expected := notification.NotificationFilter{
		Filter:     shared.Filter{Page: 1, PageSize: 20, OrderBy: "created_at", OrderDir: "desc"},
		UnreadOnly: true,
		Type:       &typ,
	}
	repo.On("FindAllForOwner", ctx, ownerID, expected).Return([]notification.Notification{*n}, nil)
	repo.On("CountForOwner", ctx, ownerID, expected).Return(int64(1), nil)

	items, total, err := svc.List(ctx, ownerID, NotificationListFilter{UnreadOnly: true, Type: "system"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Welcome", items[0].Title)
	assert.False(t, items[0].IsRead)
}

func TestNotificationService_ReadState(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)
	n, err := notification.NewNotification(ownerID, notification.TypeSystem, "Hi", "", nil)
	require.NoError(t, err)

	repo.On("FindByIDForOwner", ctx, ownerID, n.ID).Return(n, nil)
	repo.On("Save", ctx, n).Return(nil).Once()
	repo.On("CountForOwner", ctx, ownerID, notification.NotificationFilter{UnreadOnly: true}).Return(int64(4), nil)
	repo.On("MarkAllRead", ctx, ownerID).Return(int64(4), nil)

	resp, err := svc.MarkRead(ctx, ownerID, n.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
	require.NotNil(t, resp.ReadAt)

	// already read: no second save
	_, err = svc.MarkRead(ctx, ownerID, n.ID)
	require.NoError(t, err)

	count, err := svc.UnreadCount(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count.Count)

	all, err := svc.MarkAllRead(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Updated)

	_, err = svc.UnreadCount(ctx, uuid.Nil)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertExpectations(t)
}

func TestNotificationService_DeleteIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	svc := NewNotificationService(repo)
	owner, stranger, id := uuid.New(), uuid.New(), uuid.New()
	repo.On("DeleteForOwner", ctx, owner, id).Return(nil)
	repo.On("DeleteForOwner", ctx, stranger, id).Return(shared.ErrNotFound)

	assert.NoError(t, svc.Delete(ctx, owner, id))
	assert.ErrorIs(t, svc.Delete(ctx, stranger, id), shared.ErrNotFound)
}

func TestGoalCompletedHandler(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	g, err := goal.NewGoal(ownerID, "New bike", decimal.NewFromInt(800), decimal.NewFromInt(800), valueobject.USD, nil)
	require.NoError(t, err)

	var completed shared.DomainEvent
	for _, e := range g.GetDomainEvents() {
		if e.EventType() == goal.EventTypeGoalCompleted {
			completed = e
		}
	}
	require.NotNil(t, completed)

	repo := new(MockNotificationRepository)
	h := NewGoalCompletedHandler(repo, zaptest.NewLogger(t))
	day := completed.OccurredAt().UTC().Format(time.DateOnly)
	repo.On("CreateIfAbsent", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.OwnerID == ownerID &&
			n.Type == notification.TypeGoalCompleted &&
			*n.RelatedID == g.ID &&
			n.DedupeKey == "goal_completed:"+g.ID.String()+":"+day
	})).Return(true, nil)

	assert.Equal(t, []string{goal.EventTypeGoalCompleted}, h.EventTypes())
	require.NoError(t, h.Handle(ctx, completed))
	repo.AssertExpectations(t)
}
