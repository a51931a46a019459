package handler

import (
	"net/http"
	"testing"

	activityapp "github.com/fintrack/backend/internal/application/activity"
	goalapp "github.com/fintrack/backend/internal/application/goal"
	notificationapp "github.com/fintrack/backend/internal/application/notification"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalHandler_ContributeAndWithdraw(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()

	w := app.do(http.MethodPost, "/api/v1/goals", owner, map[string]any{
		"name": "Emergency fund", "target_amount": "1000", "currency": "USD",
	})
	g := decode[goalapp.GoalResponse](t, w, http.StatusCreated).Data
	assert.False(t, g.IsCompleted)
	assert.Equal(t, "1000.00", g.Remaining.StringFixed(2))
	path := "/api/v1/goals/" + g.ID.String()

	w = app.do(http.MethodPost, path+"/contribute", owner, map[string]any{"amount": "600"})
	g = decode[goalapp.GoalResponse](t, w, http.StatusOK).Data
	assert.Equal(t, "600.00", g.CurrentAmount.StringFixed(2))
	assert.False(t, g.IsCompleted)

	t.Run("reaching the target completes and notifies", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/contribute", owner, map[string]any{"amount": "400"})
		g := decode[goalapp.GoalResponse](t, w, http.StatusOK).Data
		assert.True(t, g.IsCompleted)
		assert.NotNil(t, g.CompletedAt)
		assert.True(t, g.Remaining.IsZero())

		w = app.do(http.MethodGet, "/api/v1/notifications", owner, nil)
		notes := decode[[]notificationapp.NotificationResponse](t, w, http.StatusOK).Data
		require.Len(t, notes, 1)
		assert.Equal(t, "goal_completed", notes[0].Type)
		assert.Equal(t, g.ID, *notes[0].RelatedID)
	})

	t.Run("over-withdrawal is rejected", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/withdraw", owner, map[string]any{"amount": "1000.01"})
		assert.Equal(t, dto.ErrCodeInsufficientBalance, errorCode(t, w, http.StatusUnprocessableEntity))
	})

	t.Run("withdrawing below target reopens", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/withdraw", owner, map[string]any{"amount": "250"})
		g := decode[goalapp.GoalResponse](t, w, http.StatusOK).Data
		assert.Equal(t, "750.00", g.CurrentAmount.StringFixed(2))
		assert.False(t, g.IsCompleted)
	})

	t.Run("completing again the same day does not duplicate", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/contribute", owner, map[string]any{"amount": "250"})
		require.Equal(t, http.StatusOK, w.Code)

		w = app.do(http.MethodGet, "/api/v1/notifications/unread-count", owner, nil)
		assert.Equal(t, int64(1), decode[notificationapp.UnreadCountResponse](t, w, http.StatusOK).Data.Count)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		w := app.do(http.MethodPost, path+"/contribute", owner, map[string]any{"amount": "-1"})
		assert.Equal(t, "INVALID_AMOUNT", errorCode(t, w, http.StatusBadRequest))
	})

	t.Run("activity trail", func(t *testing.T) {
		w := app.do(http.MethodGet, "/api/v1/activities?entity_type=goal&entity_id="+g.ID.String(), owner, nil)
		env := decode[[]activityapp.ActivityResponse](t, w, http.StatusOK)
		require.NotEmpty(t, env.Data)
		for _, a := range env.Data {
			assert.Equal(t, "goal", a.EntityType)
			assert.Equal(t, g.ID, a.EntityID)
		}

		w = app.do(http.MethodGet, "/api/v1/activities?entity_id=nope", owner, nil)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w, http.StatusBadRequest))

		w = app.do(http.MethodGet, "/api/v1/activities", uuid.New(), nil)
		assert.Empty(t, decode[[]activityapp.ActivityResponse](t, w, http.StatusOK).Data)
	})
}

func TestGoalHandler_OwnershipAndDelete(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()

	w := app.do(http.MethodPost, "/api/v1/goals", owner, map[string]any{
		"name": "Bike", "target_amount": "800", "currency": "EUR",
	})
	g := decode[goalapp.GoalResponse](t, w, http.StatusCreated).Data
	path := "/api/v1/goals/" + g.ID.String()

	w = app.do(http.MethodPost, path+"/contribute", uuid.New(), map[string]any{"amount": "10"})
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))

	w = app.do(http.MethodPut, path, owner, map[string]any{
		"name": "Road bike", "target_amount": "1200", "currency": "EUR",
	})
	assert.Equal(t, "Road bike", decode[goalapp.GoalResponse](t, w, http.StatusOK).Data.Name)

	w = app.do(http.MethodDelete, path, owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = app.do(http.MethodGet, path, owner, nil)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))
}

func TestNotificationHandler_ReadFlow(t *testing.T) {
	app := newTestApp(t)
	owner := uuid.New()

	for _, name := range []string{"Laptop", "Holiday"} {
		w := app.do(http.MethodPost, "/api/v1/goals", owner, map[string]any{
			"name": name, "target_amount": "10", "current_amount": "0", "currency": "USD",
		})
		g := decode[goalapp.GoalResponse](t, w, http.StatusCreated).Data
		w = app.do(http.MethodPost, "/api/v1/goals/"+g.ID.String()+"/contribute", owner, map[string]any{"amount": "10"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := app.do(http.MethodGet, "/api/v1/notifications?unread_only=true", owner, nil)
	notes := decode[[]notificationapp.NotificationResponse](t, w, http.StatusOK).Data
	require.Len(t, notes, 2)

	w = app.do(http.MethodPost, "/api/v1/notifications/"+notes[0].ID.String()+"/read", owner, nil)
	read := decode[notificationapp.NotificationResponse](t, w, http.StatusOK).Data
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)

	w = app.do(http.MethodPost, "/api/v1/notifications/"+notes[0].ID.String()+"/read", uuid.New(), nil)
	assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w, http.StatusNotFound))

	w = app.do(http.MethodGet, "/api/v1/notifications/unread-count", owner, nil)
	assert.Equal(t, int64(1), decode[notificationapp.UnreadCountResponse](t, w, http.StatusOK).Data.Count)

	w = app.do(http.MethodPost, "/api/v1/notifications/read-all", owner, nil)
	assert.Equal(t, int64(1), decode[notificationapp.MarkAllReadResponse](t, w, http.StatusOK).Data.Updated)

	w = app.do(http.MethodDelete, "/api/v1/notifications/"+notes[1].ID.String(), owner, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(http.MethodGet, "/api/v1/notifications", owner, nil)
	env := decode[[]notificationapp.NotificationResponse](t, w, http.StatusOK)
	assert.Len(t, env.Data, 1)
	assert.Equal(t, int64(1), env.Meta.Total)
}
