package sessions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elmo3159/Pokeseal-sub000/pkg/api"
	"github.com/elmo3159/Pokeseal-sub000/pkg/middleware"
	"github.com/elmo3159/Pokeseal-sub000/pkg/models"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade"
	"github.com/elmo3159/Pokeseal-sub000/pkg/trade/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequest(method, path, user, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), user))
}

func TestInviteDirect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("InviteDirect", mock.Anything, "alice", "bob").
			Return(&models.Session{Id: "s1", ParticipantA: "alice", ParticipantB: "bob", Origin: models.INVITE, Status: models.NEGOTIATING}, nil)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).InviteDirect(rr, newRequest(http.MethodPost, "/sessions", "alice", `{"partner_id":" bob "}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var session api.Session
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &session))
		assert.Equal(t, "INVITE", session.Origin)
		assert.Equal(t, api.SessionStatusNEGOTIATING, session.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		mockService := new(mocks.API)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).InviteDirect(rr, newRequest(http.MethodPost, "/sessions", "alice", `{`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "InviteDirect", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Self Invitation", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("InviteDirect", mock.Anything, "alice", "alice").Return(nil, trade.ErrInvalidParticipant)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).InviteDirect(rr, newRequest(http.MethodPost, "/sessions", "alice", `{"partner_id":"alice"}`))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestListSessions(t *testing.T) {
	mockService := new(mocks.API)
	mockService.On("ListSessions", mock.Anything, "alice").Return([]models.Session{}, nil)

	rr := httptest.NewRecorder()
	NewSessionsHandler(mockService).ListSessions(rr, newRequest(http.MethodGet, "/sessions", "alice", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGetUnreadSummary(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("UnreadSummary", mock.Anything, "alice").Return(&models.UnreadSummary{
			Total:    3,
			Sessions: map[string]int{"s1": 2, "s2": 1},
		}, nil)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).GetUnreadSummary(rr, newRequest(http.MethodGet, "/unread", "alice", ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"total":3,"sessions":{"s1":2,"s2":1}}`, rr.Body.String())
	})

	t.Run("Store Unavailable", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("UnreadSummary", mock.Anything, "alice").Return(nil, trade.ErrTransientStore)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).GetUnreadSummary(rr, newRequest(http.MethodGet, "/unread", "alice", ""))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestGetSession(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("GetSession", mock.Anything, id.String(), "alice").Return(&models.SessionView{
			Id:      id.String(),
			Status:  models.NEGOTIATING,
			MySide:  models.SideA,
			Paired:  true,
			Partner: &models.Profile{UserId: "bob", Name: "Bob"},
		}, nil)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).GetSession(rr, newRequest(http.MethodGet, "/sessions/"+id.String(), "alice", ""), id)

		assert.Equal(t, http.StatusOK, rr.Code)
		var view api.SessionView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Equal(t, "Bob", view.Partner.Name)
		assert.NotNil(t, view.MyRequests)
		assert.NotContains(t, rr.Body.String(), `"bob"`)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("GetSession", mock.Anything, id.String(), "alice").Return(nil, trade.ErrSessionNotFound)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).GetSession(rr, newRequest(http.MethodGet, "/sessions/"+id.String(), "alice", ""), id)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestConfirmSession(t *testing.T) {
	id := uuid.New()

	t.Run("Completed", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("Confirm", mock.Anything, id.String(), "bob").Return(&models.ConfirmResult{
			Session:   &models.Session{Id: id.String(), Status: models.COMPLETED},
			Changed:   true,
			Completed: true,
			Transfers: []models.Transfer{{EntryId: "e1", ItemId: "alice-1", FromUserId: "alice", ToUserId: "bob"}},
			Skipped:   []models.TradeRequest{{TargetItemId: "bob-9"}},
		}, nil)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).ConfirmSession(rr, newRequest(http.MethodPost, "/sessions/x/confirm", "bob", ""), id)

		assert.Equal(t, http.StatusOK, rr.Code)
		var res api.ConfirmResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.True(t, res.Completed)
		assert.Len(t, res.Transfers, 1)
		assert.Equal(t, []string{"bob-9"}, res.Skipped)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"Session Closed", trade.ErrSessionClosed, http.StatusConflict},
		{"Still Waiting", trade.ErrSessionNotNegotiating, http.StatusConflict},
		{"Not A Participant", trade.ErrInvalidParticipant, http.StatusForbidden},
		{"Transient Failure", fmt.Errorf("failed to complete session: %w", trade.ErrTransientStore), http.StatusServiceUnavailable},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := new(mocks.API)
			mockService.On("Confirm", mock.Anything, id.String(), "bob").Return(nil, tc.err)

			rr := httptest.NewRecorder()
			NewSessionsHandler(mockService).ConfirmSession(rr, newRequest(http.MethodPost, "/sessions/x/confirm", "bob", ""), id)

			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestCancelSession(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("Cancel", mock.Anything, id.String(), "alice").
			Return(&models.Session{Id: id.String(), Status: models.CANCELLED, CancelledBy: "alice"}, nil)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).CancelSession(rr, newRequest(http.MethodPost, "/sessions/x/cancel", "alice", ""), id)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"CANCELLED"`)
	})

	t.Run("Already Ended", func(t *testing.T) {
		mockService := new(mocks.API)
		mockService.On("Cancel", mock.Anything, id.String(), "alice").Return(nil, trade.ErrSessionClosed)

		rr := httptest.NewRecorder()
		NewSessionsHandler(mockService).CancelSession(rr, newRequest(http.MethodPost, "/sessions/x/cancel", "alice", ""), id)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "this trade has ended")
	})
}
