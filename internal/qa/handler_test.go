package qa

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/internal/events"
	"github.com/summit-companion/backend/internal/mocks"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/internal/realtime"
)

type fixture struct {
	store  *mocks.QuestionStoreMock
	events *mocks.EventStoreMock
	hub    *realtime.Hub
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		store:  new(mocks.QuestionStoreMock),
		events: new(mocks.EventStoreMock),
		hub:    realtime.NewHub(zap.NewNop()),
	}
	handler := NewHandler(f.store, f.events, f.hub, nil, zap.NewNop())

	r := gin.New()
	r.GET("/qa/event/:event_id", handler.EventPage)
	r.GET("/qa/event/:event_id/questions", handler.ListQuestions)
	r.POST("/qa/event/:event_id/submit", handler.Submit)
	r.POST("/qa/question/:question_id/like", handler.Like)
	r.GET("/qa/moderator/event/:event_id", handler.ModeratorEvent)
	r.GET("/qa/moderator/event/:event_id/questions", handler.ModeratorListQuestions)
	r.POST("/qa/moderator/question/:question_id/toggle-visibility", handler.ToggleVisibility)
	r.POST("/qa/moderator/question/:question_id/toggle-answered", handler.ToggleAnswered)
	r.DELETE("/qa/moderator/question/:question_id", handler.Delete)
	f.router = r
	return f
}

func (f *fixture) do(method, path string, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBufferString("{}")
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func activeEvent(id int64) *models.Event {
	return &models.Event{ID: id, Title: "Opening Keynote", IsQAActive: true}
}

func broadcastPayload(t *testing.T, msg realtime.Message) (realtime.Action, interface{}) {
	t.Helper()
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	action, ok := data["action"].(realtime.Action)
	require.True(t, ok)
	return action, data["question"]
}

func TestSubmitRejectedWhenQAInactive(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(1)

	f.events.On("GetByID", mock.Anything, int64(1)).
		Return(&models.Event{ID: 1, IsQAActive: false}, nil).Once()

	rec := f.do(http.MethodPost, "/qa/event/1/submit", `{"nickname":"Sam","question_text":"What time is lunch?"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Len(t, ch, 0, "rejected submission must not broadcast")
	f.events.AssertExpectations(t)
}

func TestSubmitRejectsEmptyQuestion(t *testing.T) {
	f := newFixture(t)

	f.events.On("GetByID", mock.Anything, int64(1)).Return(activeEvent(1), nil).Once()

	rec := f.do(http.MethodPost, "/qa/event/1/submit", `{"nickname":"Sam","question_text":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	f.store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitDefaultsNicknameAndBroadcasts(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(1)

	f.events.On("GetByID", mock.Anything, int64(1)).Return(activeEvent(1), nil).Once()
	f.store.On("Create", mock.Anything, mock.MatchedBy(func(q *models.Question) bool {
		return q.EventID == 1 && q.Nickname == "Anonymous" && q.QuestionText == "What time is lunch?"
	})).Run(func(args mock.Arguments) {
		q := args.Get(1).(*models.Question)
		q.ID = uuid.New()
	}).Return(nil).Once()

	rec := f.do(http.MethodPost, "/qa/event/1/submit", `{"nickname":"  ","question_text":" What time is lunch? "}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, ch, 1)
	action, payload := broadcastPayload(t, <-ch)
	assert.Equal(t, realtime.ActionCreated, action)
	broadcastQ, ok := payload.(*models.Question)
	require.True(t, ok)
	assert.Equal(t, "Anonymous", broadcastQ.Nickname)
	assert.Equal(t, "What time is lunch?", broadcastQ.QuestionText)

	cookies := rec.Result().Cookies()
	names := make(map[string]bool)
	for _, c := range cookies {
		names[c.Name] = true
	}
	assert.True(t, names["qa_session_id"], "session cookie is set")
	assert.True(t, names["qa_nickname"], "nickname cookie is set")

	f.store.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestLikeTogglesAndBroadcastsCount(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(3)

	qid := uuid.New()
	q := &models.Question{ID: qid, EventID: 3, LikesCount: 4}
	f.store.On("GetByID", mock.Anything, qid).Return(q, nil).Once()
	f.store.On("ToggleLike", mock.Anything, qid, mock.AnythingOfType("string")).
		Return(true, 5, nil).Once()

	rec := f.do(http.MethodPost, "/qa/question/"+qid.String()+"/like", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Liked      bool `json:"liked"`
			LikesCount int  `json:"likes_count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Data.Liked)
	assert.Equal(t, 5, resp.Data.LikesCount)

	require.Len(t, ch, 1)
	action, payload := broadcastPayload(t, <-ch)
	assert.Equal(t, realtime.ActionLikeUpdated, action)
	fields, ok := payload.(gin.H)
	require.True(t, ok)
	assert.Equal(t, 5, fields["likes_count"])

	f.store.AssertExpectations(t)
}

func TestLikeUnknownQuestionIs404(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(3)

	qid := uuid.New()
	f.store.On("GetByID", mock.Anything, qid).Return(nil, ErrNotFound).Once()

	rec := f.do(http.MethodPost, "/qa/question/"+qid.String()+"/like", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	f.store.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything, mock.Anything)
	assert.Len(t, ch, 0)
}

func TestToggleVisibilityBroadcastsNewValue(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(2)

	qid := uuid.New()
	f.store.On("ToggleVisibility", mock.Anything, qid).
		Return(&models.Question{ID: qid, EventID: 2, IsVisible: true}, nil).Once()

	rec := f.do(http.MethodPost, "/qa/moderator/question/"+qid.String()+"/toggle-visibility", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ch, 1)
	action, payload := broadcastPayload(t, <-ch)
	assert.Equal(t, realtime.ActionUpdated, action)
	fields, ok := payload.(gin.H)
	require.True(t, ok)
	assert.Equal(t, true, fields["is_visible"])
}

func TestToggleAnsweredBroadcastsNewValue(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(2)

	qid := uuid.New()
	f.store.On("ToggleAnswered", mock.Anything, qid).
		Return(&models.Question{ID: qid, EventID: 2, IsAnswered: true}, nil).Once()

	rec := f.do(http.MethodPost, "/qa/moderator/question/"+qid.String()+"/toggle-answered", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ch, 1)
	action, payload := broadcastPayload(t, <-ch)
	assert.Equal(t, realtime.ActionUpdated, action)
	fields, ok := payload.(gin.H)
	require.True(t, ok)
	assert.Equal(t, true, fields["is_answered"])
}

func TestToggleVisibilityUnknownQuestionShortCircuits(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(2)

	qid := uuid.New()
	f.store.On("ToggleVisibility", mock.Anything, qid).Return(nil, ErrNotFound).Once()

	rec := f.do(http.MethodPost, "/qa/moderator/question/"+qid.String()+"/toggle-visibility", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, ch, 0, "404 must not broadcast")
}

func TestDeleteBroadcastsIDOnly(t *testing.T) {
	f := newFixture(t)
	ch := f.hub.Subscribe(2)

	qid := uuid.New()
	f.store.On("GetByID", mock.Anything, qid).
		Return(&models.Question{ID: qid, EventID: 2}, nil).Once()
	f.store.On("Delete", mock.Anything, qid).Return(nil).Once()

	rec := f.do(http.MethodDelete, "/qa/moderator/question/"+qid.String(), "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, ch, 1)
	action, payload := broadcastPayload(t, <-ch)
	assert.Equal(t, realtime.ActionDeleted, action)
	fields, ok := payload.(gin.H)
	require.True(t, ok)
	assert.Len(t, fields, 1, "deleted payload carries only the id")
	assert.Equal(t, qid, fields["id"])
}

func TestGuestListingIsVisibleOnly(t *testing.T) {
	f := newFixture(t)

	f.store.On("ListByEvent", mock.Anything, int64(1), true, SortRecent).
		Return([]models.Question{}, nil).Once()
	f.store.On("LikedQuestionIDs", mock.Anything, int64(1), mock.AnythingOfType("string")).
		Return([]uuid.UUID{}, nil).Once()

	rec := f.do(http.MethodGet, "/qa/event/1/questions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	f.store.AssertExpectations(t)
}

func TestGuestListingSortParam(t *testing.T) {
	f := newFixture(t)

	f.store.On("ListByEvent", mock.Anything, int64(1), true, SortPopular).
		Return([]models.Question{}, nil).Once()
	f.store.On("LikedQuestionIDs", mock.Anything, int64(1), mock.AnythingOfType("string")).
		Return([]uuid.UUID{}, nil).Once()

	rec := f.do(http.MethodGet, "/qa/event/1/questions?sort=popular", "")

	require.Equal(t, http.StatusOK, rec.Code)
	f.store.AssertExpectations(t)
}

func TestModeratorListingIncludesHidden(t *testing.T) {
	f := newFixture(t)

	f.store.On("ListByEvent", mock.Anything, int64(1), false, SortRecent).
		Return([]models.Question{}, nil).Once()

	rec := f.do(http.MethodGet, "/qa/moderator/event/1/questions", "")

	require.Equal(t, http.StatusOK, rec.Code)
	f.store.AssertExpectations(t)
}

func TestModeratorEventStats(t *testing.T) {
	f := newFixture(t)

	f.events.On("GetByID", mock.Anything, int64(1)).Return(activeEvent(1), nil).Once()
	f.store.On("ListByEvent", mock.Anything, int64(1), false, SortPopular).
		Return([]models.Question{
			{ID: uuid.New(), EventID: 1, IsVisible: true, IsAnswered: true},
			{ID: uuid.New(), EventID: 1, IsVisible: true},
			{ID: uuid.New(), EventID: 1},
		}, nil).Once()

	rec := f.do(http.MethodGet, "/qa/moderator/event/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Stats struct {
				Total    int `json:"total"`
				Visible  int `json:"visible"`
				Answered int `json:"answered"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Data.Stats.Total)
	assert.Equal(t, 2, resp.Data.Stats.Visible)
	assert.Equal(t, 1, resp.Data.Stats.Answered)
}

func TestEventPageUnknownEventIs404(t *testing.T) {
	f := newFixture(t)

	f.events.On("GetByID", mock.Anything, int64(9)).Return(nil, events.ErrNotFound).Once()

	rec := f.do(http.MethodGet, "/qa/event/9", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	f.store.AssertNotCalled(t, "ListByEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
