package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"examhall_backend/internal/model"
	"examhall_backend/internal/service"
	"examhall_backend/internal/util"
	"examhall_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type stubProvider struct {
	tests map[string]*model.TestDefinition
}

func (p *stubProvider) FetchTest(ctx context.Context, testID string) (*model.TestDefinition, error) {
	test, ok := p.tests[testID]
	if !ok {
		return nil, util.ErrTestNotFound
	}
	clone := *test
	return &clone, nil
}

type stubSink struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (s *stubSink) Send(ctx context.Context, record *model.SubmissionRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return "", context.DeadlineExceeded
	}
	return "remote-1", nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user", &util.Claims{UserID: userID, Name: "Test User"})
		}
		c.Next()
	}
}

func newTestRouter(userID string, sink *stubSink) *gin.Engine {
	provider := &stubProvider{tests: map[string]*model.TestDefinition{
		"test-1": {
			ID:       "test-1",
			Name:     "History Quiz",
			Subject:  "History",
			Duration: 600,
			Questions: []model.Question{
				{
					ID:             "q1",
					Content:        "first",
					Options:        []model.QuestionOption{{ID: "o1", Content: "a"}, {ID: "o2", Content: "b"}},
					CorrectOptions: []string{"A"},
					PositiveMark:   1,
					Explanation:    "because",
				},
				{
					ID:             "q2",
					Content:        "second",
					Options:        []model.QuestionOption{{ID: "o3", Content: "c"}, {ID: "o4", Content: "d"}},
					CorrectOptions: []string{"B"},
					PositiveMark:   1,
				},
			},
		},
	}}

	tests := service.NewTestService(provider, nil, 0)
	sessions := service.NewSessionService(tests, service.NewSubmissionService(sink, nil))
	ctrl := NewSessionController(sessions, tests)

	router := gin.New()
	api := router.Group("/api", asUser(userID))
	api.POST("/sessions", ctrl.StartSession)
	api.GET("/sessions/:id", ctrl.GetSession)
	api.PUT("/sessions/:id/answer", ctrl.SelectAnswer)
	api.POST("/sessions/:id/submit", ctrl.Submit)
	api.DELETE("/sessions/:id", ctrl.Cancel)
	api.GET("/tests/:id", ctrl.GetTest)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func startSession(t *testing.T, router *gin.Engine) service.SessionView {
	t.Helper()

	w, env := doJSON(t, router, http.MethodPost, "/api/sessions", gin.H{"testId": "test-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("start session: status %d body %s", w.Code, w.Body.String())
	}
	var view service.SessionView
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view
}

func TestStartSessionEndpoint(t *testing.T) {
	router := newTestRouter("u-1", &stubSink{})

	view := startSession(t, router)
	if view.TestID != "test-1" || view.QuestionCount != 2 {
		t.Errorf("view = %+v", view)
	}
	if view.State != service.StateIdle {
		t.Errorf("state = %q, want idle", view.State)
	}

	w, _ := doJSON(t, router, http.MethodPost, "/api/sessions", gin.H{"testId": "missing"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown test: status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPost, "/api/sessions", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing testId: status = %d, want 400", w.Code)
	}
}

func TestStartSessionEndpoint_Unauthenticated(t *testing.T) {
	router := newTestRouter("", &stubSink{})

	w, _ := doJSON(t, router, http.MethodPost, "/api/sessions", gin.H{"testId": "test-1"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAnswerAndSubmitFlow(t *testing.T) {
	sink := &stubSink{}
	router := newTestRouter("u-1", sink)
	view := startSession(t, router)

	w, env := doJSON(t, router, http.MethodPut, "/api/sessions/"+view.ID+"/answer",
		gin.H{"questionIndex": 0, "optionIndex": 0})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: status %d body %s", w.Code, w.Body.String())
	}
	var updated service.SessionView
	json.Unmarshal(env.Data, &updated)
	if updated.Answers[0].SelectedOption != 0 {
		t.Errorf("answer not recorded: %+v", updated.Answers)
	}

	// Option index zero must bind; only a missing field is a 400.
	w, _ = doJSON(t, router, http.MethodPut, "/api/sessions/"+view.ID+"/answer",
		gin.H{"questionIndex": 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing optionIndex: status = %d, want 400", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPut, "/api/sessions/"+view.ID+"/answer",
		gin.H{"questionIndex": 5, "optionIndex": 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("out of range: status = %d, want 400", w.Code)
	}

	w, env = doJSON(t, router, http.MethodPost, "/api/sessions/"+view.ID+"/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status %d body %s", w.Code, w.Body.String())
	}
	var final service.SessionView
	json.Unmarshal(env.Data, &final)
	if final.State != service.StateConfirmed {
		t.Errorf("state = %q, want confirmed", final.State)
	}

	w, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+view.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("after submit: status = %d, want 404", w.Code)
	}
}

func TestSubmitEndpoint_DeliveryFailureIs502(t *testing.T) {
	sink := &stubSink{fail: true}
	router := newTestRouter("u-1", sink)
	view := startSession(t, router)

	w, _ := doJSON(t, router, http.MethodPost, "/api/sessions/"+view.ID+"/submit", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}

	// The session is still there for a retry.
	w, _ = doJSON(t, router, http.MethodGet, "/api/sessions/"+view.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("session gone after failed delivery: status = %d", w.Code)
	}
}

func TestCancelEndpoint(t *testing.T) {
	router := newTestRouter("u-1", &stubSink{})
	view := startSession(t, router)

	w, _ := doJSON(t, router, http.MethodDelete, "/api/sessions/"+view.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d", w.Code)
	}
	w, _ = doJSON(t, router, http.MethodDelete, "/api/sessions/"+view.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("double cancel: status = %d, want 404", w.Code)
	}
}

func TestGetTestEndpoint_StripsAnswers(t *testing.T) {
	router := newTestRouter("u-1", &stubSink{})

	w, env := doJSON(t, router, http.MethodGet, "/api/tests/test-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get test: status %d", w.Code)
	}

	raw := string(env.Data)
	if bytes.Contains(env.Data, []byte("correct_options")) || bytes.Contains(env.Data, []byte("explanation")) {
		t.Errorf("player view leaks answer material: %s", raw)
	}

	var playerView service.PlayerTestView
	if err := json.Unmarshal(env.Data, &playerView); err != nil {
		t.Fatalf("decode player view: %v", err)
	}
	if len(playerView.Questions) != 2 || len(playerView.Questions[0].Options) != 2 {
		t.Errorf("player view = %+v", playerView)
	}
}
