package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"daotask/internal/api"
	"daotask/internal/grant"
	"daotask/internal/store"
)

func newHandlerTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "handlers_test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return New("127.0.0.1:0", st, Options{ProjectPrefix: "tk", Limits: Limits{MaxVestingMonths: 60}}, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	switch v := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func expectErrorCode(t *testing.T, w *httptest.ResponseRecorder, status, code int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d (%s)", status, w.Code, w.Body.String())
	}
	resp := decodeBody[api.ErrorResponse](t, w)
	if resp.ErrorCode != code {
		t.Fatalf("expected error_code %d, got %+v", code, resp)
	}
}

func TestCreateShowListTask(t *testing.T) {
	srv := newHandlerTestServer(t)
	h := srv.routes()

	payload := map[string]any{
		"dao":             "dao.near",
		"repo":            "frontend",
		"name":            "fix-login",
		"cost":            1000,
		"percent_assign":  60,
		"percent_review":  30,
		"percent_manager": 10,
		"tags":            []string{"ui"},
		"future_field":    map[string]any{"nested": true},
	}
	w := doJSON(t, h, http.MethodPost, "/v1/tasks", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	created := decodeBody[api.TaskResponse](t, w)
	if created.ID == "" || created.Reward != 1000 {
		t.Fatalf("unexpected created task: %+v", created.Task)
	}

	w = doJSON(t, h, http.MethodGet, "/v1/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from show, got %d (%s)", w.Code, w.Body.String())
	}
	shown := decodeBody[api.TaskResponse](t, w)
	if shown.ID != created.ID {
		t.Fatalf("expected shown id %q, got %q", created.ID, shown.ID)
	}
	if got := shown.Grants[grant.RoleReview]; len(got) != 1 || got[0].Amount != 300 || got[0].UnlockOffset != 0 {
		t.Fatalf("unexpected review grant: %+v", got)
	}
	if shown.Summary == nil || shown.Summary.Reward != 1000 {
		t.Fatalf("unexpected summary: %+v", shown.Summary)
	}

	w = doJSON(t, h, http.MethodGet, "/v1/tasks?dao=dao.near&tag=ui", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from list, got %d (%s)", w.Code, w.Body.String())
	}
	list := decodeBody[[]api.TaskResponse](t, w)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	w = doJSON(t, h, http.MethodGet, "/v1/tasks?dao=other.near", nil)
	if list := decodeBody[[]api.TaskResponse](t, w); len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}

	w = doJSON(t, h, http.MethodPost, "/v1/tasks", payload)
	expectErrorCode(t, w, http.StatusConflict, ErrCodeTaskNameExists)

	w = doJSON(t, h, http.MethodDelete, "/v1/tasks/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from delete, got %d (%s)", w.Code, w.Body.String())
	}
	w = doJSON(t, h, http.MethodGet, "/v1/tasks?dao=dao.near", nil)
	if list := decodeBody[[]api.TaskResponse](t, w); len(list) != 0 {
		t.Fatalf("deleted task should be hidden, got %+v", list)
	}
	w = doJSON(t, h, http.MethodGet, "/v1/tasks?dao=dao.near&status=deleted", nil)
	if list := decodeBody[[]api.TaskResponse](t, w); len(list) != 1 {
		t.Fatalf("expected deleted task with status filter, got %+v", list)
	}
}

func TestCreateTask_RejectsTrailingJSON(t *testing.T) {
	srv := newHandlerTestServer(t)
	body := `{"dao":"d","repo":"r","name":"n","cost":10,"percent_assign":100} {"extra":true}`
	w := doJSON(t, srv.routes(), http.MethodPost, "/v1/tasks", body)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidJSON)
}

func TestPreviewGrantErrors(t *testing.T) {
	srv := newHandlerTestServer(t)
	h := srv.routes()

	tests := []struct {
		name   string
		terms  api.GrantTerms
		status int
		code   int
		msg    string
	}{
		{
			name:   "percent sum",
			terms:  api.GrantTerms{Cost: 1000, PercentAssign: 60, PercentReview: 30, PercentManager: 9},
			status: http.StatusBadRequest,
			code:   ErrCodePercentSum,
			msg:    "percent sum must equal 100%",
		},
		{
			name:   "incomplete vesting",
			terms:  api.GrantTerms{Cost: 1, PercentAssign: 1, PercentReview: 1, PercentManager: 98, VestingMonths: 60},
			status: http.StatusBadRequest,
			code:   ErrCodeIncompleteVesting,
			msg:    "Assigner has not enough tokens to pay all periods",
		},
		{
			name:   "negative cost",
			terms:  api.GrantTerms{Cost: -1, PercentAssign: 100},
			status: http.StatusBadRequest,
			code:   ErrCodeInvalidGrantValue,
		},
		{
			name:   "vesting limit",
			terms:  api.GrantTerms{Cost: 100, PercentAssign: 100, VestingMonths: 61},
			status: http.StatusBadRequest,
			code:   ErrCodeGrantLimit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, h, http.MethodPost, "/v1/grants/preview", api.GrantPreviewRequest{GrantTerms: tc.terms})
			expectErrorCode(t, w, tc.status, tc.code)
			resp := decodeBody[api.ErrorResponse](t, w)
			if tc.msg != "" && !strings.Contains(resp.Error, tc.msg) {
				t.Fatalf("expected message containing %q, got %q", tc.msg, resp.Error)
			}
		})
	}

	t.Run("valid preview", func(t *testing.T) {
		w := doJSON(t, h, http.MethodPost, "/v1/grants/preview", api.GrantPreviewRequest{GrantTerms: api.GrantTerms{
			Cost: 600, PercentAssign: 100, VestingMonths: 3,
		}})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		resp := decodeBody[api.GrantPreviewResponse](t, w)
		assign := resp.Schedule[grant.RoleAssign]
		if len(assign) != 3 || assign[2].UnlockOffset != 7_776_000 || assign.Total() != 600 {
			t.Fatalf("unexpected assign grant: %+v", assign)
		}
		if resp.Summary.VestingEnd != 7_776_000 {
			t.Fatalf("unexpected summary: %+v", resp.Summary)
		}
	})
}

func TestMilestoneSubtaskFlow(t *testing.T) {
	srv := newHandlerTestServer(t)
	h := srv.routes()

	w := doJSON(t, h, http.MethodPost, "/v1/milestones", api.MilestoneCreateRequest{
		DAO: "dao.near", Repo: "frontend", Name: "v2", Manager: "alice",
		ManagerReward: 300, Budget: 1200, VestingMonths: 3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	milestone := decodeBody[api.TaskResponse](t, w)
	if milestone.Balance != 1200 || milestone.Reward != 1500 {
		t.Fatalf("unexpected milestone: %+v", milestone.Task)
	}

	w = doJSON(t, h, http.MethodPost, "/v1/milestones/"+milestone.ID+"/tasks", api.SubtaskCreateRequest{
		Name: "ui", Amount: 600, PercentAssign: 50, PercentReview: 30, PercentManager: 20,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	sub := decodeBody[api.TaskResponse](t, w)
	if sub.Name != "v2:ui" || sub.MilestoneID != milestone.ID {
		t.Fatalf("unexpected subtask: %+v", sub.Task)
	}

	w = doJSON(t, h, http.MethodPost, "/v1/milestones/"+milestone.ID+"/tasks", api.SubtaskCreateRequest{
		Name: "api", Amount: 601, PercentAssign: 50, PercentReview: 30, PercentManager: 20,
	})
	expectErrorCode(t, w, http.StatusConflict, ErrCodeInsufficientBudget)

	w = doJSON(t, h, http.MethodGet, "/v1/tasks?milestone="+milestone.ID, nil)
	if list := decodeBody[[]api.TaskResponse](t, w); len(list) != 1 || list[0].ID != sub.ID {
		t.Fatalf("unexpected milestone listing: %+v", list)
	}

	w = doJSON(t, h, http.MethodDelete, "/v1/tasks/"+milestone.ID, nil)
	expectErrorCode(t, w, http.StatusConflict, ErrCodeMilestoneHasTasks)

	w = doJSON(t, h, http.MethodPost, "/v1/milestones/tk-zzzzzz/tasks", api.SubtaskCreateRequest{
		Name: "x", Amount: 10, PercentAssign: 100,
	})
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeMilestoneNotFound)
}

func TestTaskRoutes_InvalidInput(t *testing.T) {
	srv := newHandlerTestServer(t)
	h := srv.routes()

	w := doJSON(t, h, http.MethodGet, "/v1/tasks/not-an-id", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidID)

	w = doJSON(t, h, http.MethodGet, "/v1/tasks/tk-000000", nil)
	expectErrorCode(t, w, http.StatusNotFound, ErrCodeTaskNotFound)

	w = doJSON(t, h, http.MethodGet, "/v1/tasks?kind=epic", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidKind)

	w = doJSON(t, h, http.MethodGet, "/v1/tasks?offset=5", nil)
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidQuery)

	w = doJSON(t, h, http.MethodPost, "/v1/tasks", map[string]any{
		"dao": "dao.near", "repo": "frontend", "name": "bad name", "cost": 10, "percent_assign": 100,
	})
	expectErrorCode(t, w, http.StatusBadRequest, ErrCodeInvalidName)
}

func TestMetaRoutes(t *testing.T) {
	srv := newHandlerTestServer(t)
	h := srv.routes()

	w := doJSON(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type: %q", w.Header().Get("Content-Type"))
	}

	w = doJSON(t, h, http.MethodPost, "/v1/milestones", api.MilestoneCreateRequest{
		DAO: "dao.near", Repo: "frontend", Name: "v1", ManagerReward: 10, Budget: 90,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, h, http.MethodGet, "/v1/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from info, got %d (%s)", w.Code, w.Body.String())
	}
	info := decodeBody[api.InfoResponse](t, w)
	if info.ProjectPrefix != "tk" || info.TotalTasks != 1 || info.TaskCounts["milestone"] != 1 || info.AuthRequired || info.MaxVestingMonths != 60 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if filepath.Base(info.DBPath) != "handlers_test.db" {
		t.Fatalf("expected db path in info, got %q", info.DBPath)
	}

	w = doJSON(t, h, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "daotask_schedules_computed_total") {
		t.Fatal("expected schedules counter in metrics output")
	}
}
