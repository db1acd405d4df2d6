package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shaiso/Enrolla/internal/flow"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(service.UserConfig{
		Store:  repo.NewMemoryUserStore(),
		Logger: logger,
	})
	progress := service.NewProgressService(service.ProgressConfig{
		Graph:  flow.Fallback(),
		Store:  repo.NewMemoryProgressStore(),
		Logger: logger,
	})

	mux := http.NewServeMux()
	NewHandler(Config{Users: users, Progress: progress, Logger: logger}).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, envelope
}

func registerUser(t *testing.T, srv *httptest.Server, email string) UserResponse {
	t.Helper()

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users", `{"email":"`+email+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var user UserResponse
	if err := json.Unmarshal(envelope["data"], &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return user
}

func TestRegisterUser(t *testing.T) {
	srv := newTestServer(t)

	user := registerUser(t, srv, "Ada@Example.com")
	if user.Email != "ada@example.com" || user.ID == "" {
		t.Errorf("user = %+v", user)
	}

	// Повторная регистрация того же email.
	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users", `{"email":"ada@example.com"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d", resp.StatusCode)
	}
	var detail ErrorDetail
	if err := json.Unmarshal(envelope["error"], &detail); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if detail.Code != ErrCodeConflict {
		t.Errorf("code = %s", detail.Code)
	}
}

func TestRegisterUser_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"email"`},
		{"invalid email", `{"email":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d", resp.StatusCode)
			}
		})
	}
}

func TestGetUser_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/users/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestListUsers(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "a@x.com")
	registerUser(t, srv, "b@x.com")

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/users?limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var users []UserResponse
	if err := json.Unmarshal(envelope["data"], &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("users = %d, want 1", len(users))
	}
}

func TestGetFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/flow", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var steps []StepResponse
	if err := json.Unmarshal(envelope["data"], &steps); err != nil {
		t.Fatalf("decode steps: %v", err)
	}
	if len(steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(steps))
	}
	if steps[0].Name != "Personal Details Form" || len(steps[1].Tasks) != 1 {
		t.Errorf("steps[0] = %+v, steps[1].Tasks = %+v", steps[0], steps[1].Tasks)
	}
}

func TestCompleteStep_FullFlow(t *testing.T) {
	srv := newTestServer(t)
	user := registerUser(t, srv, "ada@example.com")
	base := srv.URL + "/api/v1/users/" + user.ID

	// Начальная позиция.
	resp, envelope := doJSON(t, http.MethodGet, base+"/position", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("position status = %d", resp.StatusCode)
	}
	var pos PositionResponse
	if err := json.Unmarshal(envelope["data"], &pos); err != nil {
		t.Fatalf("decode position: %v", err)
	}
	if pos.StepName != "Personal Details Form" || pos.Finished {
		t.Errorf("position = %+v", pos)
	}

	// Сабмит первого шага.
	resp, envelope = doJSON(t, http.MethodPost,
		base+"/steps/Personal%20Details%20Form/complete",
		`{"first_name":"Ada","last_name":"L","email":"ada@example.com"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}
	var submission SubmissionResponse
	if err := json.Unmarshal(envelope["data"], &submission); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if !submission.Applied || !submission.Accepted {
		t.Errorf("submission = %+v", submission)
	}

	// Позиция сдвинулась на следующий шаг.
	_, envelope = doJSON(t, http.MethodGet, base+"/position", "")
	if err := json.Unmarshal(envelope["data"], &pos); err != nil {
		t.Fatalf("decode position: %v", err)
	}
	if pos.StepName != "IQ Test" {
		t.Errorf("position = %+v", pos)
	}

	// Статус пересчитывается на чтении.
	resp, envelope = doJSON(t, http.MethodGet, base+"/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status status = %d", resp.StatusCode)
	}
	var status StatusResponse
	if err := json.Unmarshal(envelope["data"], &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if string(status.Status) != "IN_PROGRESS" {
		t.Errorf("status = %+v", status)
	}
}

func TestCompleteStep_Errors(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/api/v1/users/u1/steps"

	resp, _ := doJSON(t, http.MethodPost, base+"/No%20Such%20Step/complete", `{}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown step status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, base+"/Payment/complete", `{"broken"`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", resp.StatusCode)
	}
}

func TestCompleteStep_EmptyBodyIsNoopPayload(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodPost,
		srv.URL+"/api/v1/users/u1/steps/Payment/complete", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var submission SubmissionResponse
	if err := json.Unmarshal(envelope["data"], &submission); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	// Единственная задача шага забирает любой payload, даже пустой.
	if !submission.Applied || submission.TaskName != "Complete payment" {
		t.Errorf("submission = %+v", submission)
	}
}

func TestGetUserFlow_ReflectsProgress(t *testing.T) {
	srv := newTestServer(t)
	user := registerUser(t, srv, "ada@example.com")
	base := srv.URL + "/api/v1/users/" + user.ID

	resp, _ := doJSON(t, http.MethodPost, base+"/steps/IQ%20Test/complete",
		`{"test_id":"t1","score":70}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}

	_, envelope := doJSON(t, http.MethodGet, base+"/flow", "")
	var steps []StepResponse
	if err := json.Unmarshal(envelope["data"], &steps); err != nil {
		t.Fatalf("decode steps: %v", err)
	}
	// После провала открылась пересдача.
	if len(steps[1].Tasks) != 2 {
		t.Errorf("IQ Test tasks = %+v", steps[1].Tasks)
	}
	if steps[1].Tasks[0].Status != "REJECTED" {
		t.Errorf("take status = %s", steps[1].Tasks[0].Status)
	}
}
