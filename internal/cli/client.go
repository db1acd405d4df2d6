package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// UserResponse — пользователь из API.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// TaskResponse — задача шага из API.
type TaskResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// StepResponse — шаг процесса из API.
type StepResponse struct {
	ID     int            `json:"id"`
	Name   string         `json:"name"`
	Status string         `json:"status"`
	Tasks  []TaskResponse `json:"tasks"`
}

// PositionResponse — текущая позиция из API.
type PositionResponse struct {
	StepName string `json:"step_name,omitempty"`
	TaskName string `json:"task_name,omitempty"`
	Finished bool   `json:"finished"`
}

// StatusResponse — итоговый статус из API.
type StatusResponse struct {
	Status string `json:"status"`
}

// SubmissionResponse — исход сабмита из API.
type SubmissionResponse struct {
	StepName string `json:"step_name"`
	TaskName string `json:"task_name,omitempty"`
	Applied  bool   `json:"applied"`
	Accepted bool   `json:"accepted"`
	Overall  string `json:"overall_status"`
}

// --- Request types ---

// RegisterUserRequest — регистрация абитуриента.
type RegisterUserRequest struct {
	Email string `json:"email"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Enrolla API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Users ---

// RegisterUser регистрирует нового абитуриента.
func (c *Client) RegisterUser(email string) (*UserResponse, error) {
	var user UserResponse
	err := c.post("/api/v1/users", RegisterUserRequest{Email: email}, &user)
	return &user, err
}

// GetUser возвращает пользователя по ID.
func (c *Client) GetUser(id string) (*UserResponse, error) {
	var user UserResponse
	err := c.get("/api/v1/users/"+id, &user)
	return &user, err
}

// ListUsers возвращает список пользователей.
func (c *Client) ListUsers(limit int) ([]UserResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var users []UserResponse
	err := c.list("/api/v1/users", params, &users)
	return users, err
}

// --- Flow ---

// GetFlow возвращает процесс глазами нового пользователя.
func (c *Client) GetFlow() ([]StepResponse, error) {
	var steps []StepResponse
	err := c.get("/api/v1/flow", &steps)
	return steps, err
}

// GetUserFlow возвращает процесс глазами конкретного пользователя.
func (c *Client) GetUserFlow(userID string) ([]StepResponse, error) {
	var steps []StepResponse
	err := c.get("/api/v1/users/"+userID+"/flow", &steps)
	return steps, err
}

// --- Progress ---

// GetPosition возвращает текущую позицию абитуриента.
func (c *Client) GetPosition(userID string) (*PositionResponse, error) {
	var pos PositionResponse
	err := c.get("/api/v1/users/"+userID+"/position", &pos)
	return &pos, err
}

// GetStatus возвращает итоговый статус абитуриента.
func (c *Client) GetStatus(userID string) (*StatusResponse, error) {
	var status StatusResponse
	err := c.get("/api/v1/users/"+userID+"/status", &status)
	return &status, err
}

// CompleteStep отправляет сабмит шага.
func (c *Client) CompleteStep(userID, stepName string, payload map[string]any) (*SubmissionResponse, error) {
	var result SubmissionResponse
	path := "/api/v1/users/" + userID + "/steps/" + url.PathEscape(stepName) + "/complete"
	err := c.post(path, payload, &result)
	return &result, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
