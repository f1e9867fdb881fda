package myhours

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/mhoersch/hoursheet/internal/model"
)

// Client is the authenticated CRUD surface of the MyHours API. Every
// call runs through an oauth2 transport backed by the TokenManager, so
// the session is validated (and refreshed at most once) per request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client over the manager's session. A fake base
// transport can be injected for tests via the oauth2.HTTPClient context
// value.
func NewClient(ctx context.Context, tm *TokenManager) *Client {
	return &Client{
		baseURL:    tm.baseURL,
		httpClient: oauth2.NewClient(ctx, tm.TokenSource(ctx)),
	}
}

// LogsForDate fetches all logs for an ISO calendar day.
func (c *Client) LogsForDate(ctx context.Context, date string) ([]model.Log, error) {
	query := url.Values{
		"date":       {date},
		"startIndex": {"0"},
		"step":       {"1000"},
	}

	var logs []model.Log
	if err := c.do(ctx, http.MethodGet, "/logs?"+query.Encode(), nil, http.StatusOK, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// insertLogRequest defaults the billing flag to false when the log does
// not carry one.
type insertLogRequest struct {
	model.Log
	Billable bool `json:"billable"`
}

// CreateLog persists a draft and returns the server-assigned log.
func (c *Client) CreateLog(ctx context.Context, log model.Log) (model.Log, error) {
	body := insertLogRequest{Log: log, Billable: log.Billable != nil && *log.Billable}

	var created model.Log
	if err := c.do(ctx, http.MethodPost, "/logs/insertlog", body, http.StatusCreated, &created); err != nil {
		return model.Log{}, err
	}
	return created, nil
}

// EditLog updates a persisted log.
func (c *Client) EditLog(ctx context.Context, log model.Log) (model.Log, error) {
	if log.ID == nil {
		return model.Log{}, &PreconditionError{Op: "edit a log", Need: "a persisted log id"}
	}

	var updated model.Log
	path := "/logs?id=" + strconv.FormatInt(*log.ID, 10)
	if err := c.do(ctx, http.MethodPut, path, log, http.StatusOK, &updated); err != nil {
		return model.Log{}, err
	}
	return updated, nil
}

// DeleteLog removes a persisted log.
func (c *Client) DeleteLog(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/Logs/"+strconv.FormatInt(id, 10), nil, http.StatusOK, nil)
}

// Projects fetches all projects visible to the user.
func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.do(ctx, http.MethodGet, "/Projects", nil, http.StatusOK, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// taskListResponse is one element of the tasklist endpoint's payload.
type taskListResponse struct {
	IncompletedTasks []model.Task `json:"incompletedTasks"`
}

// Tasks fetches the incomplete tasks of a project. An empty or malformed
// response yields an empty list rather than an error.
func (c *Client) Tasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	path := "/Projects/" + strconv.FormatInt(projectID, 10) + "/tasklist"
	data, err := c.doRaw(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var lists []taskListResponse
	if err := json.Unmarshal(data, &lists); err != nil || len(lists) == 0 {
		return []model.Task{}, nil
	}
	if lists[0].IncompletedTasks == nil {
		return []model.Task{}, nil
	}
	return lists[0].IncompletedTasks, nil
}

// createTaskRequest defaults the list name and billing flag.
type createTaskRequest struct {
	model.Task
	ListName string `json:"listName"`
	Billable bool   `json:"billable"`
}

// CreateTask creates a task under a project and returns it with its
// server-assigned id.
func (c *Client) CreateTask(ctx context.Context, task model.Task, projectID int64) (model.Task, error) {
	body := createTaskRequest{Task: task, ListName: "Task list", Billable: false}

	var created model.Task
	path := "/projects/" + strconv.FormatInt(projectID, 10) + "/task"
	if err := c.do(ctx, http.MethodPost, path, body, http.StatusOK, &created); err != nil {
		return model.Task{}, err
	}
	return created, nil
}

// do sends one API request and decodes the response into out (when out
// is non-nil). A status other than wantStatus becomes a RequestError
// with the extracted server message.
func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	data, err := c.doRaw(ctx, method, path, body, wantStatus)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// doRaw sends one API request and returns the raw response body.
func (c *Client) doRaw(ctx context.Context, method, path string, body any, wantStatus int) ([]byte, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("api-version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Token source failures (precondition, rejected refresh) surface
		// here wrapped in a *url.Error; keep the chain intact.
		return nil, fmt.Errorf("myhours request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return nil, errorFromResponse(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}
