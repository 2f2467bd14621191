package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
)

// Responses larger than this are cut off; a schedule list should never
// come close.
const maxResponseSize = 10 * 1024 * 1024

// envelope is the core backend's uniform response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// httpClient implements all three API interfaces over HTTP.
type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds the aggregate client from configuration.
func NewHTTPClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	c := &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	return &Client{Schedule: c, Group: c, Generation: c}
}

// ── ScheduleAPI ──

func (c *httpClient) List(ctx context.Context, filter dto.ScheduleFilter) ([]model.ScheduleRecord, error) {
	q := url.Values{}
	if filter.GroupID != 0 {
		q.Set("group_id", strconv.FormatInt(filter.GroupID, 10))
	}
	if filter.TeacherID != 0 {
		q.Set("teacher_id", strconv.FormatInt(filter.TeacherID, 10))
	}
	if filter.RoomID != 0 {
		q.Set("room_id", strconv.FormatInt(filter.RoomID, 10))
	}
	if filter.Mode != "" {
		q.Set("delivery_mode", string(filter.Mode))
	}
	if !filter.FromDate.IsZero() {
		q.Set("from_date", filter.FromDate.Format("2006-01-02"))
	}
	if !filter.ToDate.IsZero() {
		q.Set("to_date", filter.ToDate.Format("2006-01-02"))
	}

	var records []model.ScheduleRecord
	if err := c.do(ctx, http.MethodGet, "/schedules", q, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *httpClient) Search(ctx context.Context, query string) ([]model.ScheduleRecord, error) {
	q := url.Values{}
	q.Set("query", query)

	var records []model.ScheduleRecord
	if err := c.do(ctx, http.MethodGet, "/schedules/search", q, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *httpClient) GetByID(ctx context.Context, id int64) (*model.ScheduleRecord, error) {
	var rec model.ScheduleRecord
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schedules/%d", id), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *httpClient) Create(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error) {
	var created model.ScheduleRecord
	if err := c.do(ctx, http.MethodPost, "/schedules", nil, rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *httpClient) Update(ctx context.Context, rec *model.ScheduleRecord) (*model.ScheduleRecord, error) {
	var updated model.ScheduleRecord
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/schedules/%d", rec.ID), nil, rec, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *httpClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/schedules/%d", id), nil, nil, nil)
}

// ── GroupAPI ──

func (c *httpClient) ListGroups(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := c.do(ctx, http.MethodGet, "/groups", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *httpClient) ListTemplates(ctx context.Context, groupID int64) ([]model.WeeklyTemplate, error) {
	var templates []model.WeeklyTemplate
	path := fmt.Sprintf("/groups/%d/weekly-templates", groupID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// ── GenerationAPI ──

type generateWeeklyRequest struct {
	GroupID   int64  `json:"group_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type bulkGenerateRequest struct {
	GroupIDs  []int64 `json:"group_ids"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

type dateRangeRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (c *httpClient) GenerateWeekly(ctx context.Context, groupID int64, from, to time.Time) (*GenerationResult, error) {
	body := generateWeeklyRequest{
		GroupID:   groupID,
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.Format("2006-01-02"),
	}
	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/schedules/generate-weekly", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) BulkGenerate(ctx context.Context, groupIDs []int64, from, to time.Time) (*GenerationResult, error) {
	body := bulkGenerateRequest{
		GroupIDs:  groupIDs,
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.Format("2006-01-02"),
	}
	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/schedules/bulk-generate", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) BulkGenerateAll(ctx context.Context, from, to time.Time) (*GenerationResult, error) {
	body := dateRangeRequest{
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.Format("2006-01-02"),
	}
	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/schedules/bulk-generate-all", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) GenerateNextWeek(ctx context.Context) (*GenerationResult, error) {
	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/schedules/generate-next-week", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) TriggerAutoGeneration(ctx context.Context) (*GenerationResult, error) {
	var result GenerationResult
	if err := c.do(ctx, http.MethodPost, "/schedules/trigger-auto-generation", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ── transport ──

// do issues one request and decodes the enveloped response into out
// (out may be nil for delete-style calls).
func (c *httpClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		c.logger.Warn("upstream rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", ErrUnavailable, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrUnavailable, err)
	}
	return nil
}
