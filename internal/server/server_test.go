package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smallbiznis/quotesync/internal/config"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	netsuitedomain "github.com/smallbiznis/quotesync/internal/netsuite/domain"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeConfigService struct {
	getErr     error
	createErr  error
	addLineErr error
}

func (f *fakeConfigService) Create(ctx context.Context, req configdomain.CreateRequest) (*configdomain.Response, error) {
	_ = ctx
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &configdomain.Response{ID: "1", Name: req.Name, Version: 1}, nil
}

func (f *fakeConfigService) Get(ctx context.Context, id string) (*configdomain.Response, error) {
	_ = ctx
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &configdomain.Response{ID: id, Name: "Rack Build", Version: 1}, nil
}

func (f *fakeConfigService) Update(ctx context.Context, req configdomain.UpdateRequest) (*configdomain.Response, error) {
	_ = ctx
	return &configdomain.Response{ID: req.ID, Version: 2}, nil
}

func (f *fakeConfigService) AddLine(ctx context.Context, configID string, req configdomain.LineRequest) (*configdomain.LineResponse, error) {
	_ = ctx
	_ = configID
	if f.addLineErr != nil {
		return nil, f.addLineErr
	}
	return &configdomain.LineResponse{ID: "10", ItemRef: req.ItemRef}, nil
}

func (f *fakeConfigService) UpdateLine(ctx context.Context, configID, lineID string, req configdomain.LineRequest) (*configdomain.LineResponse, error) {
	_ = ctx
	_ = configID
	_ = req
	return &configdomain.LineResponse{ID: lineID}, nil
}

func (f *fakeConfigService) RemoveLine(ctx context.Context, configID, lineID string) error {
	_ = ctx
	_ = configID
	_ = lineID
	return nil
}

func (f *fakeConfigService) Summary(ctx context.Context, id string) (*configdomain.SummaryResponse, error) {
	_ = ctx
	_ = id
	return &configdomain.SummaryResponse{}, nil
}

type fakeSubmissionService struct {
	submitErr error
	calls     int
}

func (f *fakeSubmissionService) SubmitConfiguration(ctx context.Context, configID string) (*submissiondomain.Response, error) {
	_ = ctx
	f.calls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &submissiondomain.Response{
		ConfigurationID: configID,
		ConfigVersion:   1,
		Status:          submissiondomain.StatusSuccess,
		Attempts:        1,
	}, nil
}

func (f *fakeSubmissionService) List(ctx context.Context, configID string) ([]submissiondomain.Response, error) {
	_ = ctx
	_ = configID
	return []submissiondomain.Response{}, nil
}

type fakeNetSuiteClient struct{}

func (f *fakeNetSuiteClient) Search(ctx context.Context, recordType string, query map[string]string) (json.RawMessage, error) {
	_ = ctx
	_ = query
	return json.RawMessage(`{"recordType":"` + recordType + `","results":[]}`), nil
}

func (f *fakeNetSuiteClient) GetEstimate(ctx context.Context, estimateRef string) (*netsuitedomain.Estimate, error) {
	_ = ctx
	return &netsuitedomain.Estimate{ID: estimateRef, TranID: "EST-" + estimateRef}, nil
}

func (f *fakeNetSuiteClient) WriteLines(ctx context.Context, req netsuitedomain.WriteLinesRequest) (*netsuitedomain.WriteLinesResponse, error) {
	_ = ctx
	_ = req
	return &netsuitedomain.WriteLinesResponse{ReferenceID: "EST-REF-1"}, nil
}

func newTestServer(configSvc configdomain.Service, submissionSvc submissiondomain.Service) *Server {
	cfg := config.Config{Environment: "test", HTTPAddr: ":0"}
	engine := NewEngine(cfg, zap.NewNop())
	return NewServer(ServerParams{
		Gin:           engine,
		Cfg:           cfg,
		ConfigSvc:     configSvc,
		SubmissionSvc: submissionSvc,
		NetSuite:      &fakeNetSuiteClient{},
	})
}

func perform(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{})

	rec := perform(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateConfigurationRoute(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{})

	rec := perform(s, http.MethodPost, "/v1/configurations", map[string]any{"name": "Rack Build"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data configdomain.Response `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Rack Build", body.Data.Name)
}

func TestCreateConfiguration_ValidationError(t *testing.T) {
	s := newTestServer(&fakeConfigService{createErr: configdomain.ErrInvalidName}, &fakeSubmissionService{})

	rec := perform(s, http.MethodPost, "/v1/configurations", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body.Error.Type)
	assert.Equal(t, "invalid_name", body.Error.Errors[0].Code)
	assert.Equal(t, "name", body.Error.Errors[0].Field)
}

func TestGetConfiguration_NotFound(t *testing.T) {
	s := newTestServer(&fakeConfigService{getErr: configdomain.ErrNotFound}, &fakeSubmissionService{})

	rec := perform(s, http.MethodGet, "/v1/configurations/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body.Error.Type)
}

func TestSubmitRoute(t *testing.T) {
	subs := &fakeSubmissionService{}
	s := newTestServer(&fakeConfigService{}, subs)

	rec := perform(s, http.MethodPost, "/v1/configurations/1/submit", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, subs.calls)

	var body struct {
		Data submissiondomain.Response `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, submissiondomain.StatusSuccess, body.Data.Status)
}

func TestSubmitRoute_EmptyConfiguration(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{
		submitErr: submissiondomain.ErrEmptyConfiguration,
	})

	rec := perform(s, http.MethodPost, "/v1/configurations/1/submit", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSubmitRoute_RemoteFailure(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{
		submitErr: &netsuitedomain.RemoteError{Status: 500, Message: "internal error"},
	})

	rec := perform(s, http.MethodPost, "/v1/configurations/1/submit", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body errorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_error", body.Error.Type)
}

func TestSubmitRoute_UpstreamTimeout(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{
		submitErr: netsuitedomain.ErrTimeout,
	})

	rec := perform(s, http.MethodPost, "/v1/configurations/1/submit", nil)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestNetSuiteSearchRoute_RequiresRecordType(t *testing.T) {
	s := newTestServer(&fakeConfigService{}, &fakeSubmissionService{})

	rec := perform(s, http.MethodGet, "/v1/netsuite/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(s, http.MethodGet, "/v1/netsuite/search?recordType=item", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
