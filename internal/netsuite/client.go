package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/smallbiznis/quotesync/internal/config"
	"github.com/smallbiznis/quotesync/internal/netsuite/domain"
	"go.uber.org/zap"
)

// liveClient talks to the NetSuite RESTlet endpoints. Each call is signed
// individually and carries its own timeout; retrying is the caller's concern.
type liveClient struct {
	log     *zap.Logger
	signer  *signer
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewLiveClient validates credentials eagerly and fails fast when any
// required value is absent.
func NewLiveClient(cfg config.NetSuiteConfig, log *zap.Logger) (domain.Client, error) {
	creds := domain.Credentials{
		AccountID:      cfg.AccountID,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		TokenID:        cfg.TokenID,
		TokenSecret:    cfg.TokenSecret,
		BaseURL:        cfg.BaseURL,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &liveClient{
		log:     log.Named("netsuite.client"),
		signer:  newSigner(creds),
		baseURL: creds.BaseURL,
		timeout: timeout,
		client:  &http.Client{},
	}, nil
}

func (c *liveClient) Search(ctx context.Context, recordType string, query map[string]string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("recordType", recordType)
	for key, value := range query {
		params.Set(key, value)
	}
	return c.call(ctx, http.MethodGet, "/search", params, nil)
}

func (c *liveClient) GetEstimate(ctx context.Context, estimateRef string) (*domain.Estimate, error) {
	params := url.Values{}
	params.Set("estimateId", estimateRef)
	raw, err := c.call(ctx, http.MethodGet, "/estimate", params, nil)
	if err != nil {
		return nil, err
	}

	var estimate domain.Estimate
	if err := json.Unmarshal(raw, &estimate); err != nil {
		return nil, err
	}
	estimate.Raw = raw
	return &estimate, nil
}

func (c *liveClient) WriteLines(ctx context.Context, req domain.WriteLinesRequest) (*domain.WriteLinesResponse, error) {
	raw, err := c.call(ctx, http.MethodPost, "/estimate/lines", nil, req)
	if err != nil {
		return nil, err
	}

	var resp domain.WriteLinesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	resp.Raw = raw
	return &resp, nil
}

type remoteErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

func (c *liveClient) call(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	header, err := c.signer.AuthorizationHeader(method, endpoint)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", header)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(callCtx, err) {
			c.log.Warn("netsuite call timed out",
				zap.String("method", method),
				zap.String("path", path),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil, domain.ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := remoteMessage(raw)
		c.log.Warn("netsuite call rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message),
		)
		return nil, &domain.RemoteError{Status: resp.StatusCode, Message: message}
	}

	return json.RawMessage(raw), nil
}

func remoteMessage(raw []byte) string {
	var parsed remoteErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	if len(raw) > 0 {
		return string(raw)
	}
	return "request failed"
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
