package netsuite

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smallbiznis/quotesync/internal/netsuite/domain"
	"go.uber.org/zap"
)

// MockClient is the dev-mode variant of the NetSuite capability. It accepts
// every write and hands back synthetic reference ids, keeping the rest of the
// pipeline honest without a sandbox account.
type MockClient struct {
	log *zap.Logger

	mu     sync.Mutex
	seq    int
	writes map[string]*domain.WriteLinesResponse
}

func NewMockClient(log *zap.Logger) *MockClient {
	return &MockClient{
		log:    log.Named("netsuite.mock"),
		writes: make(map[string]*domain.WriteLinesResponse),
	}
}

func (m *MockClient) Search(ctx context.Context, recordType string, query map[string]string) (json.RawMessage, error) {
	_ = ctx
	_ = query
	return json.RawMessage(fmt.Sprintf(`{"recordType":%q,"results":[]}`, recordType)), nil
}

func (m *MockClient) GetEstimate(ctx context.Context, estimateRef string) (*domain.Estimate, error) {
	_ = ctx
	return &domain.Estimate{
		ID:     estimateRef,
		TranID: "EST-" + estimateRef,
		Status: "open",
	}, nil
}

func (m *MockClient) WriteLines(ctx context.Context, req domain.WriteLinesRequest) (*domain.WriteLinesResponse, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	// Honor the idempotency key the way the real endpoint is expected to.
	if existing, ok := m.writes[req.IdempotencyKey]; ok {
		return existing, nil
	}

	m.seq++
	resp := &domain.WriteLinesResponse{
		ReferenceID: fmt.Sprintf("MOCK-%d", m.seq),
	}
	m.writes[req.IdempotencyKey] = resp

	m.log.Info("mock write accepted",
		zap.String("estimate_id", req.EstimateID),
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.Int("lines", len(req.Lines)),
	)
	return resp, nil
}

// WriteCount reports how many distinct idempotency keys have been written.
func (m *MockClient) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}
