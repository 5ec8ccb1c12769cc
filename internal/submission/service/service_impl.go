package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotesync/internal/clock"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	"github.com/smallbiznis/quotesync/internal/netsuite"
	netsuitedomain "github.com/smallbiznis/quotesync/internal/netsuite/domain"
	"github.com/smallbiznis/quotesync/internal/pricing"
	"github.com/smallbiznis/quotesync/internal/retry"
	submissiondomain "github.com/smallbiznis/quotesync/internal/submission/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       submissiondomain.Repository
	configRepo configdomain.Repository
	client     netsuitedomain.Client
	retryOpts  retry.Options
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       submissiondomain.Repository
	ConfigRepo configdomain.Repository
	Client     netsuitedomain.Client
}

func NewService(p ServiceParam) submissiondomain.Service {
	return &Service{
		log:        p.Log.Named("submission.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		configRepo: p.ConfigRepo,
		client:     p.Client,
		retryOpts:  retry.Options{ShouldRetry: netsuite.ShouldRetry},
	}
}

// SubmitConfiguration pushes the current snapshot of one configuration to
// NetSuite. Steps run strictly in order: load, derive the idempotency key,
// claim the submission row, build and persist the payload, call through the
// retry policy, finalize. A prior SUCCESS for the same (configuration,
// version) short-circuits before any side effect.
func (s *Service) SubmitConfiguration(ctx context.Context, configID string) (*submissiondomain.Response, error) {
	id, err := parseID(configID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}

	cfg, err := s.configRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, configdomain.ErrNotFound
	}

	lines, err := s.configRepo.ListLineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, submissiondomain.ErrEmptyConfiguration
	}
	if cfg.EstimateRef == nil || strings.TrimSpace(*cfg.EstimateRef) == "" {
		return nil, submissiondomain.ErrMissingExternalReference
	}

	key := submissiondomain.IdempotencyKey(cfg.ID, cfg.Version)

	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == submissiondomain.StatusSuccess {
		s.log.Info("submission short-circuited by prior success",
			zap.String("idempotency_key", key),
		)
		return submissiondomain.NewResponse(existing), nil
	}

	sub, claimed, err := s.repo.Claim(ctx, &submissiondomain.Submission{
		ID:              s.genID.Generate(),
		ConfigurationID: cfg.ID,
		ConfigVersion:   cfg.Version,
		IdempotencyKey:  key,
		Status:          submissiondomain.StatusInProgress,
		Attempts:        1,
	})
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Lost the race; the winner finished successfully.
		return submissiondomain.NewResponse(sub), nil
	}

	return s.run(ctx, cfg, lines, sub)
}

// run executes the network half of the pipeline. The deferred finalizer
// guarantees that no escaping error (or panic) leaves the claimed row
// stuck in IN_PROGRESS.
func (s *Service) run(
	ctx context.Context,
	cfg *configdomain.Configuration,
	lines []configdomain.LineItem,
	sub *submissiondomain.Submission,
) (resp *submissiondomain.Response, err error) {
	finalized := false
	defer func() {
		if finalized {
			return
		}
		message := "submission aborted"
		if err != nil {
			message = err.Error()
		}
		submissionFailures.Inc()
		if markErr := s.repo.MarkFailed(ctx, sub.ID, message); markErr != nil {
			s.log.Error("failed to record submission failure",
				zap.String("idempotency_key", sub.IdempotencyKey),
				zap.Error(markErr),
			)
		}
		if statusErr := s.configRepo.UpdateStatus(ctx, cfg.ID, configdomain.ConfigStatusError, &message); statusErr != nil {
			s.log.Error("failed to flag configuration error",
				zap.String("configuration_id", cfg.ID.String()),
				zap.Error(statusErr),
			)
		}
	}()

	// The payload is a pure function of stored state at call time; it is
	// rebuilt on every attempt rather than replayed from a prior one.
	payload := buildPayload(cfg, lines, sub.IdempotencyKey)
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err = s.repo.SavePayload(ctx, sub.ID, raw); err != nil {
		return nil, err
	}

	submissionAttempts.Inc()
	start := s.clock.Now()
	result, err := retry.Do(ctx, func(callCtx context.Context) (*netsuitedomain.WriteLinesResponse, error) {
		return s.client.WriteLines(callCtx, payload)
	}, s.retryOpts)
	writeLinesDuration.Observe(s.clock.Now().Sub(start).Seconds())
	if err != nil {
		s.log.Warn("netsuite write failed after retries",
			zap.String("idempotency_key", sub.IdempotencyKey),
			zap.Error(err),
		)
		return nil, err
	}

	if err = s.repo.MarkSuccess(ctx, sub.ID, result.Raw, result.ReferenceID); err != nil {
		return nil, err
	}
	finalized = true
	submissionSuccesses.Inc()

	// Best effort past this point: the remote write happened and the row is
	// terminal SUCCESS.
	if statusErr := s.configRepo.UpdateStatus(ctx, cfg.ID, configdomain.ConfigStatusSubmitted, nil); statusErr != nil {
		s.log.Error("failed to flag configuration submitted",
			zap.String("configuration_id", cfg.ID.String()),
			zap.Error(statusErr),
		)
	}

	final, err := s.repo.FindByKey(ctx, sub.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if final == nil {
		return nil, submissiondomain.ErrSubmissionNotFound
	}

	s.log.Info("submission succeeded",
		zap.String("idempotency_key", sub.IdempotencyKey),
		zap.String("netsuite_ref", result.ReferenceID),
		zap.Int("attempts", final.Attempts),
	)
	return submissiondomain.NewResponse(final), nil
}

func (s *Service) List(ctx context.Context, configID string) ([]submissiondomain.Response, error) {
	id, err := parseID(configID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}

	subs, err := s.repo.ListByConfiguration(ctx, id)
	if err != nil {
		return nil, err
	}

	responses := make([]submissiondomain.Response, 0, len(subs))
	for i := range subs {
		responses = append(responses, *submissiondomain.NewResponse(&subs[i]))
	}
	return responses, nil
}

// buildPayload derives the wire payload from the configuration's current
// line items; rates come out of the pricing calculator, so the figure pushed
// to NetSuite always matches what the UI shows.
func buildPayload(
	cfg *configdomain.Configuration,
	lines []configdomain.LineItem,
	idempotencyKey string,
) netsuitedomain.WriteLinesRequest {
	wireLines := make([]netsuitedomain.EstimateLine, 0, len(lines))
	for _, line := range lines {
		computed := pricing.ComputeLineItem(pricing.LineItemInput{
			UnitCost:      line.UnitCost,
			Quantity:      line.Quantity,
			TargetMargin:  line.TargetMargin,
			ProductPrice:  line.ProductPrice,
			PriceOverride: line.PriceOverride,
			TariffPercent: line.TariffPercent,
		})
		wireLines = append(wireLines, netsuitedomain.EstimateLine{
			ItemID:        line.ItemRef,
			Quantity:      line.Quantity,
			Rate:          computed.ProductPrice,
			Description:   line.Description,
			CustomColumns: line.CustomColumns,
		})
	}

	return netsuitedomain.WriteLinesRequest{
		EstimateID:     *cfg.EstimateRef,
		IdempotencyKey: idempotencyKey,
		ConfigVersion:  cfg.Version,
		ReplaceLines:   cfg.ReplaceLines,
		Lines:          wireLines,
		CustomFields:   cfg.CustomFields,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
