package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	configdomain "github.com/smallbiznis/quotesync/internal/configuration/domain"
	"github.com/smallbiznis/quotesync/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  configdomain.Repository
}

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  configdomain.Repository
}

func NewService(p ServiceParam) configdomain.Service {
	return &Service{
		log:   p.Log.Named("configuration.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req configdomain.CreateRequest) (*configdomain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, configdomain.ErrInvalidName
	}

	lines := make([]configdomain.LineItem, 0, len(req.Lines))
	for i, lr := range req.Lines {
		if err := lr.Validate(); err != nil {
			return nil, err
		}
		lines = append(lines, s.buildLine(lr, i))
	}

	replaceLines := true
	if req.ReplaceLines != nil {
		replaceLines = *req.ReplaceLines
	}

	cfg := &configdomain.Configuration{
		ID:           s.genID.Generate(),
		Name:         name,
		CustomerName: strings.TrimSpace(req.CustomerName),
		EstimateRef:  req.EstimateRef,
		Status:       configdomain.ConfigStatusDraft,
		Version:      1,
		ReplaceLines: replaceLines,
		CustomFields: datatypes.JSONMap(req.CustomFields),
	}

	if err := s.repo.Create(ctx, cfg, lines); err != nil {
		return nil, err
	}
	s.log.Info("configuration created",
		zap.String("configuration_id", cfg.ID.String()),
		zap.Int("lines", len(lines)),
	)
	return s.toResponse(cfg, lines), nil
}

func (s *Service) Get(ctx context.Context, id string) (*configdomain.Response, error) {
	cfg, lines, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(cfg, lines), nil
}

func (s *Service) Update(ctx context.Context, req configdomain.UpdateRequest) (*configdomain.Response, error) {
	configID, err := parseID(req.ID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, configdomain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.CustomerName != nil {
		fields["customer_name"] = strings.TrimSpace(*req.CustomerName)
	}
	if req.EstimateRef != nil {
		fields["estimate_ref"] = *req.EstimateRef
	}
	if req.ShippingFee != nil {
		if req.ShippingFee.IsNegative() {
			return nil, configdomain.ErrInvalidShippingFee
		}
		fields["shipping_fee"] = *req.ShippingFee
	}
	if req.ShippingOverride != nil {
		fields["shipping_override"] = *req.ShippingOverride
	}
	if req.ReplaceLines != nil {
		fields["replace_lines"] = *req.ReplaceLines
	}
	if req.CustomFields != nil {
		fields["custom_fields"] = datatypes.JSONMap(req.CustomFields)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, configID, fields); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, req.ID)
}

func (s *Service) AddLine(ctx context.Context, configID string, req configdomain.LineRequest) (*configdomain.LineResponse, error) {
	id, err := parseID(configID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListLineItems(ctx, id)
	if err != nil {
		return nil, err
	}

	line := s.buildLine(req, len(existing))
	if err := s.repo.AddLineItem(ctx, id, &line); err != nil {
		return nil, err
	}
	resp := toLineResponse(line)
	return &resp, nil
}

func (s *Service) UpdateLine(ctx context.Context, configID, lineID string, req configdomain.LineRequest) (*configdomain.LineResponse, error) {
	cid, err := parseID(configID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}
	lid, err := parseID(lineID)
	if err != nil {
		return nil, configdomain.ErrInvalidID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.FindLineItem(ctx, cid, lid)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, configdomain.ErrLineNotFound
	}

	line := s.buildLine(req, current.Position)
	line.ID = lid
	line.ConfigurationID = cid
	if err := s.repo.UpdateLineItem(ctx, cid, &line); err != nil {
		return nil, err
	}
	resp := toLineResponse(line)
	return &resp, nil
}

func (s *Service) RemoveLine(ctx context.Context, configID, lineID string) error {
	cid, err := parseID(configID)
	if err != nil {
		return configdomain.ErrInvalidID
	}
	lid, err := parseID(lineID)
	if err != nil {
		return configdomain.ErrInvalidID
	}
	return s.repo.DeleteLineItem(ctx, cid, lid)
}

func (s *Service) Summary(ctx context.Context, id string) (*configdomain.SummaryResponse, error) {
	cfg, lines, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	summaryLines := make([]pricing.SummaryLine, 0, len(lines))
	for _, line := range lines {
		computed := computeLine(line)
		summaryLines = append(summaryLines, pricing.SummaryLine{
			ExtendedCost: computed.ExtendedCost,
			TotalPrice:   computed.TotalPrice,
			Quantity:     line.Quantity,
		})
	}

	summary := pricing.ComputeConfigSummary(summaryLines, cfg.ShippingFee, cfg.ShippingOverride)
	return configdomain.NewSummaryResponse(cfg.ID.String(), cfg.Version, summary), nil
}

func (s *Service) load(ctx context.Context, id string) (*configdomain.Configuration, []configdomain.LineItem, error) {
	configID, err := parseID(id)
	if err != nil {
		return nil, nil, configdomain.ErrInvalidID
	}
	cfg, err := s.repo.FindByID(ctx, configID)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return nil, nil, configdomain.ErrNotFound
	}
	lines, err := s.repo.ListLineItems(ctx, configID)
	if err != nil {
		return nil, nil, err
	}
	return cfg, lines, nil
}

func (s *Service) buildLine(req configdomain.LineRequest, position int) configdomain.LineItem {
	productPrice := decimal.Zero
	if req.ProductPrice != nil {
		productPrice = *req.ProductPrice
	}
	line := configdomain.LineItem{
		ID:            s.genID.Generate(),
		ItemRef:       strings.TrimSpace(req.ItemRef),
		Description:   req.Description,
		Quantity:      req.Quantity,
		UnitCost:      req.UnitCost,
		TargetMargin:  req.TargetMargin,
		ProductPrice:  productPrice,
		PriceOverride: req.PriceOverride,
		TariffPercent: req.TariffPercent,
		Position:      position,
		CustomColumns: datatypes.JSONMap(req.CustomColumns),
	}
	if !line.PriceOverride {
		// Persist the derived price so exports and the wire payload read the
		// same figure the calculator produces.
		line.ProductPrice = computeLine(line).ProductPrice
	}
	return line
}

func computeLine(line configdomain.LineItem) pricing.LineItemComputed {
	return pricing.ComputeLineItem(pricing.LineItemInput{
		UnitCost:      line.UnitCost,
		Quantity:      line.Quantity,
		TargetMargin:  line.TargetMargin,
		ProductPrice:  line.ProductPrice,
		PriceOverride: line.PriceOverride,
		TariffPercent: line.TariffPercent,
	})
}

func (s *Service) toResponse(cfg *configdomain.Configuration, lines []configdomain.LineItem) *configdomain.Response {
	lineResponses := make([]configdomain.LineResponse, 0, len(lines))
	for _, line := range lines {
		lineResponses = append(lineResponses, toLineResponse(line))
	}
	return &configdomain.Response{
		ID:               cfg.ID.String(),
		Name:             cfg.Name,
		CustomerName:     cfg.CustomerName,
		EstimateRef:      cfg.EstimateRef,
		Status:           cfg.Status,
		LastError:        cfg.LastError,
		Version:          cfg.Version,
		ShippingFee:      cfg.ShippingFee,
		ShippingOverride: cfg.ShippingOverride,
		ReplaceLines:     cfg.ReplaceLines,
		CustomFields:     cfg.CustomFields,
		Lines:            lineResponses,
		CreatedAt:        cfg.CreatedAt,
		UpdatedAt:        cfg.UpdatedAt,
	}
}

func toLineResponse(line configdomain.LineItem) configdomain.LineResponse {
	computed := computeLine(line)
	return configdomain.LineResponse{
		ID:            line.ID.String(),
		ItemRef:       line.ItemRef,
		Description:   line.Description,
		Quantity:      line.Quantity,
		UnitCost:      line.UnitCost,
		TargetMargin:  line.TargetMargin,
		PriceOverride: line.PriceOverride,
		TariffPercent: line.TariffPercent,
		Position:      line.Position,
		CustomColumns: line.CustomColumns,
		ProductPrice:  computed.ProductPrice,
		ExtendedCost:  computed.ExtendedCost,
		TotalPrice:    computed.TotalPrice,
		Margin:        computed.Margin,
		TariffAmount:  computed.TariffAmount,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
