package parcel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/paketku/internal/cache"
	"github.com/Additional-Code/paketku/internal/config"
	"github.com/Additional-Code/paketku/internal/dto"
	"github.com/Additional-Code/paketku/internal/entity"
	"github.com/Additional-Code/paketku/internal/messaging"
	repo "github.com/Additional-Code/paketku/internal/repository/parcel"
	"github.com/Additional-Code/paketku/internal/view"
	"github.com/Additional-Code/paketku/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/paketku/service/parcel")

const listCacheKey = "packages:list"

// Repository is the persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	GetByID(ctx context.Context, id int64) (*entity.Package, error)
	List(ctx context.Context) ([]*entity.Package, error)
	Update(ctx context.Context, pkg *entity.Package) error
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates query and mutation logic around packages.
type Service struct {
	repo      Repository
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	notifiers []view.Notifier
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	Notifiers  []view.Notifier `group:"view.notifiers"`
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		notifiers: p.Notifiers,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// List returns packages matching the optional free-text query, ordered by
// the listing policy. The query matches as a case-sensitive substring of
// the tracking number, sender name, or courier.
func (s *Service) List(ctx context.Context, query string) ([]*entity.Package, error) {
	ctx, span := serviceTracer.Start(ctx, "PackageService.List", trace.WithAttributes(attribute.Bool("filtered", query != "")))
	defer span.End()

	all, err := s.loadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load packages", errorbank.WithCause(err))
	}

	matched := all
	if query != "" {
		matched = make([]*entity.Package, 0, len(all))
		for _, pkg := range all {
			if matchesQuery(pkg, query) {
				matched = append(matched, pkg)
			}
		}
	}

	Sort(matched)
	return matched, nil
}

func matchesQuery(pkg *entity.Package, query string) bool {
	return strings.Contains(pkg.TrackingNumber, query) ||
		strings.Contains(pkg.SenderName, query) ||
		strings.Contains(pkg.Courier, query)
}

// Get retrieves a package by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Package, error) {
	ctx, span := serviceTracer.Start(ctx, "PackageService.Get", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	if pkg, err := s.getFromCache(ctx, id); err == nil {
		return pkg, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("packages cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load package", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, pkg); err != nil {
		if s.logger != nil {
			s.logger.Warn("packages cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return pkg, nil
}

// Create validates and persists a new package. New packages always start
// waiting; the COD amount is required for COD packages and dropped otherwise.
func (s *Service) Create(ctx context.Context, input dto.CreatePackageRequest) (*entity.Package, error) {
	ctx, span := serviceTracer.Start(ctx, "PackageService.Create", trace.WithAttributes(attribute.String("package.tracking_number", input.TrackingNumber)))
	defer span.End()

	if err := validateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	pkg := &entity.Package{
		PackageName:    input.PackageName,
		SenderName:     input.SenderName,
		SenderAddress:  input.SenderAddress,
		Courier:        input.Courier,
		TrackingNumber: input.TrackingNumber,
		RecipientPhone: input.RecipientPhone,
		IsCod:          input.IsCod,
		CodAmount:      input.CodAmount,
		DeliveryStatus: entity.StatusWaiting,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !pkg.IsCod {
		pkg.CodAmount = nil
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create package", errorbank.WithCause(err))
	}

	s.invalidate(ctx, pkg.ID)
	s.publish(ctx, EventCreated, pkg)
	return pkg, nil
}

func validateCreate(input dto.CreatePackageRequest) error {
	var missing []string
	for field, value := range map[string]string{
		"package_name":    input.PackageName,
		"sender_name":     input.SenderName,
		"courier":         input.Courier,
		"tracking_number": input.TrackingNumber,
		"recipient_phone": input.RecipientPhone,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return errorbank.BadRequest("missing required fields", errorbank.WithDetail("fields", missing))
	}
	return validateCod(input.IsCod, input.CodAmount)
}

func validateCod(isCod bool, amount *float64) error {
	if !isCod {
		return nil
	}
	if amount == nil {
		return errorbank.Unprocessable("cod amount is required for cod packages")
	}
	if *amount <= 0 {
		return errorbank.Unprocessable("cod amount must be positive")
	}
	return nil
}

// Update applies a partial edit. Setting the status to received stamps the
// receive timestamp; setting it back to waiting clears both the timestamp
// and the receiver name, whatever else the patch contains.
func (s *Service) Update(ctx context.Context, id int64, patch dto.UpdatePackageRequest) (*entity.Package, error) {
	ctx, span := serviceTracer.Start(ctx, "PackageService.Update", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load package", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	applyPatch(pkg, patch)

	if patch.DeliveryStatus != nil {
		status := entity.DeliveryStatus(*patch.DeliveryStatus)
		if !status.Valid() {
			return nil, errorbank.BadRequest("invalid delivery status", errorbank.WithDetail("delivery_status", *patch.DeliveryStatus))
		}
		pkg.DeliveryStatus = status
		switch status {
		case entity.StatusReceived:
			pkg.ReceivedAt = &now
		case entity.StatusWaiting:
			pkg.ReceivedAt = nil
			pkg.ReceiverName = ""
		}
	}

	if err := validateCod(pkg.IsCod, pkg.CodAmount); err != nil {
		return nil, err
	}
	if !pkg.IsCod {
		pkg.CodAmount = nil
	}
	pkg.UpdatedAt = now

	if err := s.saveUpdate(ctx, span, pkg); err != nil {
		return nil, err
	}

	s.invalidate(ctx, pkg.ID)
	s.publish(ctx, EventUpdated, pkg)
	return pkg, nil
}

func applyPatch(pkg *entity.Package, patch dto.UpdatePackageRequest) {
	if patch.PackageName != nil {
		pkg.PackageName = *patch.PackageName
	}
	if patch.SenderName != nil {
		pkg.SenderName = *patch.SenderName
	}
	if patch.SenderAddress != nil {
		pkg.SenderAddress = *patch.SenderAddress
	}
	if patch.Courier != nil {
		pkg.Courier = *patch.Courier
	}
	if patch.TrackingNumber != nil {
		pkg.TrackingNumber = *patch.TrackingNumber
	}
	if patch.RecipientPhone != nil {
		pkg.RecipientPhone = *patch.RecipientPhone
	}
	if patch.IsCod != nil {
		pkg.IsCod = *patch.IsCod
	}
	if patch.CodAmount != nil {
		pkg.CodAmount = patch.CodAmount
	}
	if patch.ReceiverName != nil {
		pkg.ReceiverName = *patch.ReceiverName
	}
}

// MarkReceived is the public waiting-to-received transition.
func (s *Service) MarkReceived(ctx context.Context, id int64, receiverName string) (*entity.Package, error) {
	ctx, span := serviceTracer.Start(ctx, "PackageService.MarkReceived", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	receiverName = strings.TrimSpace(receiverName)
	if receiverName == "" {
		return nil, errorbank.BadRequest("receiver name is required")
	}

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load package", errorbank.WithCause(err))
	}
	if pkg.DeliveryStatus == entity.StatusReceived {
		return nil, errorbank.Conflict("package already received")
	}

	now := time.Now().UTC()
	pkg.DeliveryStatus = entity.StatusReceived
	pkg.ReceiverName = receiverName
	pkg.ReceivedAt = &now
	pkg.UpdatedAt = now

	if err := s.saveUpdate(ctx, span, pkg); err != nil {
		return nil, err
	}

	s.invalidate(ctx, pkg.ID)
	s.publish(ctx, EventReceived, pkg)
	return pkg, nil
}

// Delete removes a package.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "PackageService.Delete", trace.WithAttributes(attribute.Int64("package.id", id)))
	defer span.End()

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to load package", errorbank.WithCause(err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete package", errorbank.WithCause(err))
	}

	s.invalidate(ctx, id)
	s.publish(ctx, EventDeleted, pkg)
	return nil
}

func (s *Service) saveUpdate(ctx context.Context, span trace.Span, pkg *entity.Package) error {
	if err := s.repo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("package not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to update package", errorbank.WithCause(err))
	}
	return nil
}

// invalidate drops stale cache entries and tells presentation layers that
// their rendered views are out of date.
func (s *Service) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, listCacheKey, s.cacheKey(id)); err != nil && s.logger != nil {
			s.logger.Warn("packages cache invalidation failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	for _, notifier := range s.notifiers {
		notifier.InvalidatePath(ctx, view.PathPublic)
		notifier.InvalidatePath(ctx, view.PathAdmin)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, pkg *entity.Package) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := PackageEvent{
		Type:           eventType,
		ID:             pkg.ID,
		TrackingNumber: pkg.TrackingNumber,
		Courier:        pkg.Courier,
		DeliveryStatus: pkg.DeliveryStatus,
		IsCod:          pkg.IsCod,
		CodAmount:      pkg.CodAmount,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal package event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("package-%d", pkg.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish package event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("packages:%d", id)
}

func (s *Service) loadAll(ctx context.Context) ([]*entity.Package, error) {
	if s.cache != nil {
		if bytes, err := s.cache.Get(ctx, listCacheKey); err == nil {
			var pkgs []*entity.Package
			if err := json.Unmarshal(bytes, &pkgs); err == nil {
				return pkgs, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			if s.logger != nil {
				s.logger.Warn("packages list cache read failed", zap.Error(err))
			}
		}
	}

	pkgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if bytes, err := json.Marshal(pkgs); err == nil {
			if err := s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL); err != nil && s.logger != nil {
				s.logger.Warn("packages list cache write failed", zap.Error(err))
			}
		}
	}
	return pkgs, nil
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Package, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var pkg entity.Package
	if err := json.Unmarshal(bytes, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (s *Service) storeInCache(ctx context.Context, pkg *entity.Package) error {
	if s.cache == nil || pkg == nil {
		return nil
	}
	bytes, err := json.Marshal(pkg)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(pkg.ID), bytes, s.cacheTTL)
}

// Package lifecycle event types.
const (
	EventCreated  = "package.created"
	EventUpdated  = "package.updated"
	EventReceived = "package.received"
	EventDeleted  = "package.deleted"
)

// PackageEvent is emitted after every successful mutation.
type PackageEvent struct {
	Type           string                `json:"type"`
	ID             int64                 `json:"id"`
	TrackingNumber string                `json:"tracking_number"`
	Courier        string                `json:"courier"`
	DeliveryStatus entity.DeliveryStatus `json:"delivery_status"`
	IsCod          bool                  `json:"is_cod"`
	CodAmount      *float64              `json:"cod_amount,omitempty"`
	OccurredAt     time.Time             `json:"occurred_at"`
}
