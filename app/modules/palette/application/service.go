package paletteservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
	palettemetrics "github.com/Black-And-White-Club/palette-forge/pkg/observability/metrics/palette"
	"github.com/Black-And-White-Club/palette-forge/pkg/results"
)

// PaletteService implements the Service interface.
type PaletteService struct {
	repo     palettedb.Repository
	logger   *slog.Logger
	metrics  palettemetrics.PaletteMetrics
	tracer   trace.Tracer
	db       *bun.DB
	sessions *sessionStore
	rng      palettedomain.RandomSource
	clock    Clock
	settings Settings
}

// NewPaletteService creates a new PaletteService.
func NewPaletteService(
	repo palettedb.Repository,
	logger *slog.Logger,
	metrics palettemetrics.PaletteMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	settings Settings,
) *PaletteService {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Defaults == (palettedomain.Controls{}) {
		settings.Defaults = palettedomain.DefaultControls()
	}
	clock := settings.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &PaletteService{
		repo:     repo,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		sessions: newSessionStore(),
		rng:      &lockedSource{src: palettedomain.NewRandomSource(settings.Seed)},
		clock:    clock,
		settings: settings,
	}
}

// checkCount rejects counts the engine would refuse or the configuration forbids.
func (s *PaletteService) checkCount(count int) error {
	if count < 1 {
		return fmt.Errorf("%w: got %d", palettedomain.ErrInvalidCount, count)
	}
	if s.settings.MaxColors > 0 && count > s.settings.MaxColors {
		return fmt.Errorf("%w: %d exceeds %d", ErrTooManyColors, count, s.settings.MaxColors)
	}
	return nil
}

func (s *PaletteService) recordGenerated(ctx context.Context, mode palettedomain.Mode, colors int) {
	if s.metrics != nil {
		s.metrics.RecordPaletteGenerated(ctx, string(mode), colors)
	}
}

func (s *PaletteService) recordActiveSessions(ctx context.Context) {
	if s.metrics != nil {
		s.metrics.RecordActiveSessions(ctx, s.sessions.len())
	}
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *PaletteService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	// Start span
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	// Record attempt
	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, "PaletteService")
	}

	// Track duration
	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, "PaletteService", time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, "PaletteService")
			}
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	// Handle Infrastructure Error
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, "PaletteService")
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	// Handle Domain Failure
	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, "PaletteService")
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *PaletteService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// unwrap turns an operation result into the public (value, error) pair.
func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}
