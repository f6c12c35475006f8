package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
)

const tracerName = "github.com/huyhqq/Student-Club-Management-System/internal/service"

type telemetry struct {
	service string
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

func newTelemetry(service string, m *metrics.Metrics) telemetry {
	return telemetry{
		service: service,
		tracer:  otel.Tracer(tracerName),
		metrics: m,
	}
}

// withTelemetry wraps a service operation with a span, metrics, logging and panic recovery.
// Infrastructure failures leave as domain.ErrProcessing with the cause kept in the chain.
func withTelemetry[T any](
	ctx context.Context,
	t telemetry,
	operation string,
	actor domain.Actor,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	method := t.service + "." + operation
	ctx, span := t.tracer.Start(ctx, method, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("actor.id", int(actor.UserID)),
	))
	defer span.End()

	start := time.Now()
	logger.EnterMethod(method, "actorID", actor.UserID)

	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = fmt.Errorf("panic in %s: %v", operation, r)
		}

		outcome := metrics.OutcomeSuccess
		switch {
		case err == nil:
			logger.ExitMethod(method, "duration", time.Since(start))
		case domain.KindOf(err) == domain.KindInfrastructure:
			outcome = metrics.OutcomeFailure
			logger.ErrorContext(ctx, "Operation failed", "method", method, "actorID", actor.UserID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if !errors.Is(err, domain.ErrProcessing) {
				err = domain.Processing(err)
			}
		default:
			outcome = metrics.OutcomeRejected
			logger.WarnContext(ctx, "Operation rejected", "method", method, "actorID", actor.UserID,
				"kind", domain.KindOf(err).String(), "error", err)
			span.SetAttributes(attribute.String("rejection", domain.KindOf(err).String()))
		}
		t.metrics.RecordOperation(t.service, operation, outcome, time.Since(start))
	}()

	return op(ctx)
}

