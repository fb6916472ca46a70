package items

import (
	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/platform/metrics"
	"virtual-pet/internal/platform/telemetry"

	"go.opentelemetry.io/otel/trace"
)

func observe(span trace.Span, op string, err error) {
	telemetry.End(span, err)
	metrics.ObserveOp("items", op, rules.Outcome(err))
}
