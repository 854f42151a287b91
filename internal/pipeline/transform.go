package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/survey-data-etl/internal/domain"
	"github.com/couchcryptid/survey-data-etl/internal/observability"
)

// CoordTransformer implements Transformer by converting a raw record's DMS
// coordinate strings to decimal degrees. Conversion outcomes are counted per
// axis so malformed upstream data shows up in the metrics by failure class.
type CoordTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a CoordTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *CoordTransformer {
	return &CoordTransformer{
		logger:  logger,
		metrics: metrics,
	}
}

func (t *CoordTransformer) Transform(_ context.Context, raw domain.RawRecord) (domain.SurveyPoint, error) {
	point, err := domain.ParseRawRecord(raw)
	if err != nil {
		var convErr *domain.ConversionError
		if errors.As(err, &convErr) {
			t.metrics.Conversions.WithLabelValues(convErr.Axis.String(), classifyConversion(err)).Inc()
			t.logger.Warn("coordinate conversion failed",
				"axis", convErr.Axis.String(),
				"outcome", classifyConversion(err),
				"error", convErr.Err,
			)
		}
		return domain.SurveyPoint{}, err
	}

	t.metrics.Conversions.WithLabelValues(domain.Longitude.String(), outcomeSuccess).Inc()
	t.metrics.Conversions.WithLabelValues(domain.Latitude.String(), outcomeSuccess).Inc()
	return point, nil
}

const outcomeSuccess = "success"

// classifyConversion maps a conversion failure to its metric label.
func classifyConversion(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingValue):
		return "missing"
	case errors.Is(err, domain.ErrFormat):
		return "format"
	case errors.Is(err, domain.ErrNumeric):
		return "numeric"
	case errors.Is(err, domain.ErrRange):
		return "range"
	case errors.Is(err, domain.ErrAxisRange):
		return "axis_range"
	default:
		return "other"
	}
}
