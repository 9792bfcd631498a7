// Package claims implements the claim state machine: verify-request and
// notify-owner claim creation, the two-sided return handshake, the finder's
// request review, and the lock and listing queries built on the claim ledger.
package claims

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/izgubljeno/internal/apperr"
	sqlitedb "github.com/erazemk/izgubljeno/internal/db"
	"github.com/erazemk/izgubljeno/internal/model"
	"github.com/erazemk/izgubljeno/internal/store"
	"github.com/erazemk/izgubljeno/internal/telemetry"
)

const scopeName = "github.com/erazemk/izgubljeno/claims"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Outcome is the result of a claim operation. Completed is set when the
// operation finished the handshake and closed the found item.
type Outcome struct {
	Claim     *model.Claim `json:"claim"`
	Completed bool         `json:"completed"`
}

// Service runs claim operations against the database. Every mutating
// operation performs its checks and writes in a single write transaction.
type Service struct {
	db          *sql.DB
	clock       Clock
	logger      *slog.Logger
	tracer      trace.Tracer
	transitions metric.Int64Counter
}

// NewService returns a claim service. A nil clock uses the system clock and
// a nil logger uses slog.Default().
func NewService(db *sql.DB, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:          db,
		clock:       clock,
		logger:      logger,
		tracer:      telemetry.Tracer(scopeName),
		transitions: newTransitionCounter(telemetry.Meter(scopeName), logger),
	}
}

// newTransitionCounter creates the claim transition counter. Metrics are
// optional, so a failure is logged and counting falls back to a no-op.
func newTransitionCounter(m metric.Meter, logger *slog.Logger) metric.Int64Counter {
	c, err := m.Int64Counter("izgubljeno.claims.transitions",
		metric.WithDescription("Claim status writes"),
	)
	if err != nil || c == nil {
		logger.Warn("creating transition counter, claim metrics disabled", "error", err)
		return metricnoop.Int64Counter{}
	}
	return c
}

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "claims."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if _, ok := apperr.As(err); !ok {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

// inTx runs fn in a write transaction. A unique-index violation means a
// concurrent writer reserved the item first.
func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	err := store.WithTx(ctx, s.db, fn)
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); !ok && sqlitedb.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.CodeConflict, "this item is already requested by another user", err)
	}
	return err
}

// emit records committed status changes in metrics and the log.
func (s *Service) emit(ctx context.Context, op string, changes []store.StatusChange) {
	for _, ch := range changes {
		from := ch.From
		if from == "" {
			from = "none"
		}
		s.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", ch.To),
			attribute.String("op", op),
		))
		s.logger.Info("claim status changed",
			"claim_id", ch.ClaimID,
			"from", from,
			"to", ch.To,
			"op", op,
		)
	}
}
