// Package docql implements a SQL-like statement language compiled and
// executed against a hierarchical, schemaless document store. Engine is
// the long-lived, concurrency-safe façade a caller holds onto and queries
// many times.
package docql

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/documentql/docql/config"
	"github.com/documentql/docql/exec"
	"github.com/documentql/docql/parser"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store"
)

// Config bundles the dependencies and tuning knobs an Engine needs: the
// store to run against, the logger and tracer the ambient stack wires into
// every statement's *sql.Context, and the tunables from config.Config.
type Config struct {
	Store  store.Store
	Logger *logrus.Logger
	Tracer opentracing.Tracer
	Tuning config.Config
}

// Engine is the query engine's entry point. It holds no per-statement
// state, so the same Engine value is safe to call concurrently from
// multiple goroutines; any locking required is the store's concern.
type Engine struct {
	store  store.Store
	logger *logrus.Logger
	tracer opentracing.Tracer
	tuning config.Config
}

// New builds an Engine from an explicit Config.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = opentracing.NoopTracer{}
	}
	return &Engine{store: cfg.Store, logger: logger, tracer: tracer, tuning: cfg.Tuning}
}

// NewDefault builds an Engine with Default tuning and a standard logger,
// the path most callers and the test suite use.
func NewDefault(s store.Store) *Engine {
	return New(Config{Store: s, Tuning: config.Default()})
}

// Query parses, plans, and runs one statement through the full PARSED →
// ... → DONE pipeline. A read statement's rows land in Result.Rows; a
// successful INSERT's new document lands in Result.Inserted.
func (e *Engine) Query(ctx context.Context, text string) (exec.Result, error) {
	if e.tuning.StatementTimeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, e.tuning.StatementTimeout)
		defer cancel()
	}
	sqlCtx := sql.NewContext(ctx, e.logger, e.tracer)
	sqlCtx.JoinHashThreshold = e.tuning.JoinHashThreshold
	defer sqlCtx.StartSpan("engine:query")()

	stmt, err := parser.Parse(text)
	if err != nil {
		return exec.Result{}, err
	}
	return exec.Run(sqlCtx, e.store, stmt)
}
