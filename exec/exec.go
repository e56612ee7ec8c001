package exec

import (
	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store"
)

// Result is the outcome of running one statement: Rows for a SELECT (joined,
// projected, and/or aggregated), or Inserted for an INSERT. UPDATE and
// DELETE also populate Rows with the affected documents' projection.
type Result struct {
	Rows     []Row
	Inserted sql.Document
}

// Run dispatches a parsed statement through the pipeline: PARSED → PLANNED
// → FETCHED → FILTERED → (JOINED|PROJECTED) → (AGGREGATED|WRITTEN) → DONE.
// The tagged-variant Statement is walked with a single type switch rather
// than per-statement dispatch methods; the node model itself is the union,
// not the behavior.
func Run(ctx *sql.Context, s store.Store, stmt ast.Statement) (Result, error) {
	defer ctx.StartSpan("exec:run")()

	switch v := stmt.(type) {
	case *ast.Select:
		return runSelect(ctx, s, v)
	case *ast.Insert:
		doc, err := Insert(ctx, s, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Inserted: doc}, nil
	case *ast.Update:
		rows, err := Update(ctx, s, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Rows: rows}, nil
	case *ast.Delete:
		rows, err := Delete(ctx, s, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Rows: rows}, nil
	default:
		return Result{}, sql.ErrPlan.New("unrecognized statement type")
	}
}

// runSelect carries out PLANNED → FETCHED → FILTERED →
// (JOINED|PROJECTED) → (AGGREGATED|done) for one SELECT.
func runSelect(ctx *sql.Context, s store.Store, sel *ast.Select) (Result, error) {
	st, err := planner.Plan(sel)
	if err != nil {
		return Result{}, err
	}

	fetched, err := Fetch(ctx, st, s)
	if err != nil {
		return Result{}, err
	}

	filtered, err := ApplyResidual(ctx, fetched, st.Residual)
	if err != nil {
		return Result{}, err
	}

	var rows []Row
	if st.Join != nil {
		joined, err := Join(ctx, filtered, st.Join)
		if err != nil {
			return Result{}, err
		}
		rows, err = ProjectJoined(st, joined)
		if err != nil {
			return Result{}, err
		}
	} else {
		rows, err = Project(st, filtered)
		if err != nil {
			return Result{}, err
		}
	}

	if st.HasAggregation {
		return Result{Rows: []Row{Aggregate(st, rows)}}, nil
	}
	return Result{Rows: rows}, nil
}
