package exec

import (
	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store"
)

// Insert builds a document from (columns, values), generates a fresh id,
// writes it, and returns the document with docid attached.
func Insert(ctx *sql.Context, s store.Store, ins *ast.Insert) (sql.Document, error) {
	defer ctx.StartSpan("write:insert")()

	doc, err := buildInsertDoc(ins)
	if err != nil {
		return nil, err
	}
	collection := ins.Table.Collection
	id, err := s.GenerateDocumentID(ctx, collection)
	if err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	if err := s.SetDocument(ctx, collection, id, doc); err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	out := doc.Clone()
	out[docIDField] = id
	return out, nil
}

// buildInsertDoc shapes the stored document from an INSERT statement,
// including the `(*) VALUES (<mapping>)` special case.
func buildInsertDoc(ins *ast.Insert) (sql.Document, error) {
	if len(ins.Columns) == 1 && ins.Columns[0].Column == "*" &&
		len(ins.Values) == 1 && ins.Values[0].Value.Kind == sql.KindMap {
		doc := sql.Document{}
		for k, v := range ins.Values[0].Value.Map {
			doc[k] = v.Native()
		}
		return doc, nil
	}
	if len(ins.Columns) != len(ins.Values) {
		return nil, sql.ErrPlan.New("INSERT column list and value list must be the same length")
	}
	doc := sql.Document{}
	for i, col := range ins.Columns {
		doc[col.Column] = ins.Values[i].Value.Native()
	}
	return doc, nil
}

// Update plans as `SELECT docid, * FROM table WHERE ...` to locate target
// documents, passes the SET fields to the store's merging UpdateDocument
// for each, and returns the post-update projection (each target with the
// SET overrides applied).
func Update(ctx *sql.Context, s store.Store, upd *ast.Update) ([]Row, error) {
	defer ctx.StartSpan("write:update")()

	st, err := planner.PlanWrite(upd.Table, upd.Where)
	if err != nil {
		return nil, err
	}
	targets, err := locate(ctx, s, st)
	if err != nil {
		return nil, err
	}

	alias := upd.Table.ResolvedAlias()
	collection := upd.Table.Collection
	partial := sql.Document{}
	for _, set := range upd.Sets {
		partial[set.Column.Column] = set.Value.Value.Native()
	}

	byID := map[string]sql.Document{}
	for id, doc := range targets[alias] {
		if err := s.UpdateDocument(ctx, collection, id, partial); err != nil {
			return nil, sql.ErrStore.New(err.Error())
		}
		updated := doc.Clone()
		for k, v := range partial {
			updated[k] = v
		}
		byID[id] = updated
	}
	targets[alias] = byID
	return Project(st, targets)
}

// Delete locates target documents the same way Update does, deletes each
// by id, and returns the pre-delete projection.
func Delete(ctx *sql.Context, s store.Store, del *ast.Delete) ([]Row, error) {
	defer ctx.StartSpan("write:delete")()

	st, err := planner.PlanWrite(del.Table, del.Where)
	if err != nil {
		return nil, err
	}
	targets, err := locate(ctx, s, st)
	if err != nil {
		return nil, err
	}
	rows, err := Project(st, targets)
	if err != nil {
		return nil, err
	}

	alias := del.Table.ResolvedAlias()
	collection := del.Table.Collection
	for id := range targets[alias] {
		if err := s.DeleteDocument(ctx, collection, id); err != nil {
			return nil, sql.ErrStore.New(err.Error())
		}
	}
	return rows, nil
}

// locate runs the read phase (fetch, residual filter) shared by Update and
// Delete. The full read phase completes before any mutation is issued; a
// mutation failure mid-batch leaves earlier mutations applied, since the
// store offers no rollback at this layer.
func locate(ctx *sql.Context, s store.Store, st *planner.State) (AliasDocs, error) {
	fetched, err := Fetch(ctx, st, s)
	if err != nil {
		return nil, err
	}
	return ApplyResidual(ctx, fetched, st.Residual)
}
