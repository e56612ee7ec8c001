// Package ast defines the immutable statement model that the parser
// produces and every later stage of the pipeline walks. Fields are named
// consistently across node types so downstream components never need to
// re-inspect source text.
package ast

import "github.com/documentql/docql/sql"

// BinaryOp enumerates the operators a BinaryExpr leaf may carry.
type BinaryOp string

const (
	OpEq              BinaryOp = "=="
	OpNeq             BinaryOp = "!="
	OpGt              BinaryOp = ">"
	OpLt              BinaryOp = "<"
	OpGte             BinaryOp = ">="
	OpLte             BinaryOp = "<="
	OpIn              BinaryOp = "in"
	OpNotIn           BinaryOp = "not_in"
	OpArrayContains   BinaryOp = "array_contains"
	OpArrayContainsAny BinaryOp = "array_contains_any"
	OpLike            BinaryOp = "like"
	OpNotLike         BinaryOp = "not_like"
	OpAnd             BinaryOp = "and"
	OpOr              BinaryOp = "or"
)

// PushdownOps are the operators the predicate splitter may route to the
// store when the right-hand side is a literal.
var PushdownOps = map[BinaryOp]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpLt: true, OpGte: true, OpLte: true,
	OpIn: true, OpNotIn: true, OpArrayContains: true, OpArrayContainsAny: true,
}

// ResidualOps are the operators evaluated in-memory after fetch.
var ResidualOps = map[BinaryOp]bool{OpLike: true, OpNotLike: true}

// AggFunc enumerates the aggregation prefixes recognized by the lexer and
// applied during aggregation.
type AggFunc string

const (
	AggNone  AggFunc = ""
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggAvg   AggFunc = "avg"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// ColRef is the column reference triple: (table?, column, aggFunc?).
// Table is absent when the column omits a qualifier, in which case the
// planner's defaultPart applies.
type ColRef struct {
	Table  string // alias or collection name; "" if unqualified
	Column string // "*", a plain name, or a dotted path
	Agg    AggFunc
}

// FromSpec is the (collection, alias?) pair. Alias defaults to Collection
// when not given explicitly.
type FromSpec struct {
	Collection string
	Alias      string
}

// ResolvedAlias returns the alias, defaulting to the collection name.
func (f FromSpec) ResolvedAlias() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Collection
}

// Literal is a constant value appearing in WHERE, SET, or VALUES.
type Literal struct {
	Value sql.Value
}

// Expr is any node that may appear in a WHERE clause: a BinaryExpr, a
// ColRef (bare boolean column), or a Literal.
type Expr interface{ exprNode() }

func (*BinaryExpr) exprNode() {}
func (*ColRef) exprNode()     {}
func (*Literal) exprNode()    {}

// BinaryExpr is {op, left, right}. AND/OR are left-leaning so a chain of
// conjuncts walks as a simple left recursion: ((a AND b) AND c).
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// JoinExpr is {left, right, on}; on is an equality between two qualified
// column references, the single equi-join this grammar supports.
type JoinExpr struct {
	Left  FromSpec
	Right FromSpec
	On    *BinaryExpr
}

// Statement is the tagged-variant root: Select/Insert/Update/Delete all
// implement it, and the dispatcher is a single type switch rather than
// subtype polymorphism.
type Statement interface{ statementNode() }

func (*Select) statementNode() {}
func (*Insert) statementNode() {}
func (*Update) statementNode() {}
func (*Delete) statementNode() {}

// Select is `SELECT columns FROM froms [JOIN ... ON ...] [WHERE where]`.
// Exactly one of Froms or Join is populated: a two-way JOIN replaces the
// plain from-list.
type Select struct {
	Columns []ColRef
	Froms   []FromSpec
	Join    *JoinExpr
	Where   Expr
}

// Insert is `INSERT INTO table (columns) VALUES (values)`.
type Insert struct {
	Table   FromSpec
	Columns []ColRef
	Values  []Literal
}

// Assignment is one `col == literal` pair from a SET clause.
// Copy-from-column SET values are not supported.
type Assignment struct {
	Column ColRef
	Value  Literal
}

// Update is `UPDATE table SET assignments [WHERE where]`.
type Update struct {
	Table FromSpec
	Sets  []Assignment
	Where Expr
}

// Delete is `DELETE FROM table [WHERE where]`.
type Delete struct {
	Table FromSpec
	Where Expr
}
