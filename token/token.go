// Package token defines the lexical token types for the docql grammar and
// the position tracking used for parse-error offsets.
package token

// Token identifies a lexical token kind.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	literalBeg
	IDENT  // column_name, alias, table_name
	NUMBER // 123, 1.5
	STRING // "quoted text"
	literalEnd

	symbolBeg
	STAR      // *
	COMMA     // ,
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	EQ        // = or ==
	NEQ       // != or <>
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	symbolEnd

	keywordBeg
	SELECT
	FROM
	JOIN
	ON
	WHERE
	INSERT
	INTO
	VALUES
	UPDATE
	SET
	DELETE
	AND
	OR
	NOT
	IN
	LIKE
	IS
	NULL
	TRUE
	FALSE
	ARRAY_CONTAINS
	ARRAY_CONTAINS_ANY
	COUNT
	SUM
	AVG
	MIN
	MAX
	keywordEnd
)

var names = map[Token]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING",
	STAR: "*", COMMA: ",", DOT: ".", LPAREN: "(", RPAREN: ")",
	EQ: "=", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	SELECT: "SELECT", FROM: "FROM", JOIN: "JOIN", ON: "ON", WHERE: "WHERE",
	INSERT: "INSERT", INTO: "INTO", VALUES: "VALUES", UPDATE: "UPDATE",
	SET: "SET", DELETE: "DELETE", AND: "AND", OR: "OR", NOT: "NOT", IN: "IN",
	LIKE: "LIKE", IS: "IS", NULL: "NULL", TRUE: "TRUE", FALSE: "FALSE",
	ARRAY_CONTAINS: "ARRAY_CONTAINS", ARRAY_CONTAINS_ANY: "ARRAY_CONTAINS_ANY",
	COUNT: "COUNT", SUM: "SUM", AVG: "AVG", MIN: "MIN", MAX: "MAX",
}

func (t Token) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

// IsKeyword reports whether t is one of the grammar's reserved words.
func (t Token) IsKeyword() bool { return t > keywordBeg && t < keywordEnd }

// Keywords maps the upper-cased spelling of a keyword to its Token, built
// from names so the table has a single source of truth.
var Keywords = func() map[string]Token {
	m := make(map[string]Token, keywordEnd-keywordBeg)
	for t := keywordBeg + 1; t < keywordEnd; t++ {
		m[names[t]] = t
	}
	return m
}()

// AggFuncs maps an aggregation-prefix keyword to its Token. The lexer scans
// these words through Keywords like any other keyword; the `(` after them
// is a separate LPAREN token.
var AggFuncs = map[string]Token{"COUNT": COUNT, "SUM": SUM, "AVG": AVG, "MIN": MIN, "MAX": MAX}

// Item is one scanned token: its kind, literal text, and source offset.
type Item struct {
	Type   Token
	Value  string
	Offset int
}
