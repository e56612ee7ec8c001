package exec

import (
	"regexp"
	"strings"
	"sync"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

var likeCache sync.Map // pattern string -> *regexp.Regexp

// ApplyResidual applies LIKE/NOT LIKE to each alias's fetched documents
// independently. A missing field never matches.
func ApplyResidual(ctx *sql.Context, docs AliasDocs, residual map[string][]planner.Predicate) (AliasDocs, error) {
	out := AliasDocs{}
	for alias, byID := range docs {
		preds := residual[alias]
		if len(preds) == 0 {
			out[alias] = byID
			continue
		}
		filtered := map[string]sql.Document{}
		for id, doc := range byID {
			if ctx.Cancelled() {
				return nil, sql.ErrStore.New("cancelled during residual filter")
			}
			ok := true
			for _, p := range preds {
				m, err := likeMatch(doc, p)
				if err != nil {
					return nil, err
				}
				if !m {
					ok = false
					break
				}
			}
			if ok {
				filtered[id] = doc
			}
		}
		out[alias] = filtered
	}
	return out, nil
}

func likeMatch(doc sql.Document, p planner.Predicate) (bool, error) {
	v, ok := doc.Get(p.Field)
	if !ok {
		return false, nil
	}
	field := sql.FromNative(v)
	if field.Kind != sql.KindString {
		return p.Op == ast.OpNotLike, nil
	}
	re, err := globToRegexp(p.Value.Str)
	if err != nil {
		return false, sql.ErrType.New(err.Error())
	}
	matched := re.MatchString(field.Str)
	if p.Op == ast.OpNotLike {
		return !matched, nil
	}
	return matched, nil
}

// globToRegexp translates a LIKE pattern into an anchored-at-start (prefix
// match) regexp: "%" becomes ".*", other characters are escaped to their
// regex-literal form.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	if cached, ok := likeCache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}
	var sb strings.Builder
	sb.WriteByte('^')
	for _, r := range pattern {
		if r == '%' {
			sb.WriteString(".*")
			continue
		}
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, err
	}
	likeCache.Store(pattern, re)
	return re, nil
}
