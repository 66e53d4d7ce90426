package db

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// historyColumns is the column list every history query selects, in scan order
const historyColumns = "id, timestamp, duration, exit, command, cwd, session, hostname, deleted_at"

// knownColumns are the column expressions a predicate may reference
var knownColumns = map[string]bool{
	"id":              true,
	"timestamp":       true,
	"duration":        true,
	"exit":            true,
	"command":         true,
	"cwd":             true,
	"session":         true,
	"hostname":        true,
	"deleted_at":      true,
	"lower(hostname)": true,
}

// Pred is one node of a WHERE clause. Trees are built from the
// constructors below and turned into SQL by a single compile pass.
type Pred interface {
	compile(sb *strings.Builder, args *[]any) error
}

type cmpPred struct {
	col string
	op  string
	arg any
}

type nullPred struct {
	col    string
	isNull bool
}

type prefixPred struct {
	col    string
	prefix string
}

type notPred struct {
	inner Pred
}

type joinPred struct {
	op    string // AND or OR
	preds []Pred
}

// Eq matches col = v
func Eq(col string, v any) Pred { return cmpPred{col: col, op: "=", arg: v} }

// Ne matches col != v
func Ne(col string, v any) Pred { return cmpPred{col: col, op: "!=", arg: v} }

// Lt matches col < v
func Lt(col string, v any) Pred { return cmpPred{col: col, op: "<", arg: v} }

// Gt matches col > v
func Gt(col string, v any) Pred { return cmpPred{col: col, op: ">", arg: v} }

// Le matches col <= v
func Le(col string, v any) Pred { return cmpPred{col: col, op: "<=", arg: v} }

// Ge matches col >= v
func Ge(col string, v any) Pred { return cmpPred{col: col, op: ">=", arg: v} }

// Like is the case-insensitive wildcard match; % and _ are wildcards
func Like(col, pattern string) Pred { return cmpPred{col: col, op: "LIKE", arg: pattern} }

// Glob is the case-sensitive wildcard match; * and ? are wildcards
func Glob(col, pattern string) Pred { return cmpPred{col: col, op: "GLOB", arg: pattern} }

// Regexp matches col against a regular expression
func Regexp(col, pattern string) Pred { return cmpPred{col: col, op: "REGEXP", arg: pattern} }

// HasPrefix matches rows where col starts with exactly prefix.
// Unlike LIKE, wildcards in prefix are literal and case is significant.
func HasPrefix(col, prefix string) Pred { return prefixPred{col: col, prefix: prefix} }

// IsNull matches rows where col is NULL
func IsNull(col string) Pred { return nullPred{col: col, isNull: true} }

// IsNotNull matches rows where col is not NULL
func IsNotNull(col string) Pred { return nullPred{col: col} }

// Not negates p
func Not(p Pred) Pred { return notPred{inner: p} }

// And is the conjunction of preds
func And(preds ...Pred) Pred { return joinPred{op: "AND", preds: preds} }

// Or is the disjunction of preds
func Or(preds ...Pred) Pred { return joinPred{op: "OR", preds: preds} }

func checkColumn(col string) error {
	if !knownColumns[col] {
		return errors.Newf("unknown column %q", col)
	}
	return nil
}

func (p cmpPred) compile(sb *strings.Builder, args *[]any) error {
	if err := checkColumn(p.col); err != nil {
		return err
	}
	fmt.Fprintf(sb, "%s %s ?", p.col, p.op)
	*args = append(*args, p.arg)
	return nil
}

func (p nullPred) compile(sb *strings.Builder, _ *[]any) error {
	if err := checkColumn(p.col); err != nil {
		return err
	}
	if p.isNull {
		fmt.Fprintf(sb, "%s IS NULL", p.col)
	} else {
		fmt.Fprintf(sb, "%s IS NOT NULL", p.col)
	}
	return nil
}

func (p prefixPred) compile(sb *strings.Builder, args *[]any) error {
	if err := checkColumn(p.col); err != nil {
		return err
	}
	fmt.Fprintf(sb, "substr(%s, 1, length(?)) = ?", p.col)
	*args = append(*args, p.prefix, p.prefix)
	return nil
}

func (p notPred) compile(sb *strings.Builder, args *[]any) error {
	if p.inner == nil {
		return errors.New("NOT without operand")
	}
	sb.WriteString("NOT (")
	if err := p.inner.compile(sb, args); err != nil {
		return err
	}
	sb.WriteString(")")
	return nil
}

func (p joinPred) compile(sb *strings.Builder, args *[]any) error {
	if len(p.preds) == 0 {
		return errors.Newf("empty %s", p.op)
	}
	for i, inner := range p.preds {
		if inner == nil {
			return errors.Newf("nil operand in %s", p.op)
		}
		if i > 0 {
			fmt.Fprintf(sb, " %s ", p.op)
		}
		sb.WriteString("(")
		if err := inner.compile(sb, args); err != nil {
			return err
		}
		sb.WriteString(")")
	}
	return nil
}

// selectQuery is an immutable description of a history SELECT.
// Every With* method returns a modified copy.
type selectQuery struct {
	where  []Pred
	unique bool // keep only the newest row per command
	asc    bool
	limit  int64 // 0 means no limit
	offset int64
}

func (q selectQuery) Where(preds ...Pred) selectQuery {
	where := make([]Pred, 0, len(q.where)+len(preds))
	where = append(where, q.where...)
	q.where = append(where, preds...)
	return q
}

func (q selectQuery) Unique(unique bool) selectQuery {
	q.unique = unique
	return q
}

func (q selectQuery) Ascending(asc bool) selectQuery {
	q.asc = asc
	return q
}

func (q selectQuery) Limit(n int64) selectQuery {
	q.limit = n
	return q
}

func (q selectQuery) Offset(n int64) selectQuery {
	q.offset = n
	return q
}

// compile renders the query as SQL with positional parameters
func (q selectQuery) compile() (string, []any, error) {
	var sb strings.Builder
	var args []any

	var where string
	if len(q.where) > 0 {
		var wb strings.Builder
		if err := And(q.where...).compile(&wb, &args); err != nil {
			return "", nil, err
		}
		where = " WHERE " + wb.String()
	}

	if q.unique {
		// row_number picks exactly the newest row of each command group
		fmt.Fprintf(&sb, "SELECT %s FROM (SELECT %s, row_number() OVER (PARTITION BY command ORDER BY timestamp DESC) AS rn FROM history%s) WHERE rn = 1",
			historyColumns, historyColumns, where)
	} else {
		fmt.Fprintf(&sb, "SELECT %s FROM history%s", historyColumns, where)
	}

	if q.asc {
		sb.WriteString(" ORDER BY timestamp ASC")
	} else {
		sb.WriteString(" ORDER BY timestamp DESC")
	}

	if q.limit < 0 || q.offset < 0 {
		return "", nil, errors.Newf("negative limit %d or offset %d", q.limit, q.offset)
	}
	switch {
	case q.limit > 0:
		sb.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	case q.offset > 0:
		// sqlite needs a LIMIT before OFFSET
		sb.WriteString(" LIMIT -1")
	}
	if q.offset > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, q.offset)
	}

	return sb.String(), args, nil
}

// mustCompile compiles q and panics if the plan is malformed.
// Plans are assembled internally, so a failure here is a bug.
func (q selectQuery) mustCompile(what string) (string, []any) {
	query, args, err := q.compile()
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "bug in %s query", what))
	}
	return query, args
}
