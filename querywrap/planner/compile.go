package planner

import (
	"fmt"
	"strings"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/query"
	"github.com/nonibytes/querywrap/querywrap/storage"
)

// Dialect is the part of a storage adapter the planner renders with.
type Dialect interface {
	QuoteIdent(ident string) string
	LikeExpr(col string, t storage.ColumnType, ph string) string
}

// CompileOutput is the result of compiling a filter set
type CompileOutput struct {
	Conditions   []string
	ExplainSteps []string
}

// Where joins the conditions into a WHERE clause with a leading space, or
// returns "" when there are none.
func (o *CompileOutput) Where() string {
	if o == nil || len(o.Conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(o.Conditions, " AND ")
}

// AddCondition appends a condition rendered outside the filter set.
func (o *CompileOutput) AddCondition(cond, step string) {
	o.Conditions = append(o.Conditions, cond)
	o.ExplainSteps = append(o.ExplainSteps, step)
}

// Compiler renders predicates into SQL conditions against one table
type Compiler struct {
	schema  storage.Schema
	dialect Dialect
	builder storage.Builder
	out     CompileOutput
}

// Compile renders every filter of fs as an AND-ed condition. Arguments are
// allocated on builder in condition order.
func Compile(schema storage.Schema, dialect Dialect, builder storage.Builder, fs *query.FilterSet) (*CompileOutput, error) {
	c := &Compiler{
		schema:  schema,
		dialect: dialect,
		builder: builder,
	}
	for _, e := range fs.Entries() {
		if err := c.compileEntry(e); err != nil {
			return nil, err
		}
	}
	return &c.out, nil
}

func (c *Compiler) emit(cond, step string) {
	c.out.Conditions = append(c.out.Conditions, cond)
	c.out.ExplainSteps = append(c.out.ExplainSteps, step)
}

func (c *Compiler) compileEntry(e query.Entry) error {
	name, spec, err := c.resolveColumn(e)
	if err != nil {
		return err
	}
	col := c.dialect.QuoteIdent(name)

	switch p := e.Predicate.(type) {
	case query.Equals:
		if p.Value.IsNull() {
			c.emit(fmt.Sprintf("%s IS NULL", col), fmt.Sprintf("NULL %s", name))
			return nil
		}
		v, err := coerce(name, spec, p.Value.Interface())
		if err != nil {
			return err
		}
		c.emit(fmt.Sprintf("%s = %s", col, c.builder.Arg(v)), fmt.Sprintf("EQ %s=%v", name, p.Value))
		return nil

	case query.NotEquals:
		v, err := coerce(name, spec, p.Value)
		if err != nil {
			return err
		}
		c.emit(fmt.Sprintf("%s <> %s", col, c.builder.Arg(v)), fmt.Sprintf("NE %s!=%s", name, p.Value))
		return nil

	case query.Pattern:
		ph := c.builder.Arg(p.Like)
		c.emit(c.dialect.LikeExpr(col, spec.Type, ph), fmt.Sprintf("LIKE %s %s", name, p.Like))
		return nil

	case query.In:
		vals := make([]any, len(p.Values))
		for i, raw := range p.Values {
			v, err := coerce(name, spec, raw)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		c.emit(fmt.Sprintf("%s IN (%s)", col, c.builder.List(vals)), fmt.Sprintf("IN %s %v", name, p.Values))
		return nil

	case query.Range:
		lo, err := coerceValue(name, spec, p.Lower)
		if err != nil {
			return err
		}
		hi, err := coerceValue(name, spec, p.Upper)
		if err != nil {
			return err
		}
		phLo := c.builder.Arg(lo)
		phHi := c.builder.Arg(hi)
		c.emit(fmt.Sprintf("%s >= %s AND %s <= %s", col, phLo, col, phHi),
			fmt.Sprintf("RANGE %s:%v..%v", name, p.Lower, p.Upper))
		return nil

	case query.Compare:
		v, err := coerce(name, spec, p.Value)
		if err != nil {
			return err
		}
		c.emit(fmt.Sprintf("%s %s %s", col, p.Op.String(), c.builder.Arg(v)),
			fmt.Sprintf("CMP %s%s%s", name, p.Op.String(), p.Value))
		return nil

	default:
		return fmt.Errorf("unknown predicate type: %T", e.Predicate)
	}
}

// resolveColumn maps a filter key to a column. A range is keyed by its
// <base>_begin parameter and filters the <base> column; the literal key is
// accepted when the table has such a column and no base column.
func (c *Compiler) resolveColumn(e query.Entry) (string, storage.ColumnSpec, error) {
	if _, ok := e.Predicate.(query.Range); ok {
		base := strings.TrimSuffix(e.Key, "_begin")
		if spec, ok := c.schema.Column(base); ok {
			return base, spec, nil
		}
	}
	spec, ok := c.schema.Column(e.Key)
	if !ok {
		return "", storage.ColumnSpec{}, qerrors.UnknownFieldError(e.Key)
	}
	return e.Key, spec, nil
}
