package query

// PredicateKind names a predicate variant on the wire.
type PredicateKind string

const (
	KindEquals    PredicateKind = "eq"
	KindPattern   PredicateKind = "like"
	KindNotEquals PredicateKind = "ne"
	KindIn        PredicateKind = "in"
	KindRange     PredicateKind = "range"
	KindCompare   PredicateKind = "cmp"
)

// Predicate is a compiled filter on a single field.
type Predicate interface {
	Kind() PredicateKind
	isPredicate()
}

// Equals matches the value verbatim. The value keeps its scalar type.
type Equals struct {
	Value Value
}

func (Equals) Kind() PredicateKind { return KindEquals }
func (Equals) isPredicate()        {}

// Pattern is a SQL LIKE expression using % wildcards.
type Pattern struct {
	Like string
}

func (Pattern) Kind() PredicateKind { return KindPattern }
func (Pattern) isPredicate()        {}

// NotEquals excludes a single value.
type NotEquals struct {
	Value string
}

func (NotEquals) Kind() PredicateKind { return KindNotEquals }
func (NotEquals) isPredicate()        {}

// In matches any of the listed values.
type In struct {
	Values []string
}

func (In) Kind() PredicateKind { return KindIn }
func (In) isPredicate()        {}

// Range is an inclusive interval built from a <base>_begin / <base>_end pair.
type Range struct {
	Lower Value
	Upper Value
}

func (Range) Kind() PredicateKind { return KindRange }
func (Range) isPredicate()        {}

// CmpOp is a comparison operator
type CmpOp int

const (
	LessThan CmpOp = iota
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

// String returns the SQL operator.
func (op CmpOp) String() string {
	switch op {
	case LessThan:
		return "<"
	case LessOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		return "?"
	}
}

// Code returns the two-letter operator used in query values.
func (op CmpOp) Code() string {
	switch op {
	case LessThan:
		return "lt"
	case LessOrEqual:
		return "le"
	case GreaterThan:
		return "gt"
	case GreaterOrEqual:
		return "ge"
	default:
		return ""
	}
}

var cmpOpsByCode = map[string]CmpOp{
	"lt": LessThan,
	"le": LessOrEqual,
	"gt": GreaterThan,
	"ge": GreaterOrEqual,
}

// Compare is an ordered comparison against an operand.
type Compare struct {
	Op    CmpOp
	Value string
}

func (Compare) Kind() PredicateKind { return KindCompare }
func (Compare) isPredicate()        {}
