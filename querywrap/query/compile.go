package query

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/containerd/log"
)

const (
	beginSuffix = "_begin"
	endSuffix   = "_end"
)

// ignoredFields are reserved for pagination and ordering.
var ignoredFields = map[string]struct{}{
	"page":     {},
	"pageSize": {},
	"sort":     {},
	"order":    {},
}

// cmpOpRe requires exactly one literal space between the code and the operand.
var cmpOpRe = regexp.MustCompile(`^(le|ge|gt|lt) .+`)

// IsIgnored reports whether key is reserved and never compiled into a filter.
func IsIgnored(key string) bool {
	_, ok := ignoredFields[key]
	return ok
}

// IgnoredFields returns the reserved parameter names.
func IgnoredFields() []string {
	return []string{"page", "pageSize", "sort", "order"}
}

// Compile translates a flat parameter record into filter predicates.
//
// Values carry a small syntax:
//
//	*abc, abc*, *abc*   LIKE pattern (% wildcards)
//	!abc                not equal
//	a,b,c               IN list
//	x_begin + x_end     inclusive range on x_begin (x_end is consumed)
//	lt 5, le 5, gt 5, ge 5
//
// Anything else, including non-string values and strings shorter than two
// characters, is an equality. Compile never fails.
func Compile(rec *Record) *FilterSet {
	return CompileContext(context.Background(), rec)
}

// CompileContext is Compile with a debug trace on the context logger.
func CompileContext(ctx context.Context, rec *Record) *FilterSet {
	fields := rec.Fields()
	fs := newFilterSet(len(fields))
	consumed := make(map[string]struct{})

	for _, f := range fields {
		if IsIgnored(f.Key) {
			continue
		}
		p, pairedEnd := classify(rec, f)
		if pairedEnd != "" {
			consumed[pairedEnd] = struct{}{}
		}
		if p != nil {
			fs.add(f.Key, p)
		}
	}

	if len(consumed) > 0 {
		out := newFilterSet(fs.Len())
		for _, e := range fs.entries {
			if _, ok := consumed[e.Key]; ok {
				continue
			}
			out.add(e.Key, e.Predicate)
		}
		fs = out
	}

	if log.GetLevel() >= log.DebugLevel {
		log.G(ctx).WithFields(log.Fields{
			"params":  len(fields),
			"filters": fs.Keys(),
		}).Debug("compiled query record")
	}
	return fs
}

// classify applies the value rules to a single field. It returns a nil
// predicate when the field emits nothing, and the name of the _end sibling
// when a range consumed it.
func classify(rec *Record, f Field) (Predicate, string) {
	s, ok := f.Value.Str()
	if !ok || utf8.RuneCountInString(s) <= 1 {
		return Equals{Value: f.Value}, ""
	}

	switch {
	case s[0] == '*' || s[len(s)-1] == '*':
		like := s
		if like[0] == '*' {
			like = "%" + like[1:]
		}
		if like[len(like)-1] == '*' {
			like = like[:len(like)-1] + "%"
		}
		return Pattern{Like: like}, ""

	case s[0] == '!':
		return NotEquals{Value: s[1:]}, ""

	case strings.Contains(s, ","):
		return In{Values: strings.Split(s, ",")}, ""

	case strings.HasSuffix(f.Key, beginSuffix):
		endKey := strings.TrimSuffix(f.Key, beginSuffix) + endSuffix
		upper, ok := rec.Get(endKey)
		if !ok {
			return Equals{Value: f.Value}, ""
		}
		return Range{Lower: f.Value, Upper: upper}, endKey

	case strings.HasSuffix(f.Key, endSuffix):
		// Only read as the upper bound of its _begin sibling.
		return nil, ""

	case cmpOpRe.MatchString(s):
		return Compare{Op: cmpOpsByCode[s[:2]], Value: s[3:]}, ""

	default:
		return Equals{Value: f.Value}, ""
	}
}
