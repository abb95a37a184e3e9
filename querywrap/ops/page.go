package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/query"
)

// PageParams are the reserved listing parameters of a record
type PageParams struct {
	Page     int
	PageSize int
	Sort     string
	Desc     bool
}

// PageDefaults fill in parameters the caller left out
type PageDefaults struct {
	PageSize    int
	MaxPageSize int
	Sort        string
	Desc        bool
}

// Offset is the number of rows skipped before this page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageParams reads page, pageSize, sort and order from rec. A page size
// above the maximum is clamped; malformed values are rejected.
func ParsePageParams(rec *query.Record, d PageDefaults) (PageParams, error) {
	p := PageParams{Page: 1, PageSize: d.PageSize, Sort: d.Sort, Desc: d.Desc}

	if v, ok := nonEmpty(rec, "page"); ok {
		n, err := toInt(v)
		if err != nil || n < 1 {
			return p, qerrors.InvalidParam("page", fmt.Sprintf("page must be a positive integer, got %q", v.String()))
		}
		p.Page = n
	}

	if v, ok := nonEmpty(rec, "pageSize"); ok {
		n, err := toInt(v)
		if err != nil || n < 1 {
			return p, qerrors.InvalidParam("pageSize", fmt.Sprintf("pageSize must be a positive integer, got %q", v.String()))
		}
		p.PageSize = n
	}
	if d.MaxPageSize > 0 && p.PageSize > d.MaxPageSize {
		p.PageSize = d.MaxPageSize
	}
	// The offset must stay representable.
	if p.PageSize > 0 && p.Page-1 > math.MaxInt/p.PageSize {
		return p, qerrors.InvalidParam("page", fmt.Sprintf("page %d is out of range for page size %d", p.Page, p.PageSize))
	}

	if v, ok := nonEmpty(rec, "sort"); ok {
		p.Sort = v.String()
	}

	if v, ok := nonEmpty(rec, "order"); ok {
		switch strings.ToLower(v.String()) {
		case "asc", "ascend":
			p.Desc = false
		case "desc", "descend":
			p.Desc = true
		default:
			return p, qerrors.InvalidParam("order", fmt.Sprintf("order must be asc or desc, got %q", v.String()))
		}
	}
	return p, nil
}

func nonEmpty(rec *query.Record, key string) (query.Value, bool) {
	v, ok := rec.Get(key)
	if !ok || v.IsNull() {
		return v, false
	}
	if s, isStr := v.Str(); isStr && strings.TrimSpace(s) == "" {
		return v, false
	}
	return v, true
}

func toInt(v query.Value) (int, error) {
	if s, ok := v.Str(); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}
	switch x := v.Interface().(type) {
	case bool:
		return 0, fmt.Errorf("boolean is not an integer")
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%v is not a whole number", x)
		}
	}
	return cast.ToIntE(v.Interface())
}
