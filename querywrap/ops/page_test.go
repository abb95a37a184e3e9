package ops

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"gotest.tools/v3/assert"

	qerrors "github.com/nonibytes/querywrap/querywrap/errors"
	"github.com/nonibytes/querywrap/querywrap/query"
)

var testDefaults = PageDefaults{PageSize: 20, MaxPageSize: 50, Sort: "name"}

func TestParsePageParamsDefaults(t *testing.T) {
	p, err := ParsePageParams(query.NewRecord(), testDefaults)
	assert.NilError(t, err)
	assert.DeepEqual(t, p, PageParams{Page: 1, PageSize: 20, Sort: "name"})
	assert.Equal(t, p.Offset(), 0)
}

func TestParsePageParams(t *testing.T) {
	rec, err := query.ParseQuery("page=3&pageSize=10&sort=age&order=DESCEND&name=bob")
	assert.NilError(t, err)

	p, err := ParsePageParams(rec, testDefaults)
	assert.NilError(t, err)
	assert.DeepEqual(t, p, PageParams{Page: 3, PageSize: 10, Sort: "age", Desc: true})
	assert.Equal(t, p.Offset(), 20)
}

func TestParsePageParamsNumericValues(t *testing.T) {
	p, err := ParsePageParams(query.RecordOf("page", 2, "pageSize", 5.0), testDefaults)
	assert.NilError(t, err)
	assert.Equal(t, p.Page, 2)
	assert.Equal(t, p.PageSize, 5)
}

func TestParsePageParamsClampsPageSize(t *testing.T) {
	p, err := ParsePageParams(query.RecordOf("pageSize", "500"), testDefaults)
	assert.NilError(t, err)
	assert.Equal(t, p.PageSize, 50)
}

func TestParsePageParamsEmptyValuesUseDefaults(t *testing.T) {
	p, err := ParsePageParams(query.RecordOf("page", "", "sort", " ", "order", nil), testDefaults)
	assert.NilError(t, err)
	assert.DeepEqual(t, p, PageParams{Page: 1, PageSize: 20, Sort: "name"})
}

func TestParsePageParamsLargestPage(t *testing.T) {
	last := math.MaxInt/10 + 1
	p, err := ParsePageParams(query.RecordOf("page", strconv.Itoa(last), "pageSize", "10"), testDefaults)
	assert.NilError(t, err)
	assert.Equal(t, p.Page, last)
	assert.Assert(t, p.Offset() > 0)

	_, err = ParsePageParams(query.RecordOf("page", strconv.Itoa(last+1), "pageSize", "10"), testDefaults)
	assert.Assert(t, qerrors.IsKind(err, qerrors.ErrInvalidParam), "got %v", err)
}

func TestParsePageParamsRejects(t *testing.T) {
	cases := []struct {
		name  string
		rec   *query.Record
		field string
	}{
		{"page zero", query.RecordOf("page", "0"), "page"},
		{"page text", query.RecordOf("page", "two"), "page"},
		{"page bool", query.RecordOf("page", true), "page"},
		{"negative size", query.RecordOf("pageSize", -1), "pageSize"},
		{"fractional page", query.RecordOf("page", 2.5), "page"},
		{"offset overflow", query.RecordOf("page", "9223372036854775807", "pageSize", "10"), "page"},
		{"bad order", query.RecordOf("order", "sideways"), "order"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePageParams(tc.rec, testDefaults)
			assert.Assert(t, qerrors.IsKind(err, qerrors.ErrInvalidParam), "got %v", err)
			var qe *qerrors.Error
			assert.Assert(t, errors.As(err, &qe))
			assert.Equal(t, qe.Field, tc.field)
		})
	}
}
