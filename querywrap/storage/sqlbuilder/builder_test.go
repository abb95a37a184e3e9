package sqlbuilder

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestQuestionPlaceholders(t *testing.T) {
	b := New(PlaceholderQuestion)
	assert.Equal(t, b.Arg("a"), "?")
	assert.Equal(t, b.List([]any{1, 2, 3}), "?, ?, ?")
	assert.Equal(t, b.Len(), 4)
	assert.DeepEqual(t, b.Args(), []any{"a", 1, 2, 3})
}

func TestDollarPlaceholders(t *testing.T) {
	b := New(PlaceholderDollar)
	assert.Equal(t, b.Arg("a"), "$1")
	assert.Equal(t, b.List([]any{"x", "y"}), "$2, $3")
	for i := 0; i < 7; i++ {
		b.Arg(i)
	}
	assert.Equal(t, b.Arg("last"), "$11")
}

func TestItoa(t *testing.T) {
	assert.Equal(t, itoa(0), "0")
	assert.Equal(t, itoa(7), "7")
	assert.Equal(t, itoa(1234567), "1234567")
}
