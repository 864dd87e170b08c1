package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolder(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.Latest())
	assert.Empty(t, h.Rows())

	h.Publish(&Report{Rows: []Row{{SecurityID: 3, Name: "C"}, {SecurityID: 1, Name: "A"}}})
	row, ok := h.Row(1)
	assert.True(t, ok)
	assert.Equal(t, "A", row.Name)

	_, ok = h.Row(2)
	assert.False(t, ok)
}
