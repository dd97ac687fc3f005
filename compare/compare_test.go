package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered(t *testing.T) {
	assert.Equal(t, Less, Ordered(1, 2))
	assert.Equal(t, Greater, Ordered(2.5, 2.0))
	assert.Equal(t, Equal, Ordered(uint8(3), uint8(3)))
}

func TestStrictlyIncreasing(t *testing.T) {
	idx, ok := StrictlyIncreasing([]float64{0, 1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, -1, idx)

	idx, ok = StrictlyIncreasing([]int{0, 1, 1, 3})
	assert.False(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = StrictlyIncreasing([]int{3, 2})
	assert.False(t, ok)
	assert.Equal(t, 1, idx)
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{int32(-7), -7},
		{uint64(42), 42},
		{float32(0.5), 0.5},
		{true, 1},
		{"2.25", 2.25},
		{[]byte(" 3 "), 3},
	}
	for _, tt := range tests {
		got, err := ToFloat64(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ToFloat64(nil)
	assert.Error(t, err)
	_, err = ToFloat64("abc")
	assert.Error(t, err)
	_, err = ToFloat64("NaN")
	assert.Error(t, err)
	_, err = ToFloat64(struct{}{})
	assert.Error(t, err)
}
