package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 1.5, 1.5, true},
		{"int", 3, 3.0, true},
		{"int64", int64(4), 4.0, true},
		{"bool true", true, 1.0, true},
		{"bool false", false, 0.0, true},
		{"string rejected", "1.5", 0, false},
		{"nil rejected", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToInt(t *testing.T) {
	got, ok := ToInt(7.9)
	assert.True(t, ok)
	assert.Equal(t, 7, got, "float truncates toward zero")

	_, ok = ToInt("7")
	assert.False(t, ok)
}

func TestMapToFloat64(t *testing.T) {
	out := MapToFloat64(map[string]any{"a": 1, "b": 2.5, "c": "skip"})
	assert.Equal(t, map[string]float64{"a": 1, "b": 2.5}, out)
	assert.Nil(t, MapToFloat64(nil))
}

func TestSliceAnyToString(t *testing.T) {
	assert.Equal(t, []string{"a", "2"}, SliceAnyToString([]any{"a", 2.0}))
	assert.Equal(t, []string{"x"}, SliceAnyToString([]string{"x"}))
	assert.Nil(t, SliceAnyToString(42))
	assert.Nil(t, SliceAnyToString(nil))
}
