package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	features := map[string]any{
		"stock":    5.0,
		"demand":   85.0,
		"category": "electronics",
	}

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"numeric comparison true", "features.stock < 10.0", true},
		{"numeric comparison false", "features.stock > 10.0", false},
		{"string equality", `features.category == "electronics"`, true},
		{"logical and", "features.stock < 10.0 && features.demand > 80.0", true},
		{"empty expression is always true", "", true},
	}
	e := NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr, features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	e := NewEvaluator()
	features := map[string]any{"stock": 5.0}

	_, err := e.Evaluate("features.stock +", features)
	assert.Error(t, err, "syntax error must surface")

	_, err = e.Evaluate("features.stock", features)
	assert.Error(t, err, "non-boolean result must surface")
}

func TestEvaluate_CachesPrograms(t *testing.T) {
	e := NewEvaluator()
	features := map[string]any{"stock": 5.0}

	for i := 0; i < 3; i++ {
		got, err := e.Evaluate("features.stock < 10.0", features)
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Len(t, e.programs, 1)
}
