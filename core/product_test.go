package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductFromMap(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want Product
	}{
		{
			name: "full record",
			in: map[string]any{
				"_id":           "p1",
				"category":      "electronics",
				"tags":          []any{"laptop", "portable"},
				"basePrice":     4999.0,
				"stock":         50,
				"demand":        80.0,
				"competition":   3,
				"ratingAverage": 4.5,
				"ratingCount":   120,
				"images":        []any{"a.jpg"},
			},
			want: Product{
				ID: "p1", Category: "electronics", Tags: []string{"laptop", "portable"},
				BasePrice: 4999, Stock: 50, Demand: 80, Competition: 3,
				RatingAvg: 4.5, RatingCount: 120, HasImage: true,
			},
		},
		{
			name: "price field alias",
			in:   map[string]any{"id": "p2", "price": 29.0},
			want: Product{ID: "p2", Category: DefaultCategory, BasePrice: 29},
		},
		{
			name: "empty map gets defaults",
			in:   map[string]any{},
			want: Product{Category: DefaultCategory},
		},
		{
			name: "nil map gets defaults",
			in:   nil,
			want: Product{Category: DefaultCategory},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProductFromMap(tt.in))
		})
	}
}

func TestReviewFromMap_DefaultRating(t *testing.T) {
	r := ReviewFromMap(map[string]any{"text": "nice"})
	assert.Equal(t, "nice", r.Text)
	assert.Equal(t, float64(DefaultReviewRating), r.Rating)
}

func TestScoreContext_SeenProducts(t *testing.T) {
	sctx := &ScoreContext{History: []Interaction{
		{UserID: "u1", ProductID: "p1", Rating: 5},
		{UserID: "u1", ProductID: "p1", Rating: 4},
		{UserID: "u1", ProductID: "p2", Rating: 2},
		{UserID: "u1", ProductID: "", Rating: 3},
	}}
	seen := sctx.SeenProducts()
	assert.Len(t, seen, 2)
	assert.Contains(t, seen, "p1")
	assert.Contains(t, seen, "p2")
}
