package gallery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  TransformRequest
	}{
		{
			name:  "defaults",
			query: "",
			want:  TransformRequest{Fit: "scale-down", Quality: 85},
		},
		{
			name:  "full request",
			query: "w=300&h=300&fit=cover&q=80&f=webp",
			want:  TransformRequest{Width: 300, Height: 300, Fit: "cover", Quality: 80, Format: "webp"},
		},
		{
			name:  "malformed numbers fall back",
			query: "w=abc&q=-5",
			want:  TransformRequest{Fit: "scale-down", Quality: 85},
		},
		{
			name:  "width only",
			query: "w=800",
			want:  TransformRequest{Width: 800, Fit: "scale-down", Quality: 85},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}

			assert.Equal(t, tt.want, ParseTransform(query))
		})
	}
}

func TestTransformRequest_IsTransformation(t *testing.T) {
	tests := []struct {
		name string
		req  TransformRequest
		want bool
	}{
		{"empty", TransformRequest{Fit: "scale-down", Quality: 85}, false},
		{"width", TransformRequest{Width: 300}, true},
		{"height", TransformRequest{Height: 300}, true},
		{"format", TransformRequest{Format: "webp"}, true},
		{"quality alone is not a transformation", TransformRequest{Quality: 50}, false},
		{"fit alone is not a transformation", TransformRequest{Fit: "cover"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.IsTransformation())
		})
	}
}
