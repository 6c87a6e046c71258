package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalized(t *testing.T) {
	cases := []struct {
		name      string
		page      Page
		wantSkip  int
		wantLimit int
	}{
		{"defaults", Page{}, 0, 20},
		{"negative skip", Page{Skip: -5, Limit: 10}, 0, 10},
		{"limit capped", Page{Skip: 40, Limit: 500}, 40, 100},
		{"limit floor", Page{Limit: -1}, 0, 20},
		{"passthrough", Page{Skip: 10, Limit: 50}, 10, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skip, limit := tc.page.Normalized()
			assert.Equal(t, tc.wantSkip, skip)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}
