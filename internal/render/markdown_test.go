package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name        string
		input       string
		contains    string
		notContains string
	}{
		{
			name:     "Emphasis",
			input:    "mess closed *today*",
			contains: "<em>today</em>",
		},
		{
			name:     "Strikethrough",
			input:    "~~cancelled~~ rescheduled",
			contains: "<del>cancelled</del>",
		},
		{
			name:        "Script stripped",
			input:       "hello <script>alert(1)</script>",
			notContains: "<script>",
		},
		{
			name:        "Event handlers stripped",
			input:       `<img src="x.png" onerror="alert(1)">`,
			notContains: "onerror",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := r.Render(tc.input)
			require.NoError(t, err)
			if tc.contains != "" {
				assert.Contains(t, out, tc.contains)
			}
			if tc.notContains != "" {
				assert.NotContains(t, out, tc.notContains)
			}
		})
	}
}
