package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscalateSelection(t *testing.T) {
	tests := []struct {
		name     string
		matches  []itemMatch
		multiple bool
		warnings []string
		errMsg   string
	}{
		{
			name: "all matched",
			matches: []itemMatch{
				{Item: "a", By: matchedByValue},
				{Item: "b", By: matchedByLabel},
			},
			multiple: true,
		},
		{
			name: "multi selection fails listing every miss",
			matches: []itemMatch{
				{Item: "a", By: matchedByValue},
				{Item: "b", By: unmatched},
				{Item: "c", By: unmatched},
			},
			multiple: true,
			errMsg:   "Options 'b, c' not in list 'menu'.",
		},
		{
			name: "single selection warns when last item matched",
			matches: []itemMatch{
				{Item: "a", By: unmatched},
				{Item: "b", By: matchedByValue},
			},
			warnings: []string{"Option(s) 'a' not found within list 'menu'."},
		},
		{
			name: "single selection fails when last item unmatched",
			matches: []itemMatch{
				{Item: "a", By: matchedByValue},
				{Item: "b", By: unmatched},
			},
			errMsg: "Option 'b' not in list 'menu'.",
		},
		{
			name: "single selection warns and fails on trailing miss",
			matches: []itemMatch{
				{Item: "a", By: unmatched},
				{Item: "b", By: unmatched},
			},
			warnings: []string{"Option(s) 'a' not found within list 'menu'."},
			errMsg:   "Option 'b' not in list 'menu'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings, err := escalateSelection("menu", tt.matches, tt.multiple)
			assert.Equal(t, tt.warnings, warnings)
			if tt.errMsg == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				assert.IsType(t, &ArgumentError{}, err)
			}
		})
	}
}
