package valueobjects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSummary_NewContentSummary_TrimsAndValidates(t *testing.T) {
	// Arrange
	text := "  Cache invalidation caused the rollback storm.  "

	// Act
	summary, err := NewContentSummary(text)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Cache invalidation caused the rollback storm.", summary.Text())
}

func TestContentSummary_NewContentSummary_TooShort(t *testing.T) {
	// Act
	_, err := NewContentSummary("too brief")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestContentSummary_Truncated(t *testing.T) {
	// Arrange
	summary, err := NewContentSummary("A very long running description of a production incident.")
	require.NoError(t, err)

	tests := []struct {
		name      string
		maxLength int
		expected  string
	}{
		{
			name:      "shorter than limit is unchanged",
			maxLength: 100,
			expected:  "A very long running description of a production incident.",
		},
		{
			name:      "longer than limit gets ellipsis",
			maxLength: 20,
			expected:  "A very long runni...",
		},
		{
			name:      "tiny limit is a hard cut",
			maxLength: 3,
			expected:  "A v",
		},
		{
			name:      "zero limit is empty",
			maxLength: 0,
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			truncated := summary.Truncated(tt.maxLength)

			// Assert
			assert.Equal(t, tt.expected, truncated)
			assert.LessOrEqual(t, len(truncated), len(summary.Text()))
		})
	}
}

func TestContentSummary_Truncated_CountsRunesNotBytes(t *testing.T) {
	// Arrange
	text := strings.Repeat("ク", 30)
	summary, err := NewContentSummary(text)
	require.NoError(t, err)

	// Act
	truncated := summary.Truncated(10)

	// Assert
	assert.Equal(t, strings.Repeat("ク", 7)+"...", truncated)
}
