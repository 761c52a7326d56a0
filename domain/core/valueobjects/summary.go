package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"memcore/domain/config"
	pkgerrors "memcore/pkg/errors"
)

// ContentSummary is the non-empty textual summary carried by every
// memory node. The embedding is computed from it elsewhere; this core
// only guards its shape.
type ContentSummary struct {
	text string
}

// NewContentSummary creates a summary with validation using default configuration
func NewContentSummary(text string) (ContentSummary, error) {
	return NewContentSummaryWithConfig(text, config.DefaultDomainConfig())
}

// NewContentSummaryWithConfig creates a summary with validation and configuration
func NewContentSummaryWithConfig(text string, cfg *config.DomainConfig) (ContentSummary, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)

	if text == "" {
		return ContentSummary{}, pkgerrors.NewMissingRequiredField("content_summary")
	}

	length := utf8.RuneCountInString(text)
	if length < cfg.MinSummaryLength {
		return ContentSummary{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("content summary too short: minimum %d characters required", cfg.MinSummaryLength),
		).WithField("content_summary").WithDetail("actual_length", length)
	}

	if length > cfg.MaxSummaryLength {
		return ContentSummary{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("content summary exceeds maximum length of %d characters", cfg.MaxSummaryLength),
		).WithField("content_summary").WithDetail("actual_length", length)
	}

	return ContentSummary{text: text}, nil
}

// Text returns the summary text
func (s ContentSummary) Text() string {
	return s.text
}

// IsEmpty checks if the summary is empty
func (s ContentSummary) IsEmpty() bool {
	return s.text == ""
}

// Equals checks if two summaries are equal
func (s ContentSummary) Equals(other ContentSummary) bool {
	return s.text == other.text
}

// Truncated returns the summary cut to at most maxLength runes
func (s ContentSummary) Truncated(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s.text) <= maxLength {
		return s.text
	}
	runes := []rune(s.text)
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
