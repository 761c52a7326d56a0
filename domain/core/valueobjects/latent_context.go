package valueobjects

import (
	"fmt"

	"memcore/domain/config"
	pkgerrors "memcore/pkg/errors"
)

// LatentStateContext is a snapshot of the agent's internal state at
// memory creation time. It carries no derived fields; only its shape
// is enforced here.
type LatentStateContext struct {
	affectVector    []float64
	dissonanceScore float64
	explorationRate float64
}

// NewLatentStateContext creates a latent context with validation using
// the default configuration
func NewLatentStateContext(affectVector []float64, dissonanceScore, explorationRate float64) (LatentStateContext, error) {
	return NewLatentStateContextWithConfig(affectVector, dissonanceScore, explorationRate, config.DefaultDomainConfig())
}

// NewLatentStateContextWithConfig creates a latent context with
// validation and configuration
func NewLatentStateContextWithConfig(affectVector []float64, dissonanceScore, explorationRate float64, cfg *config.DomainConfig) (LatentStateContext, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if len(affectVector) != cfg.AffectVectorDimensions {
		return LatentStateContext{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			fmt.Sprintf("affect vector must have exactly %d dimensions, got %d", cfg.AffectVectorDimensions, len(affectVector)),
		).WithField("latent_context.affect_vector").
			WithDetail("expected", cfg.AffectVectorDimensions).
			WithDetail("actual", len(affectVector))
	}
	if dissonanceScore < 0 || dissonanceScore > 1 {
		return LatentStateContext{}, pkgerrors.NewScoreOutOfRange("latent_context.dissonance_score", dissonanceScore)
	}
	if explorationRate < 0 || explorationRate > 1 {
		return LatentStateContext{}, pkgerrors.NewScoreOutOfRange("latent_context.exploration_rate", explorationRate)
	}

	owned := make([]float64, len(affectVector))
	copy(owned, affectVector)

	return LatentStateContext{
		affectVector:    owned,
		dissonanceScore: dissonanceScore,
		explorationRate: explorationRate,
	}, nil
}

// AffectVector returns a copy of the affect vector
func (l LatentStateContext) AffectVector() []float64 {
	out := make([]float64, len(l.affectVector))
	copy(out, l.affectVector)
	return out
}

// DissonanceScore returns the dissonance score in [0, 1]
func (l LatentStateContext) DissonanceScore() float64 {
	return l.dissonanceScore
}

// ExplorationRate returns the exploration rate in [0, 1]
func (l LatentStateContext) ExplorationRate() float64 {
	return l.explorationRate
}
