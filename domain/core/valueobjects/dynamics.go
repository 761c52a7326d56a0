package valueobjects

import (
	"time"

	pkgerrors "memcore/pkg/errors"
)

// IdentityBinding governs how tightly a memory is bound to the agent's
// identity. Zero value: ephemeral, unprotected.
type IdentityBinding struct {
	weight        float64
	driftPressure float64
	isProtected   bool
}

// NewIdentityBinding creates an identity binding with validation
func NewIdentityBinding(weight, driftPressure float64, isProtected bool) (IdentityBinding, error) {
	if weight < 0 || weight > 1 {
		return IdentityBinding{}, pkgerrors.NewScoreOutOfRange("identity.weight", weight)
	}
	if driftPressure < 0 {
		return IdentityBinding{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"drift pressure cannot be negative",
		).WithField("identity.drift_pressure").WithDetail("value", driftPressure)
	}
	return IdentityBinding{weight: weight, driftPressure: driftPressure, isProtected: isProtected}, nil
}

// Weight returns the binding weight in [0, 1]
func (b IdentityBinding) Weight() float64 { return b.weight }

// DriftPressure returns accumulated contradicting evidence
func (b IdentityBinding) DriftPressure() float64 { return b.driftPressure }

// IsProtected reports immunity to garbage collection
func (b IdentityBinding) IsProtected() bool { return b.isProtected }

// MemoryUtility carries the metabolic metrics consumed by external
// pruning and compression cycles. This core only checks shape.
type MemoryUtility struct {
	accessCount     int
	lastAccessed    time.Time
	predictiveValue float64
	redundancyScore float64
}

// NewMemoryUtility creates utility metrics with validation
func NewMemoryUtility(accessCount int, lastAccessed time.Time, predictiveValue, redundancyScore float64) (MemoryUtility, error) {
	if accessCount < 0 {
		return MemoryUtility{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"access count cannot be negative",
		).WithField("utility.access_count")
	}
	if lastAccessed.IsZero() {
		lastAccessed = time.Now().UTC()
	}
	return MemoryUtility{
		accessCount:     accessCount,
		lastAccessed:    lastAccessed,
		predictiveValue: predictiveValue,
		redundancyScore: redundancyScore,
	}, nil
}

// AccessCount returns how many times the memory was accessed
func (u MemoryUtility) AccessCount() int { return u.accessCount }

// LastAccessed returns the last access time
func (u MemoryUtility) LastAccessed() time.Time { return u.lastAccessed }

// PredictiveValue returns the reward signal for intent prediction
func (u MemoryUtility) PredictiveValue() float64 { return u.predictiveValue }

// RedundancyScore returns the cluster density overlap
func (u MemoryUtility) RedundancyScore() float64 { return u.redundancyScore }

// RecallDynamics tracks how the record drifts across recalls
type RecallDynamics struct {
	recallCount     int
	distortionScore float64
	lastReinforced  *time.Time
}

// NewRecallDynamics creates recall dynamics with validation
func NewRecallDynamics(recallCount int, distortionScore float64, lastReinforced *time.Time) (RecallDynamics, error) {
	if recallCount < 0 {
		return RecallDynamics{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"recall count cannot be negative",
		).WithField("recall.recall_count")
	}
	var reinforced *time.Time
	if lastReinforced != nil {
		t := lastReinforced.UTC()
		reinforced = &t
	}
	return RecallDynamics{
		recallCount:     recallCount,
		distortionScore: distortionScore,
		lastReinforced:  reinforced,
	}, nil
}

// RecallCount returns how many times the memory was recalled
func (r RecallDynamics) RecallCount() int { return r.recallCount }

// DistortionScore returns the semantic drift from the original event
func (r RecallDynamics) DistortionScore() float64 { return r.distortionScore }

// LastReinforced returns the last reinforcement time, if any
func (r RecallDynamics) LastReinforced() *time.Time {
	if r.lastReinforced == nil {
		return nil
	}
	t := *r.lastReinforced
	return &t
}

// MasteryState tracks user proficiency for a knowledge domain. The
// domain must already be a resolved knowledge-domain literal.
type MasteryState struct {
	domain          string
	userProficiency float64
	lastVerified    time.Time
}

// NewMasteryState creates a mastery state with validation
func NewMasteryState(domain string, userProficiency float64, lastVerified time.Time) (MasteryState, error) {
	if domain == "" {
		return MasteryState{}, pkgerrors.NewMissingRequiredField("mastery.domain")
	}
	if userProficiency < 0 || userProficiency > 1 {
		return MasteryState{}, pkgerrors.NewScoreOutOfRange("mastery.user_proficiency", userProficiency)
	}
	if lastVerified.IsZero() {
		lastVerified = time.Now().UTC()
	}
	return MasteryState{
		domain:          domain,
		userProficiency: userProficiency,
		lastVerified:    lastVerified,
	}, nil
}

// Domain returns the knowledge domain literal
func (m MasteryState) Domain() string { return m.domain }

// UserProficiency returns the proficiency score in [0, 1]
func (m MasteryState) UserProficiency() float64 { return m.userProficiency }

// LastVerified returns when proficiency was last demonstrated
func (m MasteryState) LastVerified() time.Time { return m.lastVerified }
