package config

import "fmt"

// HashVerificationPolicy decides what happens to a stored integrity
// hash when a previously validated record re-enters the pipeline
type HashVerificationPolicy string

const (
	// HashPolicyVerify recomputes the digest and rejects on mismatch
	HashPolicyVerify HashVerificationPolicy = "verify"

	// HashPolicyTrust keeps the stored digest without recomputation
	HashPolicyTrust HashVerificationPolicy = "trust"
)

// DomainConfig holds all configurable admission rules and constraints
type DomainConfig struct {
	// Record shape constraints
	AffectVectorDimensions int
	MinSummaryLength       int
	MaxSummaryLength       int
	MaxDomainsPerNode      int
	MaxEdgesPerNode        int
	MaxContributors        int

	// Defaults applied to candidates that omit the field
	DefaultStorageTier     string
	DefaultClassification  string
	DefaultEmbeddingModel  string

	// Embedding fallback: identities matching the pattern are accepted
	// without registration, checked against the candidate override or
	// the minimum-length sanity bound. Empty pattern disables fallback.
	UnknownModelPattern    string
	UnknownModelMinLength  int

	// Re-validation policy for stored integrity hashes
	HashVerification HashVerificationPolicy
}

// DefaultDomainConfig returns the default admission configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		AffectVectorDimensions: 8,
		MinSummaryLength:       10,
		MaxSummaryLength:       10000,
		MaxDomainsPerNode:      16,
		MaxEdgesPerNode:        50,
		MaxContributors:        64,

		DefaultStorageTier:    "T1_NVMe_Index",
		DefaultClassification: "internal",
		DefaultEmbeddingModel: "bge-m3-v1.5",

		UnknownModelPattern:   "",
		UnknownModelMinLength: 8,

		HashVerification: HashPolicyVerify,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// No unregistered embedding models in production; stored hashes
	// are always re-derived and compared.
	config.UnknownModelPattern = ""
	config.HashVerification = HashPolicyVerify

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Accept any custom model identity, bounded only by the sanity
	// minimum, and trust stored hashes from scratch files.
	config.UnknownModelPattern = ".*"
	config.HashVerification = HashPolicyTrust

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.AffectVectorDimensions <= 0 {
		return fmt.Errorf("affect vector dimensions must be positive")
	}
	if c.MinSummaryLength < 1 || c.MinSummaryLength > c.MaxSummaryLength {
		return fmt.Errorf("summary length bounds are inconsistent")
	}
	if c.UnknownModelMinLength < 1 {
		return fmt.Errorf("unknown model minimum length must be positive")
	}
	switch c.HashVerification {
	case HashPolicyVerify, HashPolicyTrust:
	default:
		return fmt.Errorf("unknown hash verification policy %q", c.HashVerification)
	}
	return nil
}
