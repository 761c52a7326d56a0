package validators

import (
	"memcore/domain/core/valueobjects"
	"memcore/domain/vocab"
	pkgerrors "memcore/pkg/errors"
)

// SecurityEscalationValidator enforces the classification rules: a
// restricted record must reference an immutable audit artifact and
// receives a freshly derived diode packet; any other classification
// must not carry one. Escalating or downgrading a record always means
// re-validating new candidate data, so the packet can never go stale.
type SecurityEscalationValidator struct{}

// NewSecurityEscalationValidator creates a new security escalation validator
func NewSecurityEscalationValidator() *SecurityEscalationValidator {
	return &SecurityEscalationValidator{}
}

// EscalationInput carries everything the packet derivation needs. All
// enum literals are already resolved; the integrity hash comes from
// the node's freshly built provenance.
type EscalationInput struct {
	Classification string
	Artifact       *valueobjects.ArtifactPointer
	PacketSupplied bool
	NodeID         valueobjects.NodeID
	IntegrityHash  string
	Domains        []string
	Latent         *valueobjects.LatentStateContext
}

// Enforce applies the escalation rules and derives the diode packet
// for restricted records. It returns nil for every other
// classification.
func (v *SecurityEscalationValidator) Enforce(in EscalationInput) (*valueobjects.DiodePacket, error) {
	if in.Classification != vocab.ClassificationRestricted {
		if in.PacketSupplied {
			// A packet on a non-restricted candidate means a
			// classification downgrade tried to keep its old audit
			// artifact.
			return nil, pkgerrors.NewSecurityInvariantViolation(
				"diode packet supplied for a non-restricted classification",
			).WithField("diode_packet").WithDetail("classification", in.Classification)
		}
		return nil, nil
	}

	if in.Artifact == nil || in.Artifact.IsZero() {
		return nil, pkgerrors.NewSecurityInvariantViolation(
			"RESTRICTED classification requires an artifact pointer",
		).WithField("artifact")
	}

	dissonance := 0.0
	if in.Latent != nil {
		dissonance = in.Latent.DissonanceScore()
	}

	packet := valueobjects.NewDiodePacket(
		*in.Artifact,
		in.NodeID,
		in.Classification,
		in.IntegrityHash,
		in.Domains,
		dissonance,
	)
	return &packet, nil
}
