package valueobjects

import (
	"fmt"
	"strings"
)

// DiodePacket is the audit artifact derived for restricted records.
// It is never built from caller input; the security escalation
// validator is its only producer. The payload is shaped for
// one-directional, write-once transport: the receiving hardware cannot
// ask for clarification, so the packet is self-describing.
type DiodePacket struct {
	pointer ArtifactPointer
	payload string
}

// NewDiodePacket derives a packet for a restricted node. dissonance is
// the latent dissonance score at creation, zero when no latent context
// was captured.
func NewDiodePacket(pointer ArtifactPointer, nodeID NodeID, classification, integrityHash string, domains []string, dissonance float64) DiodePacket {
	payload := fmt.Sprintf(
		"SHA:%s|ID:%s|CLS:%s|DOM:%s|DISS:%.2f",
		integrityHash,
		nodeID.String(),
		classification,
		strings.Join(domains, ","),
		dissonance,
	)
	return DiodePacket{pointer: pointer, payload: payload}
}

// Pointer returns the referenced immutable audit record
func (d DiodePacket) Pointer() ArtifactPointer {
	return d.pointer
}

// Payload returns the formatted transport payload
func (d DiodePacket) Payload() string {
	return d.payload
}

// IsZero checks if the packet is the zero value
func (d DiodePacket) IsZero() bool {
	return d.payload == ""
}
