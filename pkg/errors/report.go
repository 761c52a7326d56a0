package errors

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"
)

// Rejection is the machine-readable form of an admission failure,
// written to whatever surface reported the candidate.
type Rejection struct {
	Error   bool                   `json:"error"`
	Type    string                 `json:"type"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewRejection converts an error into its rejection document. Errors
// outside the domain taxonomy are reported as internal.
func NewRejection(err error) Rejection {
	if de := GetDomainError(err); de != nil {
		r := Rejection{
			Error:   true,
			Type:    string(de.Type),
			Code:    de.Code,
			Message: de.Message,
			Field:   de.Field(),
		}
		if len(de.Details) > 0 {
			details := make(map[string]interface{}, len(de.Details))
			for k, v := range de.Details {
				if k == "field" {
					continue
				}
				details[k] = v
			}
			if len(details) > 0 {
				r.Details = details
			}
		}
		return r
	}

	return Rejection{
		Error:   true,
		Type:    string(DomainInfrastructureError),
		Message: err.Error(),
	}
}

// RejectionReporter logs admission failures and writes their
// machine-readable form
type RejectionReporter struct {
	logger *zap.Logger
}

// NewRejectionReporter creates a new rejection reporter
func NewRejectionReporter(logger *zap.Logger) *RejectionReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RejectionReporter{logger: logger}
}

// Report logs the failure at a level matching its type and writes the
// rejection document to w
func (r *RejectionReporter) Report(w io.Writer, err error) error {
	rejection := NewRejection(err)

	fields := []zap.Field{
		zap.String("code", rejection.Code),
		zap.String("field", rejection.Field),
	}
	switch rejection.Type {
	case string(DomainInfrastructureError):
		r.logger.Error(rejection.Message, fields...)
	default:
		r.logger.Warn(rejection.Message, fields...)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rejection)
}
