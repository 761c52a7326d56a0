package valueobjects

import (
	"regexp"

	pkgerrors "memcore/pkg/errors"
)

var (
	artifactPathPattern = regexp.MustCompile(`^/mnt/[a-zA-Z0-9_\-/]+\.\w+$`)
	checksumPattern     = regexp.MustCompile(`^[a-f0-9]{64}$`)
)

// ArtifactPointer references an external immutable storage object,
// keeping the validated record itself lean. Tier and file type must
// already be resolved vocabulary literals.
type ArtifactPointer struct {
	tier     string
	path     string
	fileType string
	checksum string
	sizeMB   float64
}

// NewArtifactPointer creates an artifact pointer with validation
func NewArtifactPointer(tier, path, fileType, checksum string, sizeMB float64) (ArtifactPointer, error) {
	if tier == "" {
		return ArtifactPointer{}, pkgerrors.NewMissingRequiredField("artifact.tier")
	}
	if fileType == "" {
		return ArtifactPointer{}, pkgerrors.NewMissingRequiredField("artifact.file_type")
	}
	if !artifactPathPattern.MatchString(path) {
		return ArtifactPointer{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"artifact path must be an absolute /mnt path with a file extension",
		).WithField("artifact.path").WithDetail("path", path)
	}
	if !checksumPattern.MatchString(checksum) {
		return ArtifactPointer{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"artifact checksum must be a 64-character lowercase hex digest",
		).WithField("artifact.checksum")
	}
	if sizeMB <= 0 {
		return ArtifactPointer{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"artifact size must be positive",
		).WithField("artifact.size_mb").WithDetail("size_mb", sizeMB)
	}

	return ArtifactPointer{
		tier:     tier,
		path:     path,
		fileType: fileType,
		checksum: checksum,
		sizeMB:   sizeMB,
	}, nil
}

// Tier returns the storage tier literal
func (a ArtifactPointer) Tier() string {
	return a.tier
}

// Path returns the storage path
func (a ArtifactPointer) Path() string {
	return a.path
}

// FileType returns the file type literal
func (a ArtifactPointer) FileType() string {
	return a.fileType
}

// Checksum returns the content digest
func (a ArtifactPointer) Checksum() string {
	return a.checksum
}

// SizeMB returns the object size in megabytes
func (a ArtifactPointer) SizeMB() float64 {
	return a.sizeMB
}

// IsZero checks if the pointer is the zero value
func (a ArtifactPointer) IsZero() bool {
	return a.path == ""
}

// Equals checks if two pointers reference the same object
func (a ArtifactPointer) Equals(other ArtifactPointer) bool {
	return a.tier == other.tier &&
		a.path == other.path &&
		a.fileType == other.fileType &&
		a.checksum == other.checksum
}
