package apidex

import (
	"context"
	"time"
)

// QuirkCategory classifies a documented formatting irregularity.
type QuirkCategory string

// Quirk categories.
const (
	QuirkCurrencyMinorUnits   QuirkCategory = "currency_minor_units"
	QuirkStringEncodedNumber  QuirkCategory = "string_encoded_number"
	QuirkEpochTimestamp       QuirkCategory = "epoch_timestamp"
	QuirkNonstandardDate      QuirkCategory = "nonstandard_date"
	QuirkInconsistentCasing   QuirkCategory = "inconsistent_casing"
	QuirkPagination           QuirkCategory = "pagination"
	QuirkRateLimit            QuirkCategory = "rate_limit"
	QuirkEncoding             QuirkCategory = "encoding"
	QuirkOther                QuirkCategory = "other"
)

// Valid returns true if the category is one of the known categories.
func (c QuirkCategory) Valid() bool {
	switch c {
	case QuirkCurrencyMinorUnits, QuirkStringEncodedNumber, QuirkEpochTimestamp,
		QuirkNonstandardDate, QuirkInconsistentCasing, QuirkPagination,
		QuirkRateLimit, QuirkEncoding, QuirkOther:
		return true
	}
	return false
}

// Severity grades how likely a quirk is to break a naive client.
type Severity string

// Quirk severities.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Valid returns true if the severity is one of the known grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Quirk origin markers.
const (
	DetectedManual   = "manual"
	DetectedDetector = "detector"
)

// Quirk records a formatting irregularity of a cataloged API, e.g.
// amounts expressed in minor currency units or timestamps as epoch
// integers.
type Quirk struct {
	ID          string        `json:"id"`
	APIID       string        `json:"apiId"`
	EndpointID  string        `json:"endpointId,omitempty"` // optional
	Field       string        `json:"field"`
	Category    QuirkCategory `json:"category"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	Example     string        `json:"example"`
	DetectedBy  string        `json:"detectedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Validate returns an error if the quirk contains invalid fields.
func (q *Quirk) Validate() error {
	if q.APIID == "" {
		return Errorf(EINVALID, "quirk API ID required")
	}
	if !q.Category.Valid() {
		return Errorf(EINVALID, "unknown quirk category %q", q.Category)
	}
	if !q.Severity.Valid() {
		return Errorf(EINVALID, "unknown quirk severity %q", q.Severity)
	}
	if q.Description == "" {
		return Errorf(EINVALID, "quirk description required")
	}
	return nil
}

// QuirkService represents a service for managing quirks.
type QuirkService interface {
	// CreateQuirk records a new quirk.
	CreateQuirk(ctx context.Context, quirk *Quirk) error

	// FindQuirks retrieves quirks matching the filter, newest first.
	FindQuirks(ctx context.Context, filter QuirkFilter) ([]*Quirk, error)

	// DeleteQuirk permanently removes a quirk.
	// Returns ENOTFOUND if the quirk does not exist.
	DeleteQuirk(ctx context.Context, id string) error
}

// QuirkFilter represents a filter for FindQuirks.
type QuirkFilter struct {
	ID         *string        `json:"id"`
	APIID      *string        `json:"apiId"`
	EndpointID *string        `json:"endpointId"`
	Category   *QuirkCategory `json:"category"`
	Severity   *Severity      `json:"severity"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// QuirkDetector proposes quirks from cataloged endpoints and
// parameters. Detection is deterministic; implementations must
// suppress duplicates against the already-recorded quirks passed in.
type QuirkDetector interface {
	// DetectQuirks inspects the endpoints (with parameters attached)
	// of a single API and returns proposed quirks. Existing quirks are
	// used for duplicate suppression: a proposal matching an existing
	// (endpoint, field, category) is not returned again.
	DetectQuirks(ctx context.Context, api *API, endpoints []*Endpoint, existing []*Quirk) ([]*Quirk, error)
}
