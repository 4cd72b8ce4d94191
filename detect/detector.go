// Package detect proposes quirks from cataloged endpoints and
// parameters using deterministic rules. No network access, no model
// calls: every rule is a pure function of the stored catalog, so runs
// are repeatable and cheap enough to execute on every ingest.
package detect

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mstanek/apidex"
)

// Compile-time interface verification.
var _ apidex.QuirkDetector = (*Detector)(nil)

// Detector applies rule-based quirk detection over an API's endpoints.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Epoch plausibility bounds: 2000-01-01 to 2100-01-01, in seconds and
// milliseconds.
const (
	epochSecMin = 946684800
	epochSecMax = 4102444800
	epochMsMin  = epochSecMin * 1000
	epochMsMax  = epochSecMax * 1000
)

var (
	currencyNameRe = regexp.MustCompile(`(?i)(amount|price|total|fee)`)
	numberNameRe   = regexp.MustCompile(`(?i)(amount|price|total|fee|count|quantity|size)`)
	timeNameRe     = regexp.MustCompile(`(?i)(time|date)`)
	atSuffixRe     = regexp.MustCompile(`(_at$|[a-z]At$)`)
	numericValueRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

	// Date-looking strings that are not RFC 3339.
	dateLikeRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),         // 03/31/2024
		regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),           // 31-03-2024
		regexp.MustCompile(`^\d{8}$`),                           // 20240331
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}`),    // 2024-03-31 12:00
		regexp.MustCompile(`^[A-Z][a-z]{2} \d{1,2},? \d{4}$`),   // Mar 31, 2024
	}

	paginationNames = map[string]bool{
		"cursor":     true,
		"page_token": true,
		"next":       true,
	}
)

// DetectQuirks inspects the endpoints of a single API and returns
// proposed quirks. A proposal matching an existing or already-proposed
// (endpoint, field, category) is suppressed.
func (d *Detector) DetectQuirks(_ context.Context, api *apidex.API, endpoints []*apidex.Endpoint, existing []*apidex.Quirk) ([]*apidex.Quirk, error) {
	if api == nil || api.ID == "" {
		return nil, apidex.Errorf(apidex.EINVALID, "api required for quirk detection")
	}

	seen := make(map[string]bool, len(existing))
	for _, quirk := range existing {
		seen[quirkKey(quirk.EndpointID, quirk.Field, quirk.Category)] = true
	}

	var proposed []*apidex.Quirk
	propose := func(quirk *apidex.Quirk) {
		key := quirkKey(quirk.EndpointID, quirk.Field, quirk.Category)
		if seen[key] {
			return
		}
		seen[key] = true
		quirk.APIID = api.ID
		quirk.DetectedBy = apidex.DetectedDetector
		proposed = append(proposed, quirk)
	}

	for _, endpoint := range endpoints {
		for _, param := range endpoint.Parameters {
			checkParameter(endpoint, param, propose)
		}
		checkCasing(endpoint, propose)
	}

	return proposed, nil
}

func checkParameter(endpoint *apidex.Endpoint, param *apidex.Parameter, propose func(*apidex.Quirk)) {
	// Integer money fields almost always mean minor currency units.
	if param.Type == apidex.TypeInteger && currencyNameRe.MatchString(param.Name) {
		propose(&apidex.Quirk{
			EndpointID:  endpoint.ID,
			Field:       param.Name,
			Category:    apidex.QuirkCurrencyMinorUnits,
			Severity:    apidex.SeverityWarning,
			Description: fmt.Sprintf("%q is integer-typed; the value is likely expressed in minor currency units (cents)", param.Name),
			Example:     param.Example,
		})
	}

	// A numeric value carried as a string breaks naive decoders that
	// expect a number.
	if param.Type == apidex.TypeString && numberNameRe.MatchString(param.Name) && numericValueRe.MatchString(param.Example) {
		propose(&apidex.Quirk{
			EndpointID:  endpoint.ID,
			Field:       param.Name,
			Category:    apidex.QuirkStringEncodedNumber,
			Severity:    apidex.SeverityWarning,
			Description: fmt.Sprintf("%q carries a numeric value as a string", param.Name),
			Example:     param.Example,
		})
	}

	if param.Type == apidex.TypeInteger && isTimeName(param.Name) && inEpochRange(param.Example) {
		propose(&apidex.Quirk{
			EndpointID:  endpoint.ID,
			Field:       param.Name,
			Category:    apidex.QuirkEpochTimestamp,
			Severity:    apidex.SeverityInfo,
			Description: fmt.Sprintf("%q is a Unix epoch timestamp, not an ISO 8601 string", param.Name),
			Example:     param.Example,
		})
	}

	if param.Type == apidex.TypeString && isNonstandardDate(param.Example) {
		propose(&apidex.Quirk{
			EndpointID:  endpoint.ID,
			Field:       param.Name,
			Category:    apidex.QuirkNonstandardDate,
			Severity:    apidex.SeverityInfo,
			Description: fmt.Sprintf("%q uses a date format that is not RFC 3339", param.Name),
			Example:     param.Example,
		})
	}

	if paginationNames[strings.ToLower(param.Name)] {
		propose(&apidex.Quirk{
			EndpointID:  endpoint.ID,
			Field:       param.Name,
			Category:    apidex.QuirkPagination,
			Severity:    apidex.SeverityInfo,
			Description: fmt.Sprintf("%q indicates cursor-based pagination; page numbers will not work", param.Name),
			Example:     param.Example,
		})
	}
}

// checkCasing flags endpoints that mix snake_case and camelCase
// parameter names. The quirk is recorded against the endpoint rather
// than a single field.
func checkCasing(endpoint *apidex.Endpoint, propose func(*apidex.Quirk)) {
	var snake, camel string
	for _, param := range endpoint.Parameters {
		switch {
		case isSnakeCase(param.Name):
			snake = param.Name
		case isCamelCase(param.Name):
			camel = param.Name
		}
	}
	if snake == "" || camel == "" {
		return
	}

	propose(&apidex.Quirk{
		EndpointID:  endpoint.ID,
		Field:       "",
		Category:    apidex.QuirkInconsistentCasing,
		Severity:    apidex.SeverityInfo,
		Description: fmt.Sprintf("parameters mix snake_case (%q) and camelCase (%q)", snake, camel),
	})
}

func quirkKey(endpointID, field string, category apidex.QuirkCategory) string {
	return endpointID + "\x00" + field + "\x00" + string(category)
}

// isTimeName matches fields like created_at, expiresAt, start_time,
// date. A bare "at" suffix without a boundary is ignored so names like
// "format" do not match.
func isTimeName(name string) bool {
	return timeNameRe.MatchString(name) || atSuffixRe.MatchString(name)
}

func inEpochRange(example string) bool {
	n, err := strconv.ParseInt(example, 10, 64)
	if err != nil {
		return false
	}
	if n >= epochSecMin && n <= epochSecMax {
		return true
	}
	return n >= epochMsMin && n <= epochMsMax
}

func isNonstandardDate(example string) bool {
	if example == "" {
		return false
	}
	if _, err := time.Parse(time.RFC3339, example); err == nil {
		return false
	}
	if _, err := time.Parse("2006-01-02", example); err == nil {
		return false
	}
	for _, re := range dateLikeRes {
		if re.MatchString(example) {
			return true
		}
	}
	return false
}

func isSnakeCase(name string) bool {
	return strings.Contains(name, "_")
}

func isCamelCase(name string) bool {
	if name == "" || strings.Contains(name, "_") {
		return false
	}
	if !unicode.IsLower(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
