package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mstanek/apidex"
)

// Ensure EndpointExtractor implements apidex.EndpointExtractor.
var _ apidex.EndpointExtractor = (*EndpointExtractor)(nil)

// methodPathRe matches "METHOD /path" declarations as they appear in
// reference page headings and code blocks.
var methodPathRe = regexp.MustCompile(`\b(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS)\s+(/[^\s]*)`)

// EndpointExtractor proposes endpoints from API reference HTML. It
// scans headings and code blocks for "METHOD /path" declarations and
// associates parameter tables with the nearest preceding declaration.
type EndpointExtractor struct{}

// NewEndpointExtractor creates a new EndpointExtractor.
func NewEndpointExtractor() *EndpointExtractor {
	return &EndpointExtractor{}
}

// ExtractEndpoints parses reference HTML and returns endpoint
// proposals, deduplicated by (method, path) in document order.
func (e *EndpointExtractor) ExtractEndpoints(html string) ([]apidex.ExtractedEndpoint, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apidex.Errorf(apidex.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var endpoints []apidex.ExtractedEndpoint

	// current tracks the endpoint that subsequent parameter tables
	// belong to.
	current := -1
	var lastHeading string

	doc.Find("h1, h2, h3, h4, pre, code, table").Each(func(_ int, sel *goquery.Selection) {
		node := goquery.NodeName(sel)

		if node == "table" {
			if current >= 0 {
				params := parseParameterTable(sel, endpoints[current].Path)
				endpoints[current].Parameters = append(endpoints[current].Parameters, params...)
			}
			return
		}

		// Skip code nested inside pre; the pre text already covers it.
		if node == "code" && sel.ParentsFiltered("pre").Length() > 0 {
			return
		}

		text := strings.TrimSpace(sel.Text())
		if node != "pre" && node != "code" {
			lastHeading = text
		}

		m := methodPathRe.FindStringSubmatch(text)
		if m == nil {
			return
		}
		method, path := m[1], m[2]

		key := method + " " + path
		if idx, ok := seen[key]; ok {
			current = idx
			return
		}

		summary := ""
		if node == "pre" || node == "code" {
			summary = lastHeading
		} else {
			summary = strings.TrimSpace(strings.Replace(text, m[0], "", 1))
		}
		if methodPathRe.MatchString(summary) {
			summary = ""
		}

		seen[key] = len(endpoints)
		current = len(endpoints)
		endpoints = append(endpoints, apidex.ExtractedEndpoint{
			Method:  method,
			Path:    path,
			Summary: summary,
		})
	})

	return endpoints, nil
}

// parseParameterTable extracts parameters from a table whose header
// row names a parameter column. Tables without a recognizable header
// are ignored.
func parseParameterTable(table *goquery.Selection, endpointPath string) []apidex.ExtractedParameter {
	header := table.Find("tr").First()
	cols := map[string]int{}
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		cols[strings.ToLower(strings.TrimSpace(cell.Text()))] = i
	})

	nameCol, ok := findColumn(cols, "name", "parameter", "field", "param")
	if !ok {
		return nil
	}
	typeCol, hasType := findColumn(cols, "type")
	locCol, hasLoc := findColumn(cols, "in", "location")
	reqCol, hasReq := findColumn(cols, "required")
	exCol, hasEx := findColumn(cols, "example")
	descCol, hasDesc := findColumn(cols, "description", "details")

	var params []apidex.ExtractedParameter
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() <= nameCol {
			return
		}

		cell := func(idx int) string {
			return strings.TrimSpace(cells.Eq(idx).Text())
		}

		name := strings.Trim(cell(nameCol), "`*")
		if name == "" {
			return
		}

		param := apidex.ExtractedParameter{Name: name, Type: apidex.TypeString}
		if hasType {
			param.Type = normalizeType(cell(typeCol))
		}
		if hasLoc {
			param.Location = normalizeLocation(cell(locCol))
		}
		if param.Location == "" {
			param.Location = inferLocation(name, endpointPath)
		}
		if hasReq {
			param.Required = isAffirmative(cell(reqCol))
		}
		if hasEx {
			param.Example = cell(exCol)
		}
		if hasDesc {
			param.Description = cell(descCol)
			if !hasReq && strings.Contains(strings.ToLower(param.Description), "required") {
				param.Required = true
			}
		}

		params = append(params, param)
	})

	return params
}

// findColumn returns the index of the first header cell matching any
// of the given labels.
func findColumn(cols map[string]int, labels ...string) (int, bool) {
	for _, label := range labels {
		if idx, ok := cols[label]; ok {
			return idx, true
		}
	}
	return 0, false
}

// normalizeType maps documented type spellings to catalog types.
func normalizeType(raw string) apidex.ParamType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "integer", "int", "int32", "int64", "long":
		return apidex.TypeInteger
	case "number", "float", "double", "decimal":
		return apidex.TypeNumber
	case "boolean", "bool":
		return apidex.TypeBoolean
	case "array", "list":
		return apidex.TypeArray
	case "object", "dict", "map", "hash":
		return apidex.TypeObject
	default:
		return apidex.TypeString
	}
}

// normalizeLocation maps documented location spellings to catalog
// locations. Unknown spellings return "".
func normalizeLocation(raw string) apidex.ParamLocation {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "path", "url":
		return apidex.InPath
	case "query", "querystring", "query string":
		return apidex.InQuery
	case "header", "headers":
		return apidex.InHeader
	case "body", "form", "formdata", "json":
		return apidex.InBody
	default:
		return ""
	}
}

// inferLocation guesses a parameter location when the table doesn't
// name one: path parameters appear as {name} or :name in the endpoint
// path, everything else defaults to query.
func inferLocation(name, endpointPath string) apidex.ParamLocation {
	if strings.Contains(endpointPath, "{"+name+"}") || strings.Contains(endpointPath, ":"+name) {
		return apidex.InPath
	}
	return apidex.InQuery
}

// isAffirmative reports whether a required-column cell means yes.
func isAffirmative(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "required", "✓", "✔":
		return true
	}
	return false
}
