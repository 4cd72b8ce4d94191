// Package codegen renders runnable Go example clients for cataloged
// endpoints. Generation is deterministic template expansion from the
// stored catalog; no model calls.
package codegen

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/mstanek/apidex"
)

// Generator renders example client code for an endpoint.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator creates a Generator with the built-in Go template.
func NewGenerator() *Generator {
	return &Generator{
		tmpl: template.Must(template.New("client").Parse(clientTemplate)),
	}
}

// templateData is the input to the client template, precomputed so the
// template itself stays declarative.
type templateData struct {
	APIName     string
	Method      string
	Path        string
	Summary     string
	QuirkLines  []string
	PathVars    []pathVar
	URLExpr     string
	QueryParams []queryParam
	BodyLines   []string
	HasBody     bool
	AuthType    string
	EnvPrefix   string
}

type pathVar struct {
	Name  string
	Value string
}

type queryParam struct {
	Name  string
	Value string
}

// Generate renders an example Go client for the endpoint. Quirks
// touching the endpoint (recorded against it, or API-level quirks on
// one of its parameter names) are listed in a leading comment block.
func (g *Generator) Generate(api *apidex.API, endpoint *apidex.Endpoint, quirks []*apidex.Quirk) (string, error) {
	if api == nil {
		return "", apidex.Errorf(apidex.EINVALID, "api required")
	}
	if endpoint == nil {
		return "", apidex.Errorf(apidex.EINVALID, "endpoint required")
	}

	data := templateData{
		APIName:   api.Name,
		Method:    endpoint.Method,
		Path:      endpoint.Path,
		Summary:   endpoint.Summary,
		AuthType:  string(api.AuthType),
		EnvPrefix: envPrefix(api.Name),
	}

	baseURL := strings.TrimSuffix(api.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.example.com"
	}

	data.QuirkLines = quirkLines(endpoint, quirks)
	data.PathVars, data.URLExpr = buildURLExpr(baseURL, endpoint)

	for _, param := range endpoint.Parameters {
		switch param.Location {
		case apidex.InQuery:
			data.QueryParams = append(data.QueryParams, queryParam{
				Name:  param.Name,
				Value: exampleOr(param.Example, "..."),
			})
		case apidex.InBody:
			data.BodyLines = append(data.BodyLines, bodyLine(param))
		}
	}
	data.HasBody = len(data.BodyLines) > 0

	var sb strings.Builder
	if err := g.tmpl.Execute(&sb, data); err != nil {
		return "", apidex.Errorf(apidex.EINTERNAL, "render client template: %v", err)
	}
	return sb.String(), nil
}

// quirkLines selects the quirks relevant to the endpoint: those
// recorded against it directly, plus API-level quirks whose field
// matches one of the endpoint's parameters.
func quirkLines(endpoint *apidex.Endpoint, quirks []*apidex.Quirk) []string {
	paramNames := make(map[string]bool, len(endpoint.Parameters))
	for _, p := range endpoint.Parameters {
		paramNames[p.Name] = true
	}

	var lines []string
	for _, q := range quirks {
		if q.EndpointID != "" && q.EndpointID != endpoint.ID {
			continue
		}
		if q.EndpointID == "" && q.Field != "" && !paramNames[q.Field] {
			continue
		}
		line := fmt.Sprintf("[%s] %s", q.Severity, q.Description)
		if q.Field != "" {
			line = fmt.Sprintf("[%s] %s: %s", q.Severity, q.Field, q.Description)
		}
		lines = append(lines, line)
	}
	return lines
}

// buildURLExpr turns /v1/users/{id} into a Go expression that
// substitutes path parameters, declaring one variable per parameter.
func buildURLExpr(baseURL string, endpoint *apidex.Endpoint) ([]pathVar, string) {
	examples := make(map[string]string, len(endpoint.Parameters))
	for _, p := range endpoint.Parameters {
		if p.Location == apidex.InPath {
			examples[p.Name] = p.Example
		}
	}

	var vars []pathVar
	var parts []string
	literal := strings.Builder{}

	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, strconv.Quote(literal.String()))
			literal.Reset()
		}
	}

	segments := strings.Split(endpoint.Path, "/")
	for i, seg := range segments {
		if i > 0 {
			literal.WriteString("/")
		}
		name := pathParamName(seg)
		if name == "" {
			literal.WriteString(seg)
			continue
		}
		flush()
		goName := goIdentifier(name)
		vars = append(vars, pathVar{
			Name:  goName,
			Value: exampleOr(examples[name], "..."),
		})
		parts = append(parts, "url.PathEscape("+goName+")")
	}
	flush()

	expr := strconv.Quote(baseURL)
	if len(parts) > 0 {
		expr += " + " + strings.Join(parts, " + ")
	}
	return vars, expr
}

// bodyLine renders one key of the JSON body map, using the documented
// example with a type-appropriate literal.
func bodyLine(param *apidex.Parameter) string {
	value := strconv.Quote(exampleOr(param.Example, "..."))
	switch param.Type {
	case apidex.TypeInteger:
		if _, err := strconv.ParseInt(param.Example, 10, 64); err == nil {
			value = param.Example
		}
	case apidex.TypeNumber:
		if _, err := strconv.ParseFloat(param.Example, 64); err == nil {
			value = param.Example
		}
	case apidex.TypeBoolean:
		if param.Example == "true" || param.Example == "false" {
			value = param.Example
		}
	}
	return fmt.Sprintf("%q: %s,", param.Name, value)
}

func pathParamName(segment string) string {
	if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") && len(segment) > 2 {
		return segment[1 : len(segment)-1]
	}
	if strings.HasPrefix(segment, ":") && len(segment) > 1 {
		return segment[1:]
	}
	return ""
}

// goIdentifier converts snake_case parameter names to camelCase Go
// variable names.
func goIdentifier(name string) string {
	parts := strings.Split(name, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	id := strings.Join(parts, "")
	if id == "" {
		return "param"
	}
	return id
}

// envPrefix derives an environment variable prefix from the API name,
// e.g. "open-meteo" becomes "OPEN_METEO".
func envPrefix(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "API"
	}
	return sb.String()
}

func exampleOr(example, fallback string) string {
	if example == "" {
		return fallback
	}
	return example
}

const clientTemplate = `// Example client for {{.APIName}}: {{.Method}} {{.Path}}
{{- if .Summary}}
// {{.Summary}}
{{- end}}
{{- if .QuirkLines}}
//
// Known quirks:
{{- range .QuirkLines}}
//   - {{.}}
{{- end}}
{{- end}}
package main

import (
{{- if .HasBody}}
	"bytes"
	"encoding/json"
{{- end}}
	"fmt"
	"net/http"
{{- if or .PathVars .QueryParams}}
	"net/url"
{{- end}}
	"os"
)

func main() {
{{- range .PathVars}}
	{{.Name}} := {{printf "%q" .Value}}
{{- end}}
	u := {{.URLExpr}}
{{- if .QueryParams}}

	q := url.Values{}
{{- range .QueryParams}}
	q.Set({{printf "%q" .Name}}, {{printf "%q" .Value}})
{{- end}}
	u += "?" + q.Encode()
{{- end}}
{{- if .HasBody}}

	body := map[string]any{
{{- range .BodyLines}}
		{{.}}
{{- end}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req, err := http.NewRequest({{printf "%q" .Method}}, u, bytes.NewReader(payload))
{{- else}}

	req, err := http.NewRequest({{printf "%q" .Method}}, u, nil)
{{- end}}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
{{- if .HasBody}}
	req.Header.Set("Content-Type", "application/json")
{{- end}}
{{- if or (eq .AuthType "bearer") (eq .AuthType "oauth2")}}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("{{.EnvPrefix}}_TOKEN"))
{{- else if eq .AuthType "api_key"}}
	req.Header.Set("X-API-Key", os.Getenv("{{.EnvPrefix}}_API_KEY"))
{{- else if eq .AuthType "basic"}}
	req.SetBasicAuth(os.Getenv("{{.EnvPrefix}}_USER"), os.Getenv("{{.EnvPrefix}}_PASSWORD"))
{{- end}}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Println(resp.Status)
}
`
