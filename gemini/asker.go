// Package gemini answers natural language questions about cataloged
// APIs using Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/mstanek/apidex"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Asker implements apidex.Asker at compile time.
var _ apidex.Asker = (*Asker)(nil)

// Asker implements apidex.Asker using Google Gemini. Answers are
// grounded in the API's stored doc pages, with recorded quirks
// injected so known formatting traps surface in responses.
type Asker struct {
	client *genai.Client
	pages  apidex.DocPageService
	quirks apidex.QuirkService
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, pages apidex.DocPageService, quirks apidex.QuirkService) *Asker {
	return &Asker{client: client, pages: pages, quirks: quirks}
}

// Ask answers a natural language question about an API's documentation.
func (a *Asker) Ask(ctx context.Context, apiID, question string) (string, error) {
	if apiID == "" {
		return "", apidex.Errorf(apidex.EINVALID, "api ID required")
	}
	if question == "" {
		return "", apidex.Errorf(apidex.EINVALID, "question required")
	}

	pages, err := a.pages.FindDocPages(ctx, apidex.DocPageFilter{APIID: &apiID})
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", apidex.Errorf(apidex.ENOTFOUND, "no documentation stored for api %q", apiID)
	}

	quirks, err := a.quirks.FindQuirks(ctx, apidex.QuirkFilter{APIID: &apiID})
	if err != nil {
		return "", err
	}

	prompt := BuildUserPrompt(pages, quirks, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", apidex.Errorf(apidex.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about third-party API documentation. Answer based only on the documentation and known quirks provided. When a known quirk affects the answer, mention it explicitly. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing documentation,
// recorded quirks, and the question.
func BuildUserPrompt(pages []*apidex.DocPage, quirks []*apidex.Quirk, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, page := range pages {
		title := page.Title
		if title == "" {
			title = page.SourceURL
		}
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<title>%s</title>\n", title)
		fmt.Fprintf(&sb, "<source>%s</source>\n", page.SourceURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", page.Content)
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n")

	if len(quirks) > 0 {
		sb.WriteString("\n<known_quirks>\n")
		for _, q := range quirks {
			sb.WriteString("<quirk>\n")
			fmt.Fprintf(&sb, "<category>%s</category>\n", q.Category)
			fmt.Fprintf(&sb, "<severity>%s</severity>\n", q.Severity)
			if q.Field != "" {
				fmt.Fprintf(&sb, "<field>%s</field>\n", q.Field)
			}
			fmt.Fprintf(&sb, "<description>%s</description>\n", q.Description)
			if q.Example != "" {
				fmt.Fprintf(&sb, "<example>%s</example>\n", q.Example)
			}
			sb.WriteString("</quirk>\n")
		}
		sb.WriteString("</known_quirks>\n")
	}

	fmt.Fprintf(&sb, "\nQuestion: %s", question)
	return sb.String()
}
