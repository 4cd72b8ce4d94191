package apidex

import "context"

// Asker provides natural language question answering over an API's
// ingested documentation and recorded quirks.
type Asker interface {
	// Ask answers a question about the given API from its stored doc
	// pages. Recorded quirks are surfaced to the model so known
	// formatting traps appear in answers.
	// Returns ENOTFOUND if no documentation is stored for the API.
	Ask(ctx context.Context, apiID string, question string) (string, error)
}
