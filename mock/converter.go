package mock

import "github.com/mstanek/apidex"

var _ apidex.Converter = (*Converter)(nil)

// Converter is a mock implementation of apidex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
