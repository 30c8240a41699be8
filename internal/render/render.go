// Package render turns composed sections into downloadable bytes.
package render

import (
	"errors"
	"io"
	"strings"

	"jobpack/internal/document"
)

type Renderer interface {
	ContentType() string
	Extension() string
	Render(w io.Writer, sections []document.Section, layout document.Layout) error
}

var ErrUnknownOutput = errors.New("unknown output type")

// ByName resolves an output type; empty selects PDF.
func ByName(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "pdf":
		return PDF{}, nil
	case "xlsx":
		return Workbook{}, nil
	}
	return nil, ErrUnknownOutput
}
