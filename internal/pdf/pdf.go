// Package pdf turns rendered certificate HTML into printable PDF bytes.
package pdf

import "context"

// Renderer converts an HTML document into a PDF.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}
