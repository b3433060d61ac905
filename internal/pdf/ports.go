package pdf

import "image"

// Inspector answers structural questions about a document without
// rendering anything.
type Inspector interface {
	PageCount(data []byte) (int, error)
}

// Rasterizer opens a document for page rendering.
type Rasterizer interface {
	Open(data []byte) (Document, error)
}

// Document renders individual pages. Implementations are not safe for
// concurrent use; one request owns one Document.
type Document interface {
	PageCount() int
	// RenderPage renders the 0-based page at the given DPI.
	RenderPage(page int, dpi float64) (image.Image, error)
	Close() error
}
