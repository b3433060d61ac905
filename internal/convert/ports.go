package convert

import (
	"context"
	"io"
)

// StorageRef points at an object in a Supabase-style storage backend.
// Either ObjectName or FileID must be set; FileID is resolved to a name
// through the storage list endpoint before download.
type StorageRef struct {
	Endpoint   string
	ServiceKey string
	Bucket     string
	ObjectName string
	FileID     string
}

// ConversionRequest carries exactly one acquisition method. Upload takes
// priority only in the sense that handlers populate one field; the
// orchestrator rejects requests with zero or several methods set.
type ConversionRequest struct {
	Upload         []byte
	UploadFilename string

	URL string

	Storage *StorageRef

	// CorrelationID is assigned by the orchestrator at entry and is used
	// only for log association.
	CorrelationID string
}

// RawDocument is owned by the request that fetched it and is never kept
// past the request's lifetime.
type RawDocument struct {
	Data []byte
	Size int64
}

// PageImage is one successfully rendered page. Index is the original
// 1-based page number and drives archive entry naming.
type PageImage struct {
	Index int
	Data  []byte
}

// ConversionResult holds the surviving pages in ascending original order
// plus the counters reported in logs.
type ConversionResult struct {
	Pages          []PageImage
	PagesAttempted int
	PagesRendered  int
	InputBytes     int64
	OutputBytes    int64
}

// Archive is the finished zip plus the naming pieces the handler needs
// for the Content-Disposition header.
type Archive struct {
	Data     []byte
	BaseName string
}

type SourceFetcher interface {
	Fetch(ctx context.Context, req *ConversionRequest) (*RawDocument, error)
}

type Validator interface {
	Validate(ctx context.Context, doc *RawDocument) (pageCount int, err error)
}

type Renderer interface {
	RenderPages(ctx context.Context, doc *RawDocument, pageCount int, correlationID string) (*ConversionResult, error)
}

type Archiver interface {
	Build(pages []PageImage, baseName string) ([]byte, error)
}

// ArchiveStore keeps a best-effort copy of produced archives.
type ArchiveStore interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}
