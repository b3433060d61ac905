package convert

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Service drives one conversion request through
// Fetching → Validating → Rendering → Archiving.
type Service struct {
	fetcher   SourceFetcher
	validator Validator
	renderer  Renderer
	archiver  Archiver
	store     ArchiveStore // nil when no copy store is configured
	log       *logger.ZapLogger
	timeout   time.Duration
}

func NewService(
	fetcher SourceFetcher,
	validator Validator,
	renderer Renderer,
	archiver Archiver,
	store ArchiveStore,
	log *logger.ZapLogger,
	timeout time.Duration,
) *Service {
	return &Service{
		fetcher:   fetcher,
		validator: validator,
		renderer:  renderer,
		archiver:  archiver,
		store:     store,
		log:       log,
		timeout:   timeout,
	}
}

// scope collects per-request releases and runs them exactly once.
type scope struct {
	once     sync.Once
	releases []func()
}

func (s *scope) add(f func()) { s.releases = append(s.releases, f) }

func (s *scope) release() {
	s.once.Do(func() {
		for i := len(s.releases) - 1; i >= 0; i-- {
			s.releases[i]()
		}
	})
}

// Convert runs the full pipeline. The correlation id is assigned here and
// written back into req; every log line below carries it.
func (s *Service) Convert(ctx context.Context, req *ConversionRequest) (*Archive, error) {
	req.CorrelationID = uuid.New().String()
	cid := req.CorrelationID

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sc := &scope{}
	defer sc.release()

	if err := checkSource(req); err != nil {
		s.logErr(cid, "source selection rejected", err)
		return nil, err
	}

	doc, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.logErr(cid, "fetch failed", err)
		return nil, err
	}
	sc.add(func() { doc.Data = nil })
	s.logInfo(cid, fmt.Sprintf("fetched document, size=%s", humanize.Bytes(uint64(doc.Size))))

	pageCount, err := s.validator.Validate(ctx, doc)
	if err != nil {
		s.logErr(cid, "validation failed", err)
		return nil, err
	}
	s.logInfo(cid, fmt.Sprintf("document valid, pages=%d", pageCount))

	result, err := s.renderer.RenderPages(ctx, doc, pageCount, cid)
	if err != nil {
		s.logErr(cid, "rendering failed", err)
		return nil, err
	}
	result.InputBytes = doc.Size
	s.logInfo(cid, fmt.Sprintf("rendered %d/%d pages, output=%s",
		result.PagesRendered, result.PagesAttempted, humanize.Bytes(uint64(result.OutputBytes))))

	base := BaseName(sourceName(req))
	data, err := s.archiver.Build(result.Pages, base)
	if err != nil {
		s.logErr(cid, "archive failed", err)
		return nil, err
	}
	s.logInfo(cid, fmt.Sprintf("archive ready, size=%s", humanize.Bytes(uint64(len(data)))))

	if s.store != nil {
		s.storeCopy(base, cid, data)
	}

	return &Archive{Data: data, BaseName: base}, nil
}

// storeCopy ships the finished zip to the configured store without ever
// affecting the response.
func (s *Service) storeCopy(base, cid string, data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		key := fmt.Sprintf("archives/%s_%s.zip", base, cid)
		if _, err := s.store.PutObject(ctx, key, bytes.NewReader(buf), int64(len(buf)), "application/zip"); err != nil {
			s.logErr(cid, "archive copy upload failed", err)
		}
	}()
}

func checkSource(req *ConversionRequest) error {
	n := 0
	if len(req.Upload) > 0 {
		n++
	}
	if req.URL != "" {
		n++
	}
	if req.Storage != nil {
		n++
	}
	switch n {
	case 0:
		return Errf(KindBadRequest, "no PDF provided")
	case 1:
		return nil
	default:
		return Errf(KindBadRequest, "more than one PDF source provided")
	}
}

// sourceName picks the identifier the archive base name derives from.
// Resolution happens after fetch so a storage file_id has already been
// replaced by the real object name.
func sourceName(req *ConversionRequest) string {
	switch {
	case len(req.Upload) > 0:
		return req.UploadFilename
	case req.URL != "":
		u, err := url.Parse(req.URL)
		if err != nil {
			return ""
		}
		return path.Base(u.Path)
	case req.Storage != nil:
		return path.Base(req.Storage.ObjectName)
	default:
		return ""
	}
}

// BaseName sanitizes a source identifier into the archive entry stem:
// extension stripped, anything outside [A-Za-z0-9_-] dropped, at most 20
// characters, falling back to "page".
func BaseName(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > 20 {
		out = out[:20]
	}
	if out == "" {
		return "page"
	}
	return out
}

func (s *Service) logInfo(cid, msg string) {
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[convert] " + msg + " cid=" + cid,
		Service: "pdf_ziper",
	})
}

func (s *Service) logErr(cid string, msg string, err error) {
	s.log.Log(logger.LogEntry{
		Level:   "error",
		Message: "[convert] " + msg + " cid=" + cid,
		Service: "pdf_ziper",
		Error:   err,
	})
}
