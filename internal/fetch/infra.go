// Package fetch acquires raw document bytes from whichever source the
// request names: resident upload, remote URL, or a storage object.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	"github.com/dustin/go-humanize"
)

const fetchTimeout = 30 * time.Second

type Service struct {
	client   *http.Client
	maxBytes int64
}

func NewService(maxBytes int64) *Service {
	return &Service{
		client:   &http.Client{Timeout: fetchTimeout},
		maxBytes: maxBytes,
	}
}

func (s *Service) Fetch(ctx context.Context, req *convert.ConversionRequest) (*convert.RawDocument, error) {
	switch {
	case len(req.Upload) > 0:
		if int64(len(req.Upload)) > s.maxBytes {
			return nil, s.tooLarge()
		}
		return &convert.RawDocument{Data: req.Upload, Size: int64(len(req.Upload))}, nil

	case req.URL != "":
		return s.fetchURL(ctx, req.URL)

	case req.Storage != nil:
		return s.fetchStorage(ctx, req.Storage)

	default:
		return nil, convert.Errf(convert.KindBadRequest, "no PDF provided")
	}
}

func (s *Service) fetchURL(ctx context.Context, rawURL string) (*convert.RawDocument, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, convert.Wrapf(convert.KindBadRequest, err, "invalid url")
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, convert.Wrapf(convert.KindFetchFailed, err, "failed to download PDF")
	}
	defer resp.Body.Close()

	return s.readBody(resp)
}

func (s *Service) fetchStorage(ctx context.Context, ref *convert.StorageRef) (*convert.RawDocument, error) {
	if ref.ObjectName == "" {
		name, err := s.resolveObjectName(ctx, ref)
		if err != nil {
			return nil, err
		}
		ref.ObjectName = name
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", ref.Endpoint, ref.Bucket, ref.ObjectName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, convert.Wrapf(convert.KindBadRequest, err, "invalid storage reference")
	}
	httpReq.Header.Set("Authorization", "Bearer "+ref.ServiceKey)
	httpReq.Header.Set("apikey", ref.ServiceKey)
	httpReq.Header.Set("User-Agent", "pdf_ziper/1.0")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, convert.Wrapf(convert.KindFetchFailed, err, "failed to download PDF from storage")
	}
	defer resp.Body.Close()

	return s.readBody(resp)
}

// readBody enforces the byte cap twice: a declared Content-Length over
// the cap skips the transfer entirely, and the stream itself is cut off
// the moment it crosses the cap.
func (s *Service) readBody(resp *http.Response) (*convert.RawDocument, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, convert.Errf(convert.KindFetchFailed, "download failed with status %d", resp.StatusCode)
	}
	if resp.ContentLength > s.maxBytes {
		return nil, s.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, convert.Wrapf(convert.KindFetchFailed, err, "failed to download PDF")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, s.tooLarge()
	}

	return &convert.RawDocument{Data: data, Size: int64(len(data))}, nil
}

func (s *Service) tooLarge() error {
	return convert.Errf(convert.KindSizeExceeded, "file too large, limit is %s", humanize.Bytes(uint64(s.maxBytes)))
}
