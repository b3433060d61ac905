// Package archive packages rendered pages into a single deflate zip.
package archive

import (
	"bytes"
	"fmt"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	"github.com/klauspost/compress/zip"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Build writes one entry per page, named <base>_<NNN>.jpg where NNN is
// the page's original 1-based index. Indices of pages that failed to
// render are simply absent; survivors keep their numbers.
func (s *Service) Build(pages []convert.PageImage, baseName string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range pages {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   fmt.Sprintf("%s_%03d.jpg", baseName, p.Index),
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, convert.Wrapf(convert.KindArchiveFailed, err, "failed to create ZIP")
		}
		if _, err := w.Write(p.Data); err != nil {
			return nil, convert.Wrapf(convert.KindArchiveFailed, err, "failed to create ZIP")
		}
	}

	if err := zw.Close(); err != nil {
		return nil, convert.Wrapf(convert.KindArchiveFailed, err, "failed to create ZIP")
	}
	return buf.Bytes(), nil
}
