package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/pdf_ziper/internal/convert"
)

// Service renders every page of a validated document to JPEG. A page
// that fails to render is logged and skipped; the request only fails
// when not a single page survives.
type Service struct {
	ras     Rasterizer
	dpi     float64
	quality int
	log     *logger.ZapLogger
}

func NewService(ras Rasterizer, dpi float64, quality int, log *logger.ZapLogger) *Service {
	return &Service{ras: ras, dpi: dpi, quality: quality, log: log}
}

func (s *Service) RenderPages(ctx context.Context, doc *convert.RawDocument, pageCount int, correlationID string) (*convert.ConversionResult, error) {
	d, err := s.ras.Open(doc.Data)
	if err != nil {
		return nil, convert.Wrapf(convert.KindNoPagesRendered, err, "no pages could be rendered")
	}
	defer d.Close()

	result := &convert.ConversionResult{PagesAttempted: pageCount}

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, convert.Wrapf(convert.KindInternal, err, "conversion cancelled")
		}

		data, err := s.renderOne(d, i)
		if err != nil {
			s.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: fmt.Sprintf("[render] page %d skipped cid=%s", i, correlationID),
				Service: "pdf_ziper",
				Error:   err,
			})
			continue
		}

		result.Pages = append(result.Pages, convert.PageImage{Index: i, Data: data})
		result.PagesRendered++
		result.OutputBytes += int64(len(data))
	}

	if result.PagesRendered == 0 {
		return nil, convert.Errf(convert.KindNoPagesRendered, "no pages could be rendered")
	}
	return result, nil
}

func (s *Service) renderOne(d Document, page int) ([]byte, error) {
	img, err := d.RenderPage(page-1, s.dpi)
	if err != nil {
		return nil, err
	}

	// MuPDF hands back RGBA; anything else is drawn into an RGBA buffer
	// before encoding.
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}
