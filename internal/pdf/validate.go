package pdf

import (
	"bytes"
	"context"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
)

var pdfMagic = []byte("%PDF-")

// Validator runs the cheap checks that must all pass before any page is
// rendered: magic prefix, structural parse, page-count bounds.
type Validator struct {
	insp     Inspector
	maxPages int
}

func NewValidator(insp Inspector, maxPages int) *Validator {
	return &Validator{insp: insp, maxPages: maxPages}
}

func (v *Validator) Validate(_ context.Context, doc *convert.RawDocument) (int, error) {
	if !bytes.HasPrefix(doc.Data, pdfMagic) {
		return 0, convert.Errf(convert.KindInvalidDocument, "file is not a PDF")
	}

	n, err := v.insp.PageCount(doc.Data)
	if err != nil {
		return 0, convert.Wrapf(convert.KindInvalidDocument, err, "PDF could not be parsed")
	}
	if n < 1 {
		return 0, convert.Errf(convert.KindInvalidDocument, "PDF has no pages")
	}
	if n > v.maxPages {
		return 0, convert.Errf(convert.KindInvalidDocument, "PDF has %d pages, limit is %d", n, v.maxPages)
	}
	return n, nil
}
