package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInspector struct {
	pages int
	err   error
}

func (s *stubInspector) PageCount(_ []byte) (int, error) { return s.pages, s.err }

func rawPDF() *convert.RawDocument {
	data := []byte("%PDF-1.7 stub")
	return &convert.RawDocument{Data: data, Size: int64(len(data))}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a document within limits", func(t *testing.T) {
		v := NewValidator(&stubInspector{pages: 3}, 100)
		n, err := v.Validate(ctx, rawPDF())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("rejects bytes without the PDF magic", func(t *testing.T) {
		v := NewValidator(&stubInspector{pages: 3}, 100)
		_, err := v.Validate(ctx, &convert.RawDocument{Data: []byte("GIF89a...")})
		assert.Equal(t, convert.KindInvalidDocument, convert.KindOf(err))
	})

	t.Run("rejects a document that fails to parse", func(t *testing.T) {
		v := NewValidator(&stubInspector{err: errors.New("pdfcpu: xref broken")}, 100)
		_, err := v.Validate(ctx, rawPDF())
		assert.Equal(t, convert.KindInvalidDocument, convert.KindOf(err))
	})

	t.Run("rejects a document with no pages", func(t *testing.T) {
		v := NewValidator(&stubInspector{pages: 0}, 100)
		_, err := v.Validate(ctx, rawPDF())
		assert.Equal(t, convert.KindInvalidDocument, convert.KindOf(err))
	})

	t.Run("accepts exactly the page cap", func(t *testing.T) {
		v := NewValidator(&stubInspector{pages: 100}, 100)
		n, err := v.Validate(ctx, rawPDF())
		require.NoError(t, err)
		assert.Equal(t, 100, n)
	})

	t.Run("rejects one page over the cap", func(t *testing.T) {
		v := NewValidator(&stubInspector{pages: 101}, 100)
		_, err := v.Validate(ctx, rawPDF())
		assert.Equal(t, convert.KindInvalidDocument, convert.KindOf(err))
	})
}
