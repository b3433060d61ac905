package archive

import (
	"bytes"
	"io"
	"testing"

	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = content
	}
	return out
}

func TestBuild(t *testing.T) {
	svc := NewService()

	t.Run("entries keep original page numbering", func(t *testing.T) {
		pages := []convert.PageImage{
			{Index: 1, Data: []byte("jpeg-one")},
			{Index: 3, Data: []byte("jpeg-three")},
		}

		data, err := svc.Build(pages, "report")
		require.NoError(t, err)

		entries := readEntries(t, data)
		require.Len(t, entries, 2)
		assert.Equal(t, []byte("jpeg-one"), entries["report_001.jpg"])
		assert.Equal(t, []byte("jpeg-three"), entries["report_003.jpg"])
		_, renumbered := entries["report_002.jpg"]
		assert.False(t, renumbered)
	})

	t.Run("entry order follows page order", func(t *testing.T) {
		pages := []convert.PageImage{
			{Index: 1, Data: []byte("a")},
			{Index: 2, Data: []byte("b")},
			{Index: 12, Data: []byte("c")},
		}

		data, err := svc.Build(pages, "doc")
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		require.Len(t, zr.File, 3)
		assert.Equal(t, "doc_001.jpg", zr.File[0].Name)
		assert.Equal(t, "doc_002.jpg", zr.File[1].Name)
		assert.Equal(t, "doc_012.jpg", zr.File[2].Name)
	})

	t.Run("entries are deflate compressed", func(t *testing.T) {
		data, err := svc.Build([]convert.PageImage{{Index: 1, Data: bytes.Repeat([]byte("x"), 1024)}}, "doc")
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, uint16(zip.Deflate), zr.File[0].Method)
	})

	t.Run("same pages give identical archives", func(t *testing.T) {
		pages := []convert.PageImage{
			{Index: 1, Data: []byte("stable")},
			{Index: 2, Data: []byte("naming")},
		}

		first, err := svc.Build(pages, "doc")
		require.NoError(t, err)
		second, err := svc.Build(pages, "doc")
		require.NoError(t, err)

		a := readEntries(t, first)
		b := readEntries(t, second)
		assert.Equal(t, a, b)
	})
}
