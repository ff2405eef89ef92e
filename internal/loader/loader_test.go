package loader_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"mcq-generator/internal/domain"
	"mcq-generator/internal/loader"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	args := m.Called(ctx, data)
	if pages := args.Get(0); pages != nil {
		return pages.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// failingReader fails the test if the loader reads from it.
type failingReader struct {
	t *testing.T
}

func (r failingReader) Read(p []byte) (int, error) {
	r.t.Errorf("reader must not be touched for unsupported files")
	return 0, errors.New("unexpected read")
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	extractor := new(MockExtractor)
	l := loader.NewDocumentLoader(extractor, nil)

	for _, name := range []string{"notes.docx", "slides.pptx", "archive.pdf.zip", "README", "image.png", "txt"} {
		_, err := l.Load(context.Background(), name, failingReader{t: t})
		require.Error(t, err, name)
		assert.True(t, domain.HasCode(err, domain.CodeUnsupportedFormat), name)
		assert.False(t, loader.IsSupported(name), name)
	}
	extractor.AssertNotCalled(t, "ExtractPages", mock.Anything, mock.Anything)
}

func TestLoad_Text(t *testing.T) {
	l := loader.NewDocumentLoader(nil, nil)

	content := "Photosynthesis happens in chloroplasts.\nÉnergie lumineuse → chimique."
	doc, err := l.Load(context.Background(), "notes.txt", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, content, doc.Text)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.LessOrEqual(t, len([]rune(doc.Text)), len(content))

	assert.True(t, loader.IsSupported("UPPER.TXT"))
	assert.True(t, loader.IsSupported("deck.Pdf"))
	doc, err = l.Load(context.Background(), "UPPER.TXT", strings.NewReader("ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Text)
}

func TestLoad_TextMalformedUTF8(t *testing.T) {
	l := loader.NewDocumentLoader(nil, nil)

	_, err := l.Load(context.Background(), "bad.txt", bytes.NewReader([]byte{'o', 'k', 0xff, 0xfe}))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeReadError))
}

func TestLoad_ReadFailure(t *testing.T) {
	l := loader.NewDocumentLoader(nil, nil)

	_, err := l.Load(context.Background(), "notes.txt", errReader{})
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeReadError))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestLoad_PDFConcatenatesPages(t *testing.T) {
	extractor := new(MockExtractor)
	extractor.On("ExtractPages", mock.Anything, []byte("%PDF-fake")).
		Return([]string{"Page one. ", "Page two."}, nil).Once()
	l := loader.NewDocumentLoader(extractor, nil)

	doc, err := l.Load(context.Background(), "lecture.pdf", strings.NewReader("%PDF-fake"))
	require.NoError(t, err)
	assert.Equal(t, "Page one. Page two.", doc.Text)
	extractor.AssertExpectations(t)
}

func TestLoad_PDFExtractorError(t *testing.T) {
	cause := errors.New("xref table broken")
	extractor := new(MockExtractor)
	extractor.On("ExtractPages", mock.Anything, mock.Anything).Return(nil, cause).Once()
	l := loader.NewDocumentLoader(extractor, nil)

	_, err := l.Load(context.Background(), "lecture.pdf", strings.NewReader("junk"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeReadError))
	assert.ErrorIs(t, err, cause)
}

func TestPDFExtractor_CorruptInput(t *testing.T) {
	l := loader.NewDocumentLoader(nil, nil)

	_, err := l.Load(context.Background(), "corrupt.pdf", strings.NewReader("this is not a pdf document"))
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.CodeReadError))
}

func TestPDFExtractor_RealDocument(t *testing.T) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(40, 10, "Photosynthesis")
	doc.AddPage()
	doc.Cell(40, 10, "Chlorophyll")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	pages, err := loader.PDFExtractor{}.ExtractPages(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "Photosynthesis")
	assert.Contains(t, pages[1], "Chlorophyll")
}
