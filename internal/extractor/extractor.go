package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ErrUnsupportedFormat is returned for any extension other than .pdf or .txt,
// before the file content is touched.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError wraps the underlying cause of a failed extraction attempt
// (corrupt PDF, I/O failure). It is fatal for the ingestion attempt and is
// not retried.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract reads the file at path and returns its raw text. PDF pages are
// concatenated in page order, each prefixed with a page marker so chunking
// can recover page numbers from position. Plain text is read as UTF-8 with a
// one-shot Latin-1 fallback on invalid input.
func Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return extractPDF(path)
	case ".txt":
		return extractText(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}

	text, err := readPages(path, reader.NumPage(), func(i int) (string, error) {
		page := reader.Page(i)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	return text, nil
}

// readPages concatenates page text in order, each non-empty page prefixed
// with its page marker. A page that errors contributes nothing, but a
// document where every page with content errors fails extraction instead of
// ingesting as empty.
func readPages(path string, numPages int, pageText func(int) (string, error)) (string, error) {
	var text strings.Builder
	var pageErrs int
	var lastErr error
	for i := 1; i <= numPages; i++ {
		pageContent, err := pageText(i)
		if err != nil {
			pageErrs++
			lastErr = err
			log.Debug().Err(err).Int("page", i).Str("file", path).Msg("skipping unreadable page")
			continue
		}
		if pageContent == "" {
			continue
		}
		fmt.Fprintf(&text, "\n--- Page %d ---\n%s", i, pageContent)
	}
	if text.Len() == 0 && pageErrs > 0 {
		return "", fmt.Errorf("no readable pages, %d of %d failed: %w", pageErrs, numPages, lastErr)
	}
	return text.String(), nil
}

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Err: err}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Latin-1 fallback: every byte maps to the code point of the same value.
	// Some characters may come out wrong, which beats rejecting the file.
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes), nil
}
