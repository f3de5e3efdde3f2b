package ingest

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/FaqSearch/internal/domain/ragError"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

const pageExtractTimeout = 10 * time.Second

// extractText pulls the plain text out of a source document. PDFs are
// read page by page; .txt/.docx/.rtf/.odt go through cat. The result is
// trimmed; callers treat an empty string as "nothing to index".
func extractText(path string) (string, error) {
	const op = "ingest.extractText"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".txt", ".docx", ".rtf", ".odt":
		text, err := cat.File(path)
		if err != nil {
			return "", ragError.Newf(ragError.KindExtraction, op, "failed to read %s: %v", path, err)
		}
		return strings.TrimSpace(text), nil
	default:
		return "", ragError.Newf(ragError.KindExtraction, op, "unsupported document type: %s", path)
	}
}

func extractPDF(path string) (string, error) {
	const op = "ingest.extractPDF"

	f, err := pdf.Open(path)
	if err != nil {
		return "", ragError.Newf(ragError.KindExtraction, op, "failed to open pdf %s: %v", path, err)
	}

	var pages []string
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			//one bad page should not sink the document
			continue
		}
		pages = append(pages, content)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

// protectExtract guards a single page extraction with a timeout, a
// pathological page must not hang the whole run.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(pageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
