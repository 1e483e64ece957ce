// Package extract turns fetched agenda bytes into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts text from at most maxPages pages of a PDF. maxPages <= 0
// means all pages. The output may contain structural artifacts such as runs of
// blank lines; callers are expected to normalize further.
func PDFText(data []byte, maxPages int) (text string, err error) {
	// The reader panics on some malformed or encrypted files; convert that to
	// an error so extraction failures degrade like fetch failures.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, perr := page.GetPlainText(nil)
		if perr != nil {
			// Skip unreadable pages rather than losing the whole packet.
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
