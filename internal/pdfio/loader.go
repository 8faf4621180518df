// Package pdfio reads PDF files from disk and extracts per-page text.
package pdfio

import (
	"fmt"

	"paperinsight/internal/util"

	"github.com/ledongthuc/pdf"
)

type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// LoadPages extracts text for every page of the PDF at path, in page order.
// Pages with no extractable text are skipped; if no page yields text the
// load fails with util.ErrNoExtractableText.
func LoadPages(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", util.ErrLoad, path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	for num := 1; num <= total; num++ {
		page := r.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extract page %d: %v", util.ErrLoad, num, err)
		}
		text = util.SanitizeText(text)
		if text == "" {
			continue
		}
		pages = append(pages, Page{Number: num, Text: text})
	}
	if len(pages) == 0 {
		return nil, util.ErrNoExtractableText
	}
	return pages, nil
}
