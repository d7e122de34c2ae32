package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// readPDFPages returns the plain text of every page; unreadable pages yield ""
func readPDFPages(data []byte) (pages []string, err error) {
	// the pdf package panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}
	return pages, nil
}
