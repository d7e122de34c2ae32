package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// extractDOCX returns the paragraph text of word/document.xml and the page
// count recorded in docProps/app.xml (1 when absent)
func extractDOCX(data []byte) (string, int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open docx zip: %w", err)
	}

	var docFile, appFile *zip.File
	for _, f := range zr.File {
		switch strings.ReplaceAll(f.Name, "\\", "/") {
		case "word/document.xml":
			docFile = f
		case "docProps/app.xml":
			appFile = f
		}
	}
	if docFile == nil {
		return "", 0, errors.New("word/document.xml not found")
	}

	raw, err := readZipFile(docFile)
	if err != nil {
		return "", 0, fmt.Errorf("read document.xml: %w", err)
	}
	text, err := docxText(raw)
	if err != nil {
		return "", 0, err
	}

	pages := 1
	if appFile != nil {
		if appRaw, err := readZipFile(appFile); err == nil {
			if n := docxPageCount(appRaw); n > 0 {
				pages = n
			}
		}
	}
	return text, pages, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// docxText collects w:t character data; paragraphs and breaks become newlines
func docxText(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var b strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString(" ")
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func docxPageCount(raw []byte) int {
	var props struct {
		Pages string `xml:"Pages"`
	}
	if err := xml.Unmarshal(raw, &props); err != nil {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSpace(props.Pages))
	return n
}
