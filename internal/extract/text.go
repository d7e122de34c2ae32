package extract

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// extractText decodes a plain-text payload; form feeds separate pages
func extractText(data []byte) (string, int) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("\uFFFD"))
	}

	text := string(data)
	pages := 1 + strings.Count(text, "\f")
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text), pages
}
