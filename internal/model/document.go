package model

import "unicode/utf8"

// Document is an uploaded payload awaiting extraction
type Document struct {
	Filename string
	Data     []byte
}

// DocumentMetadata describes the extracted text layer
type DocumentMetadata struct {
	PageCount      int  `json:"pages"`
	CharacterCount int  `json:"textLength"`
	IsScanned      bool `json:"isScanned"`
}

// ExtractedContent is the plain text of a document plus its metadata.
// Construct it with NewExtractedContent so CharacterCount stays in sync with Text.
type ExtractedContent struct {
	Text     string           `json:"text"`
	Metadata DocumentMetadata `json:"metadata"`
}

// NewExtractedContent builds an ExtractedContent whose character count matches text
func NewExtractedContent(text string, pageCount int, isScanned bool) *ExtractedContent {
	return &ExtractedContent{
		Text: text,
		Metadata: DocumentMetadata{
			PageCount:      pageCount,
			CharacterCount: utf8.RuneCountInString(text),
			IsScanned:      isScanned,
		},
	}
}
