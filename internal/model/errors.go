package model

import "fmt"

// ExtractionError reports a payload that could not be parsed into text.
// It aborts the analysis.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ScannedDocumentError reports a document without an extractable text layer.
// It aborts the analysis before segmentation.
type ScannedDocumentError struct {
	Filename  string
	PageCount int
}

func (e *ScannedDocumentError) Error() string {
	return fmt.Sprintf("%s: scanned document (%d pages) has no extractable text layer", e.Filename, e.PageCount)
}

// InsufficientContentError is a soft warning: the analysis continues regardless
type InsufficientContentError struct {
	Reason         string
	CharacterCount int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content: %s (%d characters)", e.Reason, e.CharacterCount)
}

// SimilarityBackendError wraps a failure of an embedding or search backend.
// The scorer recovers from it by switching to the fallback heuristic.
type SimilarityBackendError struct {
	Backend string
	Err     error
}

func (e *SimilarityBackendError) Error() string {
	return fmt.Sprintf("similarity backend %s: %v", e.Backend, e.Err)
}

func (e *SimilarityBackendError) Unwrap() error {
	return e.Err
}
