package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/originscan/internal/model"
)

type mockAnalyzer struct {
	mu          sync.Mutex
	seen        []string
	shouldError bool
}

func (m *mockAnalyzer) AnalyzeDocument(ctx context.Context, data []byte, filename string) (*model.Report, error) {
	time.Sleep(5 * time.Millisecond)
	m.mu.Lock()
	m.seen = append(m.seen, filename)
	m.mu.Unlock()

	if m.shouldError {
		return nil, &model.ExtractionError{Filename: filename, Err: errors.New("unreadable")}
	}
	return &model.Report{Filename: filename, Summary: model.Summary{OverallScore: len(data)}}, nil
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "a", "b.txt": "bb", "c.txt": "ccc"})

	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, 0)

	paths := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), filepath.Join(dir, "c.txt")}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Fatalf("unexpected error for %s: %v", res.Path, res.Error)
		}
		if res.Path != paths[i] {
			t.Errorf("results out of order: %s at %d", res.Path, i)
		}
		if res.Report.Summary.OverallScore != i+1 {
			t.Errorf("expected the file bytes to reach the analyzer for %s", res.Path)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"big.txt": "0123456789"})

	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2, 5)
	results := processor.ProcessPaths(context.Background(), []string{
		filepath.Join(dir, "big.txt"),
		filepath.Join(dir, "missing.txt"),
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	var extractionErr *model.ExtractionError
	if !errors.As(results[0].Error, &extractionErr) {
		t.Errorf("expected oversized file to fail extraction, got %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Errorf("expected missing file to fail, got %+v", results[1])
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0)
	if results := processor.ProcessPaths(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

type slowAnalyzer struct {
	delay time.Duration
}

func (s *slowAnalyzer) AnalyzeDocument(ctx context.Context, data []byte, filename string) (*model.Report, error) {
	select {
	case <-time.After(s.delay):
		return &model.Report{Filename: filename}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestBatchProcessor_ProcessPaths_TimeoutKeepsEveryPath(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("doc%02d.txt", i)
		writeFiles(t, dir, map[string]string{name: "text"})
		paths = append(paths, filepath.Join(dir, name))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	processor := NewBatchProcessor(&slowAnalyzer{delay: 50 * time.Millisecond}, 1, 0)
	results := processor.ProcessPaths(ctx, paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	failed := 0
	for i, res := range results {
		if res.Path != paths[i] || res.Index != i {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if res.Error != nil {
			failed++
			if !errors.Is(res.Error, context.DeadlineExceeded) {
				t.Errorf("expected deadline error for %s, got %v", res.Path, res.Error)
			}
		}
	}
	if failed == 0 {
		t.Error("expected timed-out documents to be reported as failures")
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "paper1.pdf\n# comment\n/abs/paper2.docx\n   \npaper1.pdf\n  notes.txt  "
	listPath := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{filepath.Join(dir, "paper1.pdf"), "/abs/paper2.docx", filepath.Join(dir, "notes.txt")}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i, p := range paths {
		if p != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, p)
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestCollectDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.PDF":         "x",
		"a.docx":        "x",
		"skip.png":      "x",
		"sub/c.txt":     "x",
		".hidden/d.txt": "x",
	})

	paths, err := CollectDocuments(dir, []string{".pdf", ".docx", ".txt"})
	if err != nil {
		t.Fatalf("CollectDocuments failed: %v", err)
	}

	expected := []string{filepath.Join(dir, "a.docx"), filepath.Join(dir, "b.PDF"), filepath.Join(dir, "sub", "c.txt")}
	if len(paths) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestBatchProcessor_ProcessTarget(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"one.txt": "1", "two.txt": "2"})

	processor := NewBatchProcessor(&mockAnalyzer{}, 2, 0)

	results, err := processor.ProcessTarget(context.Background(), dir, []string{".txt"})
	if err != nil {
		t.Fatalf("ProcessTarget failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	if _, err := processor.ProcessTarget(context.Background(), filepath.Join(dir, "nope"), nil); err == nil {
		t.Error("expected error for missing target")
	}
}

func TestDocumentResult_GetError(t *testing.T) {
	r1 := &DocumentResult{Path: "a.pdf"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &DocumentResult{Path: "a.pdf", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
