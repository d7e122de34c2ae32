package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/originscan/internal/model"
)

// Analyzer scores one document
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, data []byte, filename string) (*model.Report, error)
}

// DocumentJob analyzes a single file from disk
type DocumentJob struct {
	Index    int
	Path     string
	MaxBytes int64
	Analyzer Analyzer
}

// Execute reads the file and runs the analyzer
func (j *DocumentJob) Execute(ctx context.Context) Result {
	start := time.Now()
	result := &DocumentResult{Index: j.Index, Path: j.Path}

	data, err := readBounded(j.Path, j.MaxBytes)
	if err != nil {
		result.Error = err
		return result
	}
	result.Bytes = int64(len(data))

	report, err := j.Analyzer.AnalyzeDocument(ctx, data, filepath.Base(j.Path))
	result.Report = report
	result.Error = err
	result.Duration = time.Since(start)
	return result
}

// DocumentResult is the outcome of one DocumentJob
type DocumentResult struct {
	Index    int
	Path     string
	Bytes    int64
	Report   *model.Report
	Duration time.Duration
	Error    error
}

// GetError returns the error from the analysis
func (r *DocumentResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes many documents concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	maxBytes    int64
}

// NewBatchProcessor creates a new batch processor; maxBytes <= 0 means unbounded reads
func NewBatchProcessor(analyzer Analyzer, concurrency int, maxBytes int64) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		maxBytes:    maxBytes,
	}
}

// ProcessPaths analyzes every path and returns one result per path in input order
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*DocumentResult {
	if len(paths) == 0 {
		return []*DocumentResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		pool.Submit(&DocumentJob{
			Index:    i,
			Path:     path,
			MaxBytes: b.maxBytes,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	docResults := make([]*DocumentResult, 0, len(paths))
	done := make(map[int]bool, len(results))
	for _, result := range results {
		doc := result.(*DocumentResult)
		done[doc.Index] = true
		docResults = append(docResults, doc)
	}

	// Jobs dropped by a cancelled pool still get a result
	for i, path := range paths {
		if done[i] {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		docResults = append(docResults, &DocumentResult{
			Index: i,
			Path:  path,
			Error: fmt.Errorf("not analyzed: %w", err),
		})
	}
	sort.Slice(docResults, func(i, j int) bool {
		return docResults[i].Index < docResults[j].Index
	})
	return docResults
}

// ProcessTarget resolves target (a list file or a directory) and analyzes the documents it names
func (b *BatchProcessor) ProcessTarget(ctx context.Context, target string, extensions []string) ([]*DocumentResult, error) {
	paths, err := ResolveTarget(target, extensions)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ResolveTarget returns the documents named by a list file, or found under a directory
func ResolveTarget(target string, extensions []string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return CollectDocuments(target, extensions)
	}
	return ReadPathsFromFile(target)
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Relative paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}

// CollectDocuments walks dir and returns files with one of the given extensions, sorted
func CollectDocuments(dir string, extensions []string) ([]string, error) {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if allowed[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func readBounded(path string, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() > maxBytes {
			return nil, &model.ExtractionError{
				Filename: filepath.Base(path),
				Err:      fmt.Errorf("file is %d bytes, limit is %d", info.Size(), maxBytes),
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
