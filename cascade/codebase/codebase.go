// Package codebase keeps the parsed sources of a project in memory and
// serves them to the language server.
package codebase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/casc/cascade/parser"
	"github.com/dhamidi/casc/project"
)

type Codebase struct {
	mu      sync.RWMutex
	project *project.Project
	files   map[string]*FileInfo
	metrics *Metrics
	log     commonlog.Logger
}

// FileInfo is the latest parse of one file. It is never mutated after
// being stored, so readers may keep it without holding the lock.
type FileInfo struct {
	Path    string
	Content []byte
	Tree    *parser.Tree
	Errors  []parser.ParseError
	Lines   *LineIndex
	// Version is the editor's document version, 0 for content read from disk.
	Version int32
}

// Diagnostic is a parse error located by line and character.
type Diagnostic struct {
	Path    string
	Start   Position
	End     Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Start.Line+1, d.Start.Character+1, d.Message)
}

type Option func(*Codebase)

func WithMetrics(m *Metrics) Option {
	return func(c *Codebase) { c.metrics = m }
}

func New(p *project.Project, opts ...Option) *Codebase {
	c := &Codebase{
		project: p,
		files:   make(map[string]*FileInfo),
		log:     commonlog.GetLogger("cascade.codebase"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) Project() *project.Project {
	return c.project
}

func (c *Codebase) RootDir() string {
	return c.project.RootDir
}

// ScanAll parses every source file of the project using at most
// Workers goroutines. Files that cannot be read are reported together
// once the scan has finished.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.project.SourceFiles()
	if err != nil {
		return err
	}

	workers := max(1, min(c.project.Workers, len(paths)))
	c.log.Infof("scanning %d files with %d workers", len(paths), workers)
	start := time.Now()

	jobs := make(chan string)
	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		failed []error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := c.ScanFile(path); err != nil {
					errMu.Lock()
					failed = append(failed, err)
					errMu.Unlock()
				}
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Infof("scanned %d files in %s", len(paths), time.Since(start))
	return errors.Join(failed...)
}

// ScanFile reads path from disk and reparses it.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.UpdateFile(path, content, 0)
	return nil
}

// UpdateFile replaces the content of path and reparses it.
func (c *Codebase) UpdateFile(path string, content []byte, version int32) *FileInfo {
	info := c.parse(path, content, version)

	c.mu.Lock()
	c.files[path] = info
	n := len(c.files)
	c.mu.Unlock()

	c.metrics.setFiles(n)
	return info
}

func (c *Codebase) parse(path string, content []byte, version int32) *FileInfo {
	src := string(content)
	start := time.Now()
	tree, errs := parser.Parse(src, parser.WithFile(path), parser.WithLogger(c.log))
	elapsed := time.Since(start)

	c.metrics.observeParse(elapsed, len(errs))
	c.log.Debugf("parsed %s in %s with %d errors", path, elapsed, len(errs))

	return &FileInfo{
		Path:    path,
		Content: content,
		Tree:    tree,
		Errors:  errs,
		Lines:   NewLineIndex(src),
		Version: version,
	}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	delete(c.files, path)
	n := len(c.files)
	c.mu.Unlock()

	c.metrics.setFiles(n)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns every tracked file ordered by path.
func (c *Codebase) Files() []*FileInfo {
	c.mu.RLock()
	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	c.mu.RUnlock()

	slices.SortFunc(files, func(a, b *FileInfo) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files
}

// Diagnostics returns the errors of the file located by line.
func (f *FileInfo) Diagnostics() []Diagnostic {
	diags := make([]Diagnostic, len(f.Errors))
	for i, e := range f.Errors {
		diags[i] = Diagnostic{
			Path:    f.Path,
			Start:   f.Lines.Position(e.Range.Start),
			End:     f.Lines.Position(e.Range.End),
			Message: e.Message,
		}
	}
	return diags
}

// Diagnostics returns the errors of every tracked file ordered by path.
func (c *Codebase) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, f := range c.Files() {
		all = append(all, f.Diagnostics()...)
	}
	return all
}
