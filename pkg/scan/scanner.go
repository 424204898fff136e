// Package scan walks a directory tree and aggregates per-extension file
// statistics for a quick footprint report.
package scan

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"
)

// NoExtension labels files without an extension in the report.
const NoExtension = "(no extension)"

// sampleSize bounds how much of the largest file is read for language and
// binary detection.
const sampleSize = 16 * 1024

// Stats aggregates the files sharing one extension.
type Stats struct {
	Ext         string
	Count       int
	TotalSize   int64
	LargestSize int64
	LargestPath string
	Language    string
	Binary      bool
}

// Scanner walks a root directory and groups files by extension.
type Scanner struct {
	root   string
	ignore map[string]bool
}

// NewScanner creates a scanner for root. Directories named in ignore are
// skipped entirely.
func NewScanner(root string, ignore []string) *Scanner {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	return &Scanner{root: root, ignore: skip}
}

// Scan walks the tree and returns per-extension statistics sorted by total
// size descending. Unreadable entries are logged and skipped.
func (s *Scanner) Scan() ([]Stats, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", s.root)
	}

	groups := make(map[string]*Stats)

	err = filepath.WalkDir(s.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			log.Printf("warning: skipping %s: %v", path, walkErr)

			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if entry.IsDir() {
			if path != s.root && s.ignore[entry.Name()] {
				return fs.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		fi, statErr := entry.Info()
		if statErr != nil {
			log.Printf("warning: skipping %s: %v", path, statErr)

			return nil
		}

		s.record(groups, path, fi.Size())

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}

	result := make([]Stats, 0, len(groups))
	for _, st := range groups {
		s.classify(st)
		result = append(result, *st)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalSize != result[j].TotalSize {
			return result[i].TotalSize > result[j].TotalSize
		}

		return result[i].Ext < result[j].Ext
	})

	return result, nil
}

func (s *Scanner) record(groups map[string]*Stats, path string, size int64) {
	key := extKey(filepath.Base(path))

	st, ok := groups[key]
	if !ok {
		st = &Stats{Ext: key}
		groups[key] = st
	}

	st.Count++
	st.TotalSize += size

	if size >= st.LargestSize || st.LargestPath == "" {
		st.LargestSize = size
		st.LargestPath = path
	}
}

// classify samples the group's largest file to fill the language and binary
// columns.
func (s *Scanner) classify(st *Stats) {
	f, err := os.Open(st.LargestPath)
	if err != nil {
		log.Printf("warning: cannot sample %s: %v", st.LargestPath, err)

		return
	}
	defer f.Close()

	sample, err := io.ReadAll(io.LimitReader(f, sampleSize))
	if err != nil {
		log.Printf("warning: cannot sample %s: %v", st.LargestPath, err)

		return
	}

	st.Binary = enry.IsBinary(sample)
	st.Language = enry.GetLanguage(filepath.Base(st.LargestPath), sample)
}

// extKey maps a file name to its report group: the lowercased extension
// without the dot, "dockerfile" for Dockerfiles, or NoExtension.
func extKey(name string) string {
	if strings.EqualFold(name, "Dockerfile") {
		return "dockerfile"
	}

	ext := filepath.Ext(name)
	if ext == "" || ext == "." {
		return NoExtension
	}

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
