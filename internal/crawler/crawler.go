package crawler

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Crawler scans a directory for GOSSIP sources.
type Crawler struct {
	include []string
	ignored []string
}

// NewCrawler creates a new crawler instance. include holds doublestar
// patterns matched against slash-separated paths relative to the scan root;
// ignored holds directory names or patterns to skip entirely.
func NewCrawler(include, ignored []string) *Crawler {
	if len(include) == 0 {
		include = []string{"**/*.gossip"}
	}
	return &Crawler{include: include, ignored: ignored}
}

// Match reports whether rel (relative to the scan root) is a source file.
func (c *Crawler) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (c *Crawler) skipDir(name, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
		if ok, _ := doublestar.Match(ign, rel); ok {
			return true
		}
	}
	return false
}

// ScanProject walks root and streams each matching file to onFile in
// lexical path order. An error from onFile aborts the walk.
func (c *Crawler) ScanProject(root string, onFile func(path, source string) error) error {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		// Skip ignored directories
		if d.IsDir() {
			if rel != "." && c.skipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if c.Match(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(paths)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := onFile(path, string(data)); err != nil {
			return err
		}
	}
	return nil
}
