// Package input reads the list of image URLs to analyze.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
)

const bom = "\uFEFF"

// LoadOptions configures URL loading.
type LoadOptions struct {
	Delimiter string   // Single character, defaults to ","
	Include   []string // Glob patterns a URL must match (any)
	Exclude   []string // Glob patterns that reject a URL
}

// LoadURLs reads the first field of every record in the file at path.
func LoadURLs(path string, opts LoadOptions) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	return ReadURLs(f, opts)
}

// ReadURLs reads URLs from r. Blank rows are skipped, a leading byte order mark is
// stripped, and duplicates are dropped keeping the first occurrence.
func ReadURLs(r io.Reader, opts LoadOptions) ([]string, error) {
	if err := validatePatterns(opts); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) {
			return nil, fmt.Errorf("delimiter must be a single character, got %q", opts.Delimiter)
		}
		reader.Comma = d
	}

	seen := make(map[string]struct{})
	urls := make([]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read url list: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		url := strings.TrimSpace(strings.TrimPrefix(record[0], bom))
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		if !matchesFilters(url, opts) {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls, nil
}

func validatePatterns(opts LoadOptions) error {
	for _, p := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid url pattern %q", p)
		}
	}
	return nil
}

// matchesFilters checks a URL against the include/exclude filters.
func matchesFilters(url string, opts LoadOptions) bool {
	// Check exclude patterns first
	for _, pattern := range opts.Exclude {
		if matched, _ := doublestar.Match(pattern, url); matched {
			return false
		}
	}

	if len(opts.Include) == 0 {
		return true
	}

	for _, pattern := range opts.Include {
		if matched, _ := doublestar.Match(pattern, url); matched {
			return true
		}
	}
	return false
}
