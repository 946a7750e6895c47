package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks dir and returns every .json or .jsonl file whose name marks
// it as a claims or payments file, sorted by path. A missing dir yields no
// files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		format, ok := FormatFor(path)
		if !ok {
			return nil
		}
		kind, ok := KindFor(d.Name())
		if !ok {
			return nil
		}

		files = append(files, DiscoveredFile{Path: path, Kind: kind, Format: format})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// KindFor guesses the stream from a file name: "claim" or "payment"
// anywhere in it, case-insensitive.
func KindFor(name string) (Kind, bool) {
	lower := strings.ToLower(filepath.Base(name))
	switch {
	case strings.Contains(lower, "claim"):
		return KindClaims, true
	case strings.Contains(lower, "payment"):
		return KindPayments, true
	}
	return "", false
}

// FormatFor maps a file extension to a Format.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	}
	return "", false
}

// CountKinds returns how many files of each kind are in files.
func CountKinds(files []DiscoveredFile) (claims, payments int) {
	for _, f := range files {
		switch f.Kind {
		case KindClaims:
			claims++
		case KindPayments:
			payments++
		}
	}
	return claims, payments
}
