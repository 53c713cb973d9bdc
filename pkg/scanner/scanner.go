// Package scanner walks a source tree and produces per-language line
// statistics: total, blank, comment and code lines plus a rough decision
// point count. The per-language code totals feed the estimator as a
// language mix.
package scanner

import (
	"bufio"
	"bytes"
	"cmp"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoFiles is returned when the walk finds nothing analyzable.
var ErrNoFiles = errors.New("no files found to analyze")

// sniffSize is how much of a file is inspected for null bytes to decide
// whether it is binary.
const sniffSize = 8192

// maxLineSize bounds the line scanner buffer (minified assets can carry
// multi-hundred-KB lines).
const maxLineSize = 1 << 20

// FileStats holds line classification for a single file.
type FileStats struct {
	Path       string `json:"path"`
	Language   string `json:"language"`
	Lines      int    `json:"lines"`
	Blanks     int    `json:"blanks"`
	Comments   int    `json:"comments"`
	Code       int    `json:"code"`
	Complexity int    `json:"complexity"`
	Bytes      int64  `json:"bytes"`
}

// LanguageStats aggregates FileStats per language.
type LanguageStats struct {
	Files      int   `json:"files"`
	Lines      int   `json:"lines"`
	Blanks     int   `json:"blanks"`
	Comments   int   `json:"comments"`
	Code       int   `json:"code"`
	Complexity int   `json:"complexity"`
	Bytes      int64 `json:"bytes"`
}

// Summary is the result of one repository scan.
type Summary struct {
	Files     []FileStats              `json:"files"`
	Languages map[string]LanguageStats `json:"languages"`
	Totals    LanguageStats            `json:"totals"`
}

// LanguageMix returns the per-language code line counts in the shape the
// estimator consumes.
func (s *Summary) LanguageMix() map[string]int {
	mix := make(map[string]int, len(s.Languages))
	for lang, stats := range s.Languages {
		mix[lang] = stats.Code
	}
	return mix
}

// SortedLanguages returns language names ordered by code lines descending,
// ties broken by name for stable report output.
func (s *Summary) SortedLanguages() []string {
	names := make([]string, 0, len(s.Languages))
	for lang := range s.Languages {
		names = append(names, lang)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(s.Languages[b].Code, s.Languages[a].Code); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return names
}

// Scan walks root and classifies every readable text file. Unreadable
// files are logged and skipped rather than failing the whole scan; binary
// files are detected by extension or a null-byte sniff of the first 8 KB.
func Scan(root string) (*Summary, error) {
	summary := &Summary{Languages: make(map[string]LanguageStats)}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != root && excludedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if excludedFiles[entry.Name()] {
			return nil
		}

		stats, ok := analyzeFile(root, path, entry)
		if !ok {
			return nil
		}
		summary.Files = append(summary.Files, stats)

		lang := summary.Languages[stats.Language]
		lang.Files++
		lang.Lines += stats.Lines
		lang.Blanks += stats.Blanks
		lang.Comments += stats.Comments
		lang.Code += stats.Code
		lang.Complexity += stats.Complexity
		lang.Bytes += stats.Bytes
		summary.Languages[stats.Language] = lang

		summary.Totals.Files++
		summary.Totals.Lines += stats.Lines
		summary.Totals.Blanks += stats.Blanks
		summary.Totals.Comments += stats.Comments
		summary.Totals.Code += stats.Code
		summary.Totals.Complexity += stats.Complexity
		summary.Totals.Bytes += stats.Bytes
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(summary.Files) == 0 {
		return nil, ErrNoFiles
	}
	return summary, nil
}

// analyzeFile classifies one file. The second return is false when the
// file is binary or unreadable.
func analyzeFile(root, path string, entry fs.DirEntry) (FileStats, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" && licensePattern.MatchString(entry.Name()) {
		ext = ".license"
	}
	if binaryExtensions[ext] {
		return FileStats{}, false
	}

	info, err := entry.Info()
	if err != nil {
		slog.Warn("Skipping file without metadata", "path", path, "error", err)
		return FileStats{}, false
	}

	file, err := os.Open(path)
	if err != nil {
		slog.Warn("Skipping unreadable file", "path", path, "error", err)
		return FileStats{}, false
	}
	defer file.Close() //nolint:errcheck // read-only handle

	head := make([]byte, sniffSize)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return FileStats{}, false
	}
	if bytes.IndexByte(head[:n], 0) >= 0 {
		return FileStats{}, false
	}
	if _, err := file.Seek(0, 0); err != nil {
		return FileStats{}, false
	}

	language, ok := langByExtension[ext]
	if !ok {
		language = "Other"
	}
	commentRE := commentPatterns[language]
	complexityRE := complexityPatterns[language]

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	stats := FileStats{Path: rel, Language: language, Bytes: info.Size()}

	lines := bufio.NewScanner(file)
	lines.Buffer(make([]byte, 64*1024), maxLineSize)
	for lines.Scan() {
		line := lines.Text()
		stats.Lines++
		switch {
		case strings.TrimSpace(line) == "":
			stats.Blanks++
		case commentRE != nil && commentRE.MatchString(line):
			stats.Comments++
		}
		if complexityRE != nil && complexityRE.MatchString(line) {
			stats.Complexity++
		}
	}
	if err := lines.Err(); err != nil {
		slog.Warn("Skipping file with scan error", "path", path, "error", err)
		return FileStats{}, false
	}

	stats.Code = stats.Lines - stats.Blanks - stats.Comments
	return stats, true
}
