package scanner

import "regexp"

// langByExtension classifies files by extension. Extensions not listed are
// reported as "Other" and still counted.
var langByExtension = map[string]string{
	".go":      "Go",
	".r":       "R",
	".js":      "JavaScript",
	".jsx":     "JavaScript",
	".ts":      "TypeScript",
	".tsx":     "TypeScript",
	".css":     "CSS",
	".scss":    "Sass",
	".sass":    "Sass",
	".html":    "HTML",
	".htm":     "HTML",
	".md":      "Markdown",
	".rmd":     "Markdown",
	".qmd":     "Quarto",
	".yml":     "YAML",
	".yaml":    "YAML",
	".json":    "JSON",
	".xml":     "XML",
	".svg":     "SVG",
	".py":      "Python",
	".tex":     "TeX",
	".sh":      "Shell",
	".txt":     "Plain Text",
	".license": "License",
	".c":       "C",
	".cpp":     "C++",
	".h":       "C Header",
	".java":    "Java",
	".sql":     "SQL",
}

// commentPatterns holds one alternation per language so each line is
// matched in a single pass; a line hit by several comment styles still
// counts once.
var commentPatterns = map[string]*regexp.Regexp{
	"Go":         regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"R":          regexp.MustCompile(`^\s*#`),
	"JavaScript": regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"TypeScript": regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"CSS":        regexp.MustCompile(`^\s*/\*|^\s*\*`),
	"Sass":       regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"HTML":       regexp.MustCompile(`^\s*<!--`),
	"Python":     regexp.MustCompile(`^\s*#`),
	"Shell":      regexp.MustCompile(`^\s*#`),
	"YAML":       regexp.MustCompile(`^\s*#`),
	"SQL":        regexp.MustCompile(`^\s*--|^\s*/\*|^\s*\*`),
	"C":          regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"C++":        regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"C Header":   regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
	"Java":       regexp.MustCompile(`^\s*//|^\s*/\*|^\s*\*`),
}

// complexityPatterns count rough decision points (branches, loops,
// function definitions) per language. This is a heuristic, not a parser.
var complexityPatterns = map[string]*regexp.Regexp{
	"Go":         regexp.MustCompile(`func\s|for\s|if\s|switch\s|select\s|case\s`),
	"R":          regexp.MustCompile(`function\s*\(|for\s*\(|while\s*\(|if\s*\(`),
	"JavaScript": regexp.MustCompile(`function\s|=>|for\s*\(|while\s*\(|if\s*\(|class\s`),
	"TypeScript": regexp.MustCompile(`function\s|=>|for\s*\(|while\s*\(|if\s*\(|class\s`),
	"Python":     regexp.MustCompile(`def\s|class\s|for\s|while\s|if\s`),
}

// ExcludedDir reports whether a directory name is skipped during scans.
// Exposed so callers watching a tree can skip the same directories.
func ExcludedDir(name string) bool {
	return excludedDirs[name]
}

// excludedDirs are never descended into.
var excludedDirs = map[string]bool{
	".git":         true,
	".Rproj.user":  true,
	"node_modules": true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"packrat":      true,
	"renv":         true,
	"vendor":       true,
}

// excludedFiles are skipped by exact name.
var excludedFiles = map[string]bool{
	".DS_Store": true,
	".Rhistory": true,
	".RData":    true,
}

// binaryExtensions short-circuit the content sniff for well-known binary
// formats.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".tiff": true, ".webp": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
	".rds": true, ".rdata": true, ".rda": true, ".rdb": true, ".rdx": true,
	".pyc": true, ".so": true, ".dylib": true, ".dll": true, ".o": true,
	".class": true, ".jar": true,
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".mp3": true, ".mp4": true, ".wav": true, ".avi": true, ".mov": true,
	".ogg": true,
	".sqlite": true, ".db": true, ".exe": true, ".bin": true, ".dat": true,
	".lock": true,
}

// licensePattern matches extensionless license files.
var licensePattern = regexp.MustCompile(`(?i)LICENSE|LICENCE`)
