package cache

import (
	"path/filepath"
	"strings"
)

var extensionLanguages = map[string]string{
	".py":   "python",
	".go":   "go",
	".js":   "javascript",
	".ts":   "typescript",
	".tsx":  "typescript",
	".jsx":  "javascript",
	".java": "java",
	".rb":   "ruby",
	".rs":   "rust",
	".c":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".h":    "c",
	".hpp":  "cpp",
	".cs":   "csharp",
	".sh":   "shell",
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".xml":  "xml",
	".md":   "markdown",
}

// detectLanguage maps a file path to a language name by its extension.
// It returns "" for unrecognized extensions.
func detectLanguage(path string) string {
	return extensionLanguages[strings.ToLower(filepath.Ext(path))]
}
