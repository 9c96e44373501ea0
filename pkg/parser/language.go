package parser

import (
	"path/filepath"
	"strings"
)

// Language is a grammar family supported by the parser.
type Language int

const (
	// LanguageTypeScript covers .ts and .tsx files.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js and .jsx files. The JavaScript grammar
	// parses JSX natively.
	LanguageJavaScript
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// SupportedExtensions lists the file extensions ParseFile accepts.
var SupportedExtensions = []string{".ts", ".mts", ".cts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// DetectLanguage maps a file path to its grammar by extension.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether filePath needs the TSX grammar.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// IsSupportedFile reports whether filePath has a parseable extension.
func IsSupportedFile(filePath string) bool {
	return DetectLanguage(filePath) != LanguageUnknown
}

// SupportedLanguages returns every language with a grammar.
func SupportedLanguages() []Language {
	return []Language{LanguageTypeScript, LanguageJavaScript}
}
