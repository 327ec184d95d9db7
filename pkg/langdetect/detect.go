// Package langdetect decides which files sentinel scans. It maps a file to
// an editor language id using go-enry, which looks at the file name, the
// shebang line and, for ambiguous extensions such as .ts, the content.
package langdetect

import (
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language is an editor language id.
type Language string

// Supported language ids.
const (
	JavaScript      Language = "javascript"
	JavaScriptReact Language = "javascriptreact"
	TypeScript      Language = "typescript"
	TypeScriptReact Language = "typescriptreact"
	HTML            Language = "html"
	Markdown        Language = "markdown"
)

// DefaultEligible returns the languages scanned when none are configured.
func DefaultEligible() []Language {
	return []Language{JavaScript, JavaScriptReact, TypeScript, TypeScriptReact, HTML}
}

// Known reports whether lang is one of the supported ids.
func Known(lang Language) bool {
	switch lang {
	case JavaScript, JavaScriptReact, TypeScript, TypeScriptReact, HTML, Markdown:
		return true
	default:
		return false
	}
}

// Classify returns the language of the file at path. The boolean is false
// for files in languages sentinel does not know.
func Classify(path string, content []byte) (Language, bool) {
	name := enry.GetLanguage(filepath.Base(path), content)
	if name == "" {
		return "", false
	}

	lang := fromEnry(name)
	if lang == JavaScript && strings.EqualFold(filepath.Ext(path), ".jsx") {
		lang = JavaScriptReact
	}
	return lang, lang != ""
}

// IsGenerated reports whether the file looks machine-generated, for example
// minified bundles or source maps.
func IsGenerated(path string, content []byte) bool {
	return enry.IsGenerated(path, content)
}

// FromFenceInfo maps a markdown code fence info string such as "ts" or
// "javascript title=app.js" to a language.
func FromFenceInfo(info string) (Language, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", false
	}

	switch alias := strings.ToLower(fields[0]); alias {
	case "js", "javascript", "mjs", "cjs", "node":
		return JavaScript, true
	case "jsx":
		return JavaScriptReact, true
	case "ts", "typescript", "mts", "cts":
		return TypeScript, true
	case "tsx":
		return TypeScriptReact, true
	case "html", "htm", "xhtml":
		return HTML, true
	default:
		name, ok := enry.GetLanguageByAlias(alias)
		if !ok {
			return "", false
		}
		lang := fromEnry(name)
		if lang == "" || lang == Markdown {
			return "", false
		}
		return lang, true
	}
}

// fromEnry converts a linguist language name to a language id.
func fromEnry(name string) Language {
	switch name {
	case "JavaScript":
		return JavaScript
	case "TypeScript":
		return TypeScript
	case "TSX":
		return TypeScriptReact
	case "HTML":
		return HTML
	case "Markdown":
		return Markdown
	default:
		return ""
	}
}

// Set is a set of eligible languages.
type Set map[Language]struct{}

// NewSet builds a Set from langs.
func NewSet(langs ...Language) Set {
	set := make(Set, len(langs))
	for _, l := range langs {
		set[l] = struct{}{}
	}
	return set
}

// Contains reports whether lang is in the set.
func (s Set) Contains(lang Language) bool {
	_, ok := s[lang]
	return ok
}
