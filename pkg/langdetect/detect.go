// Package langdetect classifies discovered files so the runner knows how to
// scan them. It combines a cheap sniff of the document prologue with go-enry's
// filename and content strategies.
package langdetect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Format is the kind of document a file holds.
type Format string

// Recognized formats.
const (
	FormatUnknown  Format = ""
	FormatXML      Format = "xml"
	FormatSVG      Format = "svg"
	FormatPlist    Format = "plist"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// sniffLimit bounds how much of a document the prologue sniff inspects.
const sniffLimit = 1024

// String returns the format name, or "unknown".
func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// Markup reports whether the whole document is scanned as markup.
func (f Format) Markup() bool {
	switch f {
	case FormatXML, FormatSVG, FormatPlist, FormatHTML:
		return true
	default:
		return false
	}
}

// Embedded reports whether markup must first be extracted from the document.
func (f Format) Embedded() bool {
	return f == FormatMarkdown
}

// enryFormats maps go-enry language names onto formats.
//
//nolint:gochecknoglobals // Read-only lookup table.
var enryFormats = map[string]Format{
	"XML":               FormatXML,
	"XSLT":              FormatXML,
	"XML Property List": FormatPlist,
	"SVG":               FormatSVG,
	"HTML":              FormatHTML,
	"Markdown":          FormatMarkdown,
}

// Classify returns the format of the file at path with the given content.
func Classify(path string, content []byte) Format {
	head := content
	if len(head) > sniffLimit {
		head = head[:sniffLimit]
	}

	// Strategy 1: the prologue names the vocabulary outright.
	if f := sniff(head); f != FormatUnknown {
		return f
	}

	// Strategy 2: go-enry's filename, extension and content heuristics.
	if f, ok := enryFormats[enry.GetLanguage(filepath.Base(path), head)]; ok {
		return f
	}

	// Strategy 3: anything that opens with a tag is treated as generic XML.
	if bytes.HasPrefix(trimPrologue(head), []byte("<")) {
		return FormatXML
	}

	return FormatUnknown
}

// ClassifyByName classifies a path from its extension alone. Extensions
// shared by several languages (".md") match if any candidate is known.
func ClassifyByName(path string) Format {
	for _, lang := range enry.GetLanguagesByExtension(filepath.Base(path), nil, nil) {
		if f, ok := enryFormats[lang]; ok {
			return f
		}
	}
	return FormatUnknown
}

// sniff recognizes documents whose prologue identifies the vocabulary.
func sniff(head []byte) Format {
	trimmed := trimPrologue(head)
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatUnknown
	}

	lower := strings.ToLower(string(trimmed))
	switch {
	case strings.Contains(lower, "<!doctype plist") || strings.Contains(lower, "<plist"):
		return FormatPlist
	case strings.Contains(lower, "<svg"):
		return FormatSVG
	case strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html"):
		return FormatHTML
	case strings.HasPrefix(lower, "<?xml"):
		return FormatXML
	default:
		return FormatUnknown
	}
}

// trimPrologue drops a UTF-8 byte order mark and leading whitespace.
func trimPrologue(b []byte) []byte {
	b = bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
	return bytes.TrimLeft(b, " \t\r\n")
}
