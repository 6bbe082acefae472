// Package embedded extracts markup embedded in Markdown documents so it can
// be scanned like a standalone document.
//
// Markdown is parsed with goldmark. Every HTML block and inline raw HTML span
// becomes one or more fragments. A fragment is always a contiguous substring
// of the original document, so scanner offsets map back to the Markdown
// source by adding Fragment.Offset.
package embedded

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Kind distinguishes block-level from inline fragments.
type Kind uint8

const (
	// Block is an HTML block.
	Block Kind = iota
	// Inline is a raw HTML span inside a paragraph, heading or table cell.
	Inline
)

// String returns "block" or "inline".
func (k Kind) String() string {
	if k == Inline {
		return "inline"
	}
	return "block"
}

// Fragment is a run of markup inside a Markdown document.
type Fragment struct {
	Kind Kind

	// Offset is the byte offset of Source within the document.
	Offset int

	// Source is document[Offset : Offset+len(Source)].
	Source string
}

// End returns the offset just past the fragment.
func (f Fragment) End() int {
	return f.Offset + len(f.Source)
}

// Extractor parses Markdown and collects its markup fragments.
// An Extractor is safe for concurrent use.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor returns an Extractor that understands GitHub Flavored Markdown,
// so raw HTML inside tables is found too.
func NewExtractor() *Extractor {
	return &Extractor{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Extract returns the fragments of doc in document order.
func (e *Extractor) Extract(ctx context.Context, doc string) ([]Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	content := []byte(doc)
	root := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	var (
		frags   []Fragment
		visited int
	)
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		visited++
		if visited%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return ast.WalkStop, err
			}
		}

		switch node := n.(type) {
		case *ast.HTMLBlock:
			segs := segmentsOf(node.Lines())
			if node.HasClosure() {
				segs = append(segs, node.ClosureLine)
			}
			frags = appendRuns(frags, doc, Block, segs)
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			frags = appendRuns(frags, doc, Inline, segmentsOf(node.Segments))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	return frags, nil
}

// Extract parses doc with a default Extractor.
func Extract(ctx context.Context, doc string) ([]Fragment, error) {
	return NewExtractor().Extract(ctx, doc)
}

func segmentsOf(segs *text.Segments) []text.Segment {
	if segs == nil {
		return nil
	}
	out := make([]text.Segment, 0, segs.Len())
	for i := range segs.Len() {
		out = append(out, segs.At(i))
	}
	return out
}

// appendRuns merges adjacent segments and appends one fragment per
// contiguous run. Segments split by container prefixes (">" in block quotes,
// list indentation) yield separate runs.
func appendRuns(frags []Fragment, doc string, kind Kind, segs []text.Segment) []Fragment {
	start, stop := -1, -1
	flush := func() {
		if start >= 0 && stop > start {
			frags = append(frags, Fragment{Kind: kind, Offset: start, Source: doc[start:stop]})
		}
	}

	for _, seg := range segs {
		if seg.Start == seg.Stop {
			continue
		}
		if seg.Start == stop {
			stop = seg.Stop
			continue
		}
		flush()
		start, stop = seg.Start, seg.Stop
	}
	flush()

	return frags
}
