package docs

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Page is one embedded reference document.
type Page struct {
	// Slug is the filename without extension; it doubles as the last URI
	// segment.
	Slug string
	// Title is the document's first top-level heading.
	Title string
	// Content is the raw markdown.
	Content string

	sections []section
}

type section struct {
	line int
	text string
}

// Match is one search hit.
type Match struct {
	Slug    string
	Title   string
	Snippet string
}

// Index holds the parsed pages and answers keyword searches over them.
type Index struct {
	pages []Page
}

// NewIndex loads and parses the embedded documents. Pages keep the
// lexical order of their filenames.
func NewIndex() (*Index, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	idx := &Index{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read doc %s: %w", name, err)
		}
		idx.pages = append(idx.pages, newPage(strings.TrimSuffix(name, ".md"), data))
	}
	if len(idx.pages) == 0 {
		return nil, fmt.Errorf("no documents embedded")
	}
	return idx, nil
}

// Pages returns the documents in index order.
func (idx *Index) Pages() []Page {
	return append([]Page(nil), idx.pages...)
}

const maxSnippetsPerPage = 3

// Search returns up to limit pages containing the query, with short
// snippets around the matching lines. Matching is case-insensitive.
func (idx *Index) Search(query string, limit int) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	var out []Match
	for _, p := range idx.pages {
		lines := strings.Split(p.Content, "\n")
		var windows []string
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), q) {
				continue
			}
			start := i - 1
			if start < 0 {
				start = 0
			}
			end := i + 2
			if end > len(lines) {
				end = len(lines)
			}
			w := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
			if h := p.sectionAt(i); h != "" && !strings.Contains(w, h) {
				w = "[" + h + "]\n" + w
			}
			windows = append(windows, w)
			if len(windows) == maxSnippetsPerPage {
				break
			}
		}
		if len(windows) == 0 {
			continue
		}
		out = append(out, Match{
			Slug:    p.Slug,
			Title:   p.Title,
			Snippet: strings.Join(windows, "\n...\n"),
		})
		if len(out) == limit {
			break
		}
	}
	return out
}

// sectionAt returns the text of the nearest heading at or above the line.
func (p *Page) sectionAt(line int) string {
	current := ""
	for _, s := range p.sections {
		if s.line > line {
			break
		}
		current = s.text
	}
	return current
}

// newPage parses the markdown once, recording heading positions so search
// results can name their section. Parsing the document proper means a #
// inside a code fence is not mistaken for a heading.
func newPage(slug string, src []byte) Page {
	p := Page{Slug: slug, Content: string(src)}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := headingText(h, src)
		if title == "" {
			return ast.WalkContinue, nil
		}
		if h.Level == 1 && p.Title == "" {
			p.Title = title
		}
		if h.Lines().Len() > 0 {
			seg := h.Lines().At(0)
			line := bytes.Count(src[:seg.Start], []byte("\n"))
			p.sections = append(p.sections, section{line: line, text: title})
		}
		return ast.WalkContinue, nil
	})

	if p.Title == "" {
		p.Title = toTitle(slug)
	}
	return p
}

func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(b.String())
}

func toTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
