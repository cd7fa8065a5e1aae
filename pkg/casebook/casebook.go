// Package casebook extracts compiler test cases from Markdown documents.
//
// A case starts at a heading "Test: <name>" and is made of fenced code
// blocks: a "c" fence holding the program, and at least one expectation:
// "exit" (the process exit status), "asm" (lines that must appear in the
// generated assembly, in order) or "error" (text the compile error must
// contain).
package casebook

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages understood by the extractor
const (
	FenceSource = "c"
	FenceExit   = "exit"
	FenceAsm    = "asm"
	FenceError  = "error"
)

const headingPrefix = "Test: "

// Case is one test case
type Case struct {
	Name   string
	Line   int      // line of the case's first fence
	Source string   // C program
	Exit   *int     // expected exit status, nil when not checked
	Asm    []string // assembly lines expected in this order
	Error  string   // expected compile error text, empty when compilation must succeed
}

// Extract parses a Markdown document and returns its test cases in order
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var cur *Case

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := headingText(n, markdown)
			if !strings.HasPrefix(heading, headingPrefix) {
				return ast.WalkContinue, nil
			}
			if cur != nil {
				if err := cur.validate(); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *cur)
			}
			cur = &Case{Name: strings.TrimSpace(strings.TrimPrefix(heading, headingPrefix))}

		case *ast.FencedCodeBlock:
			lang := string(n.Language(markdown))
			line := lineOf(n, markdown)
			if cur == nil {
				if isKnownFence(lang) {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, lang)
				}
				return ast.WalkContinue, nil
			}
			if err := cur.addFence(lang, fenceContent(n, markdown), line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if cur != nil {
		if err := cur.validate(); err != nil {
			return nil, err
		}
		cases = append(cases, *cur)
	}
	return cases, nil
}

func (c *Case) addFence(lang, content string, line int) error {
	content = strings.TrimRight(content, "\n")
	switch lang {
	case FenceSource:
		if c.Source != "" {
			return fmt.Errorf("line %d: test %q has more than one %s fence", line, c.Name, lang)
		}
		c.Source = content
		c.Line = line
	case FenceExit:
		status, err := strconv.Atoi(strings.TrimSpace(content))
		if err != nil {
			return fmt.Errorf("line %d: test %q: bad exit status %q", line, c.Name, content)
		}
		c.Exit = &status
	case FenceAsm:
		for l := range strings.SplitSeq(content, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				c.Asm = append(c.Asm, l)
			}
		}
	case FenceError:
		c.Error = strings.TrimSpace(content)
	case "":
		// untagged blocks are commentary
	default:
		return fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, c.Name)
	}
	return nil
}

func (c *Case) validate() error {
	if c.Source == "" {
		return fmt.Errorf("test %q has no %s fence", c.Name, FenceSource)
	}
	if c.Exit == nil && c.Asm == nil && c.Error == "" {
		return fmt.Errorf("test %q has no expectation", c.Name)
	}
	if c.Error != "" && (c.Exit != nil || c.Asm != nil) {
		return fmt.Errorf("test %q expects both an error and output", c.Name)
	}
	return nil
}

// MissingAsm returns the first expected line that does not appear in asm
// after the previous one, or "" when all appear in order. Runs of
// whitespace compare equal, so "movq $1, %rax" matches the tabbed output.
func (c *Case) MissingAsm(asm string) string {
	lines := strings.Split(asm, "\n")
	pos := 0
	for _, want := range c.Asm {
		want = squeeze(want)
		found := false
		for pos < len(lines) {
			got := squeeze(lines[pos])
			pos++
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return want
		}
	}
	return ""
}

func squeeze(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isKnownFence(lang string) bool {
	switch lang {
	case FenceSource, FenceExit, FenceAsm, FenceError:
		return true
	}
	return false
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	// The first content line follows the opening fence.
	return bytes.Count(source[:start], []byte("\n"))
}
