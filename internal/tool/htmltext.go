package tool

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/validate"
)

// HTMLTextTool strips markup from an HTML fragment, keeping visible text.
type HTMLTextTool struct {
	Limits config.ToolsConfig
}

func (t *HTMLTextTool) Name() string { return "htmltext" }

func (t *HTMLTextTool) Describe() string {
	return "Extract the title, visible text and link count from an HTML document"
}

type htmlTextParams struct {
	HTML string `json:"html"`
}

type htmlTextResult struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Words int    `json:"words"`
	Links int    `json:"links"`
}

// elements whose text content is never visible.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

// elements that imply a line break around their content.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Tr: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Blockquote: true,
	atom.Pre: true, atom.Section: true, atom.Article: true,
}

func (t *HTMLTextTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p htmlTextParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("html", p.HTML, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	var buf, titleBuf strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(p.HTML))
	skipDepth := 0
	inTitle := false
	links := 0
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			text := collapseBlank(buf.String())
			return &htmlTextResult{
				Title: strings.TrimSpace(titleBuf.String()),
				Text:  text,
				Words: countWords(text),
				Links: links,
			}, nil
		case html.TextToken:
			switch {
			case inTitle:
				titleBuf.Write(tokenizer.Text())
			case skipDepth == 0:
				buf.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			a := atom.Lookup(name)
			if a == atom.A {
				links++
			}
			if a == atom.Title && tt == html.StartTagToken {
				inTitle = true
			}
			if skippedElements[a] && tt == html.StartTagToken {
				skipDepth++
			}
			if blockElements[a] {
				buf.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			a := atom.Lookup(name)
			if a == atom.Title {
				inTitle = false
			}
			if skippedElements[a] && skipDepth > 0 {
				skipDepth--
			}
			if blockElements[a] {
				buf.WriteByte('\n')
			}
		}
	}
}

// collapseBlank trims each line and folds runs of blank lines into one.
func collapseBlank(s string) string {
	var out []string
	blank := true
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
