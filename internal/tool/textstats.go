package tool

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/diff"
	"github.com/handybox/handybox/internal/validate"
)

// readingWordsPerMinute is the usual silent-reading speed estimate.
const readingWordsPerMinute = 200

// TextStatsTool counts characters, words, lines and sentences.
type TextStatsTool struct {
	Limits config.ToolsConfig
}

func (t *TextStatsTool) Name() string { return "textstats" }

func (t *TextStatsTool) Describe() string {
	return "Count characters, words, lines, sentences and paragraphs in a text"
}

type textStatsParams struct {
	Text string `json:"text"`
}

type textStatsResult struct {
	Bytes              int `json:"bytes"`
	Characters         int `json:"characters"`
	CharactersNoSpaces int `json:"characters_no_spaces"`
	Words              int `json:"words"`
	Lines              int `json:"lines"`
	Sentences          int `json:"sentences"`
	Paragraphs         int `json:"paragraphs"`
	ReadingTimeSec     int `json:"reading_time_sec"`
}

func (t *TextStatsTool) Run(ctx context.Context, params json.RawMessage) (any, error) {
	var p textStatsParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, badParams("%v", err)
	}
	if err := validate.TextBytes("text", p.Text, t.Limits.MaxTextBytes); err != nil {
		return nil, badParams("%v", err)
	}

	words := countWords(p.Text)
	res := textStatsResult{
		Bytes:              len(p.Text),
		Characters:         utf8.RuneCountInString(p.Text),
		CharactersNoSpaces: countNonSpaceRunes(p.Text),
		Words:              words,
		Lines:              countLines(p.Text),
		Sentences:          countSentences(p.Text),
		Paragraphs:         countParagraphs(p.Text),
		ReadingTimeSec:     readingTimeSec(words),
	}
	return &res, nil
}

// countWords counts the non-whitespace runs of the diff engine's word
// tokenizer, so word counts and word-mode diffs agree on what a word is.
func countWords(s string) int {
	n := 0
	for _, tok := range diff.Tokenize(s, diff.ModeWord) {
		r, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func countNonSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// countLines counts newline-terminated lines plus the final unterminated
// line, matching what an editor's line gutter would show.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

func countSentences(s string) int {
	n := 0
	inSentence := false
	for _, r := range s {
		switch r {
		case '.', '!', '?':
			if inSentence {
				n++
				inSentence = false
			}
		default:
			if !unicode.IsSpace(r) {
				inSentence = true
			}
		}
	}
	if inSentence {
		n++
	}
	return n
}

func countParagraphs(s string) int {
	n := 0
	for _, block := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}

func readingTimeSec(words int) int {
	if words == 0 {
		return 0
	}
	sec := words * 60 / readingWordsPerMinute
	if sec == 0 {
		sec = 1
	}
	return sec
}
