package input

import (
	"sort"
	"strings"

	"github.com/alefore/edge-sub003/internal/input/key"
)

// ColorizeOptions recolorizes prompt text as it changes (spec's
// "optional colorize-options provider", e.g. live search-match status).
type ColorizeOptions func(input string) string

// PromptMode displays a prompt, edits a single-line buffer, and
// maintains history filtered live by substring of the current input
// (spec §4.K). Each matching history entry is scored as its line number
// times the number of occurrences of the current input inside it, and
// the matches are sorted by ascending score (ties by history order), so
// the most relevant entry comes last. Entries with equal text at
// different history positions are scored separately, not merged.
type PromptMode struct {
	Prompt  string
	History []string // line 0 is the oldest entry

	Colorize ColorizeOptions

	OnCommit func(input string)
	OnCancel func(input string)

	input      string
	cursor     int
	filtered   []string
	histCursor int
	browsing   bool
}

func NewPromptMode(prompt string, history []string) *PromptMode {
	return &PromptMode{Prompt: prompt, History: history}
}

// Input returns the current edit buffer text.
func (p *PromptMode) Input() string { return p.input }

func (p *PromptMode) ProcessInput(ev key.Event, ctx *Context) bool {
	switch ev.Key {
	case key.KeyEnter:
		if p.OnCommit != nil {
			p.OnCommit(p.input)
		}
		ctx.Editor.SetMode(ctx.Editor.PreviousMode())
		return true
	case key.KeyEscape:
		if p.OnCancel != nil {
			p.OnCancel(p.input)
		} else if p.OnCommit != nil {
			p.OnCommit("")
		}
		ctx.Editor.SetMode(ctx.Editor.PreviousMode())
		return true
	case key.KeyBackspace:
		if p.cursor > 0 {
			r := []rune(p.input)
			p.input = string(r[:p.cursor-1]) + string(r[p.cursor:])
			p.cursor--
			p.refilter()
		}
		return true
	case key.KeyUp:
		p.browseHistory(-1)
		return true
	case key.KeyDown:
		p.browseHistory(1)
		return true
	case key.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}
		return true
	case key.KeyRight:
		if p.cursor < len([]rune(p.input)) {
			p.cursor++
		}
		return true
	}

	if !ev.IsRune() {
		return false
	}
	r := []rune(p.input)
	p.input = string(r[:p.cursor]) + string(ev.Rune) + string(r[p.cursor:])
	p.cursor++
	p.refilter()
	return true
}

// Colorized returns the prompt text run through Colorize, or the raw
// input when no provider is set.
func (p *PromptMode) Colorized() string {
	if p.Colorize != nil {
		return p.Colorize(p.input)
	}
	return p.input
}

func (p *PromptMode) refilter() {
	p.browsing = false
	if p.input == "" {
		p.filtered = nil
		return
	}
	type scored struct {
		line  string
		score int
		order int
	}
	var matches []scored
	for i, line := range p.History {
		if !strings.Contains(line, p.input) {
			continue
		}
		score := 0
		start := 0
		for {
			idx := strings.Index(line[start:], p.input)
			if idx < 0 {
				break
			}
			score += i
			start += idx + len(p.input)
			if start >= len(line) {
				break
			}
		}
		matches = append(matches, scored{line: line, score: score, order: i})
	}
	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score < matches[b].score
		}
		return matches[a].order < matches[b].order
	})
	p.filtered = make([]string, len(matches))
	for i, m := range matches {
		p.filtered[i] = m.line
	}
	p.histCursor = -1
}

func (p *PromptMode) browseHistory(delta int) {
	pool := p.filtered
	if p.input == "" {
		pool = p.History
	}
	if len(pool) == 0 {
		return
	}
	if !p.browsing {
		p.browsing = true
		if delta < 0 {
			p.histCursor = len(pool) - 1
		} else {
			p.histCursor = 0
		}
	} else {
		p.histCursor += delta
		if p.histCursor < 0 {
			p.histCursor = 0
		}
		if p.histCursor >= len(pool) {
			p.histCursor = len(pool) - 1
		}
	}
	p.input = pool[p.histCursor]
	p.cursor = len([]rune(p.input))
}
