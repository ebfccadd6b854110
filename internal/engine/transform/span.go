package transform

import (
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/engine/position"
)

// insertSpanAt splices other's lines into c starting at pos, returning
// the position immediately after the inserted text. Single-line inserts
// splice in place; multi-line inserts split the current line, insert the
// intermediate lines, and fold the trailing remainder back in, exactly
// mirroring BufferContents' insert/split/fold primitives (spec §4.B/§4.E.2).
func insertSpanAt(c *content.Content, pos position.LineColumn, other *content.Content) position.LineColumn {
	lines := other.Snapshot()
	if len(lines) == 0 {
		return pos
	}
	if len(lines) == 1 {
		_ = c.InsertAt(pos.Line, pos.Column, lines[0])
		return position.LineColumn{Line: pos.Line, Column: pos.Column + lines[0].Length()}
	}

	_ = c.SplitLine(pos)
	_ = c.AppendToLine(pos.Line, lines[0])

	remaining := lines[1:]
	middle := content.FromLines(remaining)
	_ = c.Insert(pos.Line, middle, nil)

	lastNewLineIdx := pos.Line + len(remaining)
	beforeFoldLen := c.Get(lastNewLineIdx).Length()
	_ = c.FoldNextLine(lastNewLineIdx)

	return position.LineColumn{Line: lastNewLineIdx, Column: beforeFoldLen}
}

// readSpan returns a copy of [begin, end) from c without mutating it.
func readSpan(c *content.Content, begin, end position.LineColumn) *content.Content {
	if !begin.Less(end) {
		return content.New()
	}
	if begin.Line == end.Line {
		l := c.Get(begin.Line)
		return content.FromLines([]line.Contents{l.Substring(begin.Column, end.Column-begin.Column)})
	}
	firstLine := c.Get(begin.Line)
	firstPart := firstLine.Substring(begin.Column, firstLine.Length()-begin.Column)
	lastLine := c.Get(end.Line)
	lastPart := lastLine.Substring(0, end.Column)
	var middle []line.Contents
	for i := begin.Line + 1; i < end.Line; i++ {
		middle = append(middle, c.Get(i))
	}
	return content.FromLines(append([]line.Contents{firstPart}, append(middle, lastPart)...))
}

// deleteSpan removes [begin, end) from c and returns the removed text as
// a standalone Content, used both to populate the delete buffer and to
// build undo representations.
func deleteSpan(c *content.Content, begin, end position.LineColumn) *content.Content {
	if !begin.Less(end) {
		return content.New()
	}

	if begin.Line == end.Line {
		l := c.Get(begin.Line)
		deleted := l.Substring(begin.Column, end.Column-begin.Column)
		_ = c.DeleteCharactersFromLine(begin.Line, begin.Column, end.Column-begin.Column)
		return content.FromLines([]line.Contents{deleted})
	}

	firstLine := c.Get(begin.Line)
	firstPart := firstLine.Substring(begin.Column, firstLine.Length()-begin.Column)
	lastLine := c.Get(end.Line)
	lastPart := lastLine.Substring(0, end.Column)
	var middle []line.Contents
	for i := begin.Line + 1; i < end.Line; i++ {
		middle = append(middle, c.Get(i))
	}
	deletedLines := append([]line.Contents{firstPart}, append(middle, lastPart)...)

	_ = c.DeleteCharactersFromLine(end.Line, 0, end.Column)
	_ = c.EraseLines(begin.Line+1, end.Line)
	_ = c.DeleteCharactersFromLine(begin.Line, begin.Column, firstLine.Length()-begin.Column)
	_ = c.FoldNextLine(begin.Line)

	return content.FromLines(deletedLines)
}
