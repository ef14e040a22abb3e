package editor

import (
	"fmt"
	"strings"
	"sync"
)

// Point is a zero-based line and byte column.
type Point struct {
	Line int
	Col  int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Col+1)
}

// Buffer is an in-memory Document. Its viewport is a window of whole lines;
// with no viewport set every offset is visible.
// All methods are thread-safe.
type Buffer struct {
	mu sync.RWMutex

	id     string
	text   string
	cursor int

	selStart, selEnd int
	hasSel           bool

	viewTop   int
	viewLines int
}

type BufferOption func(*Buffer)

// WithViewport shows lines [top, top+lines).
func WithViewport(top, lines int) BufferOption {
	return func(b *Buffer) {
		b.viewTop = top
		b.viewLines = lines
	}
}

// WithCursor places the cursor at offset.
func WithCursor(offset int) BufferOption {
	return func(b *Buffer) {
		b.cursor = offset
	}
}

func NewBuffer(id, text string, opts ...BufferOption) *Buffer {
	b := &Buffer{id: id, text: text}
	for _, opt := range opts {
		opt(b)
	}
	b.cursor = b.clamp(b.cursor)
	return b
}

func (b *Buffer) ID() string { return b.id }

func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

func (b *Buffer) Cursor() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

func (b *Buffer) SetCursor(offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clamp(offset)
	b.hasSel = false
}

// Select selects [start, end) and puts the cursor at start.
func (b *Buffer) Select(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || end < start || end > len(b.text) {
		return ErrRangeInvalid
	}
	b.selStart, b.selEnd, b.hasSel = start, end, true
	b.cursor = start
	return nil
}

func (b *Buffer) Selection() (int, int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selStart, b.selEnd, b.hasSel
}

// Replace replaces [start, end) with text. The selection is dropped and a
// cursor after the range moves with the text.
func (b *Buffer) Replace(start, end int, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if start < 0 || end < start || end > len(b.text) {
		return ErrRangeInvalid
	}

	b.text = b.text[:start] + text + b.text[end:]
	if b.cursor >= end {
		b.cursor += len(text) - (end - start)
	} else if b.cursor > start {
		b.cursor = start
	}
	b.hasSel = false
	return nil
}

func (b *Buffer) Visible(offset int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.viewLines <= 0 {
		return true
	}
	line := b.offsetToPoint(offset).Line
	return line >= b.viewTop && line < b.viewTop+b.viewLines
}

// ScrollTo moves the viewport so the line holding offset is its first line,
// unless it is already visible.
func (b *Buffer) ScrollTo(offset int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.viewLines <= 0 {
		return
	}
	line := b.offsetToPoint(offset).Line
	if line < b.viewTop || line >= b.viewTop+b.viewLines {
		b.viewTop = line
	}
}

// ViewTop returns the first visible line.
func (b *Buffer) ViewTop() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewTop
}

// LineRange returns the line holding offset, without its line break.
func (b *Buffer) LineRange(offset int) (start, end int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineRange(b.text, offset)
}

func (b *Buffer) OffsetToPoint(offset int) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.offsetToPoint(offset)
}

// PointToOffset converts p to an offset. Columns past the end of the line
// clamp to the line end and lines past the end clamp to the text end.
func (b *Buffer) PointToOffset(p Point) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := 0
	for line := 0; line < p.Line; line++ {
		i := strings.IndexByte(b.text[start:], '\n')
		if i < 0 {
			return len(b.text)
		}
		start += i + 1
	}
	_, end := lineRange(b.text, start)
	return start + max(0, min(p.Col, end-start))
}

func (b *Buffer) offsetToPoint(offset int) Point {
	offset = b.clamp(offset)
	line := strings.Count(b.text[:offset], "\n")
	start := strings.LastIndexByte(b.text[:offset], '\n') + 1
	return Point{Line: line, Col: offset - start}
}

func (b *Buffer) clamp(offset int) int {
	return max(0, min(offset, len(b.text)))
}
