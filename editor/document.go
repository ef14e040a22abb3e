// Package editor runs proofreading commands against a host document: it sends
// a region to a provider, writes the suggestions back as markup, and accepts or
// rejects markup afterwards.
package editor

import (
	"errors"
	"strings"
)

var (
	ErrBusy         = errors.New("a proofreading request is already running")
	ErrStale        = errors.New("document changed while proofreading")
	ErrNoSuggestion = errors.New("no suggestion found")
	ErrRangeInvalid = errors.New("invalid range")
)

// Document is the host's view of one open text. Offsets are byte offsets into
// Text.
type Document interface {
	ID() string
	Text() string
	Cursor() int
	SetCursor(offset int)

	// Selection returns the selected range, if any.
	Selection() (start, end int, ok bool)

	Replace(start, end int, text string) error

	// Visible reports whether offset is inside the viewport.
	Visible(offset int) bool
	ScrollTo(offset int)
}

// Workspace reports which document currently has focus.
type Workspace interface {
	Active() Document
}

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Scope is the part of a document a command works on.
type Scope int8

const (
	ScopeDocument Scope = iota
	ScopeSelection
	ScopeParagraph
)

func (s Scope) String() string {
	switch s {
	case ScopeSelection:
		return "Selection"
	case ScopeParagraph:
		return "Paragraph"
	default:
		return "Document"
	}
}

// lineRange returns the line holding offset, without its line break.
func lineRange(text string, offset int) (start, end int) {
	offset = max(0, min(offset, len(text)))
	start = strings.LastIndexByte(text[:offset], '\n') + 1
	end = len(text)
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	return start, end
}

// region returns the selection, or the line holding the cursor when nothing or
// only an empty range is selected.
func region(doc Document) (start, end int, scope Scope) {
	if start, end, ok := doc.Selection(); ok && start != end {
		return start, end, ScopeSelection
	}
	start, end = lineRange(doc.Text(), doc.Cursor())
	return start, end, ScopeParagraph
}
