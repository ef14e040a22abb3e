package editor

import (
	"fmt"

	"github.com/kalafut/proofmark"
)

// AcceptReject resolves every suggestion in the selection, or in the line
// holding the cursor, to the reading selected by mode. The cursor keeps its
// place in the surrounding text.
func (s *Session) AcceptReject(doc Document, mode proofmark.Mode) error {
	start, end, scope := region(doc)
	text := doc.Text()
	old := text[start:end]

	if proofmark.CountSpans(old) == 0 {
		s.notify(fmt.Sprintf("%s has no suggestions.", scope))
		return ErrNoSuggestion
	}

	cursor := doc.Cursor()
	resolved, rel := proofmark.ResolveCursor(old, mode, max(0, min(cursor-start, len(old))))
	switch {
	case cursor < start:
	case cursor > end:
		cursor -= len(old) - len(resolved)
	default:
		cursor = start + rel
	}

	if err := doc.Replace(start, end, resolved); err != nil {
		return err
	}
	doc.SetCursor(cursor)
	s.log.Debug("resolved region", "doc", doc.ID(), "scope", scope.String(), "mode", mode.String())
	return nil
}

// NavState is the outcome of one NextSuggestion call.
type NavState int8

const (
	// NavCursorOffscreen: the cursor was scrolled into view; nothing else
	// happened.
	NavCursorOffscreen NavState = iota
	// NavFoundOffscreen: the next suggestion was scrolled into view and the
	// cursor moved to it, unresolved.
	NavFoundOffscreen
	// NavResolved: the next suggestion was visible and got resolved.
	NavResolved
	// NavNotFound: no suggestion at or after the cursor.
	NavNotFound
)

func (n NavState) String() string {
	switch n {
	case NavCursorOffscreen:
		return "cursor-offscreen"
	case NavFoundOffscreen:
		return "found-offscreen"
	case NavResolved:
		return "resolved"
	default:
		return "not-found"
	}
}

// NextSuggestion resolves the suggestion at or after the cursor.
//
// A suggestion is only resolved once the user can see it: if the cursor or the
// suggestion is off screen, the first call scrolls to it and a second call
// resolves it.
func (s *Session) NextSuggestion(doc Document, mode proofmark.Mode) (NavState, error) {
	cursor := doc.Cursor()
	if !doc.Visible(cursor) {
		doc.ScrollTo(cursor)
		return NavCursorOffscreen, nil
	}

	text := doc.Text()
	sp, ok := proofmark.FindNext(text, cursor)
	if !ok {
		s.notify("No suggestions found after the cursor.")
		return NavNotFound, ErrNoSuggestion
	}

	if !doc.Visible(sp.Start) {
		doc.ScrollTo(sp.Start)
		doc.SetCursor(sp.Start)
		return NavFoundOffscreen, nil
	}

	ls, le := lineRange(text, sp.Start)
	local := sp
	local.Start -= ls
	local.End -= ls
	if err := doc.Replace(ls, le, proofmark.ResolveSpan(text[ls:le], local, mode)); err != nil {
		return NavNotFound, err
	}
	doc.SetCursor(sp.Start)
	return NavResolved, nil
}
