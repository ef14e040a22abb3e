package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalafut/proofmark"
	"github.com/kalafut/proofmark/provider"
)

const overlengthNotice = "Text is longer than the maximum output supported by the AI Model.\n\n" +
	"Suggestions are thus only made until the cut-off point."

// Session runs proofreading commands. At most one proofreading request is in
// flight per Session; a second one is refused with ErrBusy.
type Session struct {
	provider  provider.Provider
	workspace Workspace
	notifier  Notifier

	opts        proofmark.Options
	outputLimit int
	log         *slog.Logger

	mu   sync.Mutex
	busy bool
}

type SessionOption func(*Session)

func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// WithMarkupOptions sets the toggles used when rendering suggestions.
func WithMarkupOptions(o proofmark.Options) SessionOption {
	return func(s *Session) {
		s.opts = o
	}
}

// WithOutputLimit sets the model's output token limit. Inputs estimated to
// exceed it get a warning before the request is sent.
func WithOutputLimit(tokens int) SessionOption {
	return func(s *Session) {
		s.outputLimit = tokens
	}
}

func NewSession(p provider.Provider, ws Workspace, n Notifier, opts ...SessionOption) *Session {
	s := &Session{
		provider:  p,
		workspace: ws,
		notifier:  n,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) notify(msg string) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

func (s *Session) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// Proofread proofreads the selection of doc, or the line holding the cursor
// when nothing is selected.
func (s *Session) Proofread(ctx context.Context, doc Document) (proofmark.Result, error) {
	start, end, scope := region(doc)
	return s.proofread(ctx, doc, scope, start, end)
}

// ProofreadDocument proofreads all of doc except its frontmatter.
func (s *Session) ProofreadDocument(ctx context.Context, doc Document) (proofmark.Result, error) {
	text := doc.Text()
	return s.proofread(ctx, doc, ScopeDocument, FrontmatterEnd(text), len(text))
}

// proofread replaces [start, end) of doc with suggestions. The document is
// left untouched on every error.
func (s *Session) proofread(ctx context.Context, doc Document, scope Scope, start, end int) (proofmark.Result, error) {
	if !s.acquire() {
		s.notify("A proofreading request is already running.")
		return proofmark.Result{}, ErrBusy
	}
	defer s.release()

	oldText := doc.Text()[start:end]
	log := s.log.With("doc", doc.ID(), "scope", scope.String())

	if err := proofmark.Validate(oldText); err != nil {
		switch {
		case errors.Is(err, proofmark.ErrEmptyInput):
			s.notify(fmt.Sprintf("%s is empty.", scope))
		case errors.Is(err, proofmark.ErrHasMarkup):
			s.notify(fmt.Sprintf("%s already has highlights or strikethroughs.\n\n"+
				"Please accept/reject the changes before making another proofreading request.", scope))
		}
		return proofmark.Result{}, err
	}

	estimate := provider.EstimateTokens(oldText)
	log.Debug("proofreading", "bytes", len(oldText), "estimated_tokens", estimate)
	if s.outputLimit > 0 && estimate > s.outputLimit {
		log.Warn("input likely exceeds output limit", "estimated_tokens", estimate, "limit", s.outputLimit)
	}

	s.notify(fmt.Sprintf("🤖 %s is being proofread…", scope))
	resp, err := s.provider.Proofread(ctx, oldText)
	if err != nil {
		log.Error("request failed", "err", err)
		if errors.Is(err, provider.ErrInvalidAPIKey) {
			s.notify("API key is not valid. Please verify the key in the settings.")
		} else {
			s.notify(fmt.Sprintf("Error: %v", err))
		}
		return proofmark.Result{}, err
	}
	log.Info("response", "input_tokens", resp.InputTokens, "output_tokens", resp.OutputTokens,
		"cost", resp.Cost, "overlength", resp.IsOverlength)

	// The document may have changed hands or content during the request.
	if err := ctx.Err(); err != nil {
		s.notify("Proofreading cancelled.")
		return proofmark.Result{}, err
	}
	if active := s.workspace.Active(); active == nil || active.ID() != doc.ID() {
		log.Warn("active document changed; aborting")
		s.notify("The active document changed during proofreading. Nothing was modified.")
		return proofmark.Result{}, ErrStale
	}
	if text := doc.Text(); end > len(text) || text[start:end] != oldText {
		log.Warn("proofread text was edited; aborting")
		s.notify("The text was edited during proofreading. Nothing was modified.")
		return proofmark.Result{}, ErrStale
	}

	res, err := proofmark.Markup(oldText, resp.NewText,
		proofmark.WithOptions(s.opts), proofmark.WithOverlength(resp.IsOverlength))
	if err != nil {
		s.notify(fmt.Sprintf("Error: %v", err))
		return proofmark.Result{}, err
	}
	if !res.Changed() {
		s.notify("✅ Text is good, nothing to change.")
		return res, nil
	}
	if res.Overlength {
		s.notify(overlengthNotice)
	}

	if err := doc.Replace(start, end, res.Text); err != nil {
		s.notify(fmt.Sprintf("Error: %v", err))
		return proofmark.Result{}, err
	}
	doc.SetCursor(start)

	s.notify(changesMade(res.ChangeCount))
	log.Info("suggestions inserted", "changes", res.ChangeCount)
	return res, nil
}

func changesMade(n int) string {
	if n == 1 {
		return "🤖 1 change made."
	}
	return fmt.Sprintf("🤖 %d changes made.", n)
}
