package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"

	"github.com/kalafut/proofmark"
	"github.com/kalafut/proofmark/editor"
	"github.com/kalafut/proofmark/internal/config"
	"github.com/kalafut/proofmark/provider"
)

// DiffFlags override the config file's diff toggles. An unset flag keeps
// the file's value; --flag=false turns a toggle off.
type DiffFlags struct {
	SpaceTokens         *bool `help:"Diff whitespace runs as their own tokens."`
	PreserveQuotes      *bool `help:"Drop suggestions inside \"quoted\" text."`
	PreserveBlockquotes *bool `help:"Drop suggestions inside > blockquotes."`
	PreservePunctuation *bool `help:"Undo straight-to-smart punctuation swaps."`
}

func (f DiffFlags) merge(o proofmark.Options) proofmark.Options {
	set := func(dst *bool, flag *bool) {
		if flag != nil {
			*dst = *flag
		}
	}
	set(&o.SpaceTokens, f.SpaceTokens)
	set(&o.PreserveQuotes, f.PreserveQuotes)
	set(&o.PreserveBlockquotes, f.PreserveBlockquotes)
	set(&o.PreservePunctuation, f.PreservePunctuation)
	return o
}

var CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr."`

	Markup struct {
		BeforeFile string `arg type:"existingfile" help:"Original text."`
		AfterFile  string `arg type:"existingfile" help:"Revised text."`
		Overlength bool   `help:"The revised text was cut off by the model's output limit."`
		DiffFlags
	} `cmd help:"Render the changes from 'before' to 'after' as ==added== / ~~removed~~ markup."`

	Accept struct {
		File  string `arg type:"existingfile" help:"File with suggestions."`
		Write bool   `short:"w" help:"Write the result back to the file."`
	} `cmd help:"Accept every suggestion in a file."`

	Reject struct {
		File  string `arg type:"existingfile" help:"File with suggestions."`
		Write bool   `short:"w" help:"Write the result back to the file."`
	} `cmd help:"Reject every suggestion in a file."`

	Spans struct {
		File  string `arg type:"existingfile" help:"File with suggestions."`
		Width int    `default:"60" help:"Preview width in columns."`
	} `cmd help:"List the suggestions in a file."`

	Next struct {
		File   string `arg type:"existingfile" help:"File with suggestions."`
		Offset int    `help:"Byte offset to search from."`
		Mode   string `default:"accept" enum:"accept,reject" help:"accept or reject."`
		Write  bool   `short:"w" help:"Write the result back to the file."`
	} `cmd help:"Resolve the next suggestion at or after an offset."`

	Proofread struct {
		File     string `arg type:"existingfile" help:"File to proofread."`
		Document bool   `help:"Proofread the whole document after its frontmatter."`
		Line     int    `help:"Proofread one line (1-based)." default:"1"`
		Start    int    `help:"Selection start offset."`
		End      int    `help:"Selection end offset."`
		Write    bool   `short:"w" help:"Write the result back to the file."`
		Config   string `type:"path" help:"Config file. Defaults to <user config dir>/proofmark/config.toml."`
		Model    string `help:"Model id; overrides the config file."`
		DiffFlags
	} `cmd help:"Ask the model to proofread part of a file and insert its suggestions."`
}

func main() {
	ctx := kong.Parse(&CLI)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var err error
	switch ctx.Command() {
	case "markup <before-file> <after-file>":
		err = runMarkup()
	case "accept <file>":
		err = resolveFile(CLI.Accept.File, proofmark.Accept, CLI.Accept.Write)
	case "reject <file>":
		err = resolveFile(CLI.Reject.File, proofmark.Reject, CLI.Reject.Write)
	case "spans <file>":
		err = listSpans()
	case "next <file>":
		err = runNext(log)
	case "proofread <file>":
		err = runProofread(log)
	default:
		panic(ctx.Command())
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		os.Exit(1)
	}
}

func runMarkup() error {
	before, err := os.ReadFile(CLI.Markup.BeforeFile)
	if err != nil {
		return err
	}
	after, err := os.ReadFile(CLI.Markup.AfterFile)
	if err != nil {
		return err
	}

	opts := CLI.Markup.DiffFlags.merge(proofmark.Options{})
	res, err := proofmark.Markup(string(before), string(after),
		proofmark.WithOptions(opts), proofmark.WithOverlength(CLI.Markup.Overlength))
	if err != nil {
		return err
	}

	os.Stdout.WriteString(res.Text)
	fmt.Fprintf(os.Stderr, "%d changes\n", res.ChangeCount)
	return nil
}

func resolveFile(path string, mode proofmark.Mode, write bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return output(path, proofmark.Resolve(string(data), mode), write)
}

func listSpans() error {
	data, err := os.ReadFile(CLI.Spans.File)
	if err != nil {
		return err
	}

	buf := editor.NewBuffer(CLI.Spans.File, string(data))
	for sp := range proofmark.Spans(buf.Text()) {
		preview := strings.NewReplacer("\t", " ", "\r", "").Replace(sp.Inner)
		preview = runewidth.Truncate(preview, CLI.Spans.Width, "…")
		fmt.Printf("%s  %s  %s\n",
			runewidth.FillRight(buf.OffsetToPoint(sp.Start).String(), 9),
			runewidth.FillRight(sp.Kind.String(), 7),
			preview)
	}
	return nil
}

// workspace is a single open document.
type workspace struct {
	doc editor.Document
}

func (w workspace) Active() editor.Document { return w.doc }

func stderrNotifier() editor.Notifier {
	return editor.NotifierFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	})
}

func runNext(log *slog.Logger) error {
	mode, err := proofmark.ParseMode(CLI.Next.Mode)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(CLI.Next.File)
	if err != nil {
		return err
	}

	buf := editor.NewBuffer(CLI.Next.File, string(data), editor.WithCursor(CLI.Next.Offset))
	s := editor.NewSession(nil, workspace{buf}, stderrNotifier(), editor.WithLogger(log))

	state, err := s.NextSuggestion(buf, mode)
	if err != nil {
		return err
	}
	log.Debug("next suggestion", "state", state.String(), "cursor", buf.Cursor())
	return output(CLI.Next.File, buf.Text(), CLI.Next.Write)
}

func runProofread(log *slog.Logger) error {
	cmd := CLI.Proofread

	cfgPath := cmd.Config
	if cfgPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		cfgPath = filepath.Join(dir, "proofmark", "config.toml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cmd.Model != "" {
		cfg.Model = cmd.Model
	}

	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	model, err := registry.Lookup(provider.ModelID(cfg.Model))
	if err != nil {
		return err
	}
	prompt, err := cfg.PromptSpec().Text()
	if err != nil {
		return err
	}
	p, err := provider.NewOpenAI(provider.OpenAIConfig{
		Model:    model,
		APIKey:   cfg.ResolveAPIKey(os.Getenv),
		Endpoint: cfg.Endpoint,
		Prompt:   prompt,
	})
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	buf := editor.NewBuffer(cmd.File, string(data))
	s := editor.NewSession(p, workspace{buf}, stderrNotifier(),
		editor.WithLogger(log),
		editor.WithMarkupOptions(cmd.DiffFlags.merge(cfg.Options())),
		editor.WithOutputLimit(model.MaxOutputTokens),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var res proofmark.Result
	switch {
	case cmd.Document:
		res, err = s.ProofreadDocument(ctx, buf)
	case cmd.End > 0:
		if err := buf.Select(cmd.Start, cmd.End); err != nil {
			return fmt.Errorf("selection %d-%d: %w", cmd.Start, cmd.End, err)
		}
		res, err = s.Proofread(ctx, buf)
	default:
		buf.SetCursor(buf.PointToOffset(editor.Point{Line: cmd.Line - 1}))
		res, err = s.Proofread(ctx, buf)
	}
	if err != nil {
		return err
	}
	if !res.Changed() {
		return nil
	}
	return output(cmd.File, buf.Text(), cmd.Write)
}

// output writes text to path when write is set, and to stdout otherwise.
func output(path, text string, write bool) error {
	if !write {
		_, err := os.Stdout.WriteString(text)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), info.Mode().Perm()); err != nil {
		return errors.Join(fmt.Errorf("writing %s", path), err)
	}
	return nil
}
