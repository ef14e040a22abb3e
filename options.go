package proofmark

// Options are the proofreading toggles as plain data, for callers that load
// them from a file or carry them between layers.
type Options struct {
	SpaceTokens         bool // diff whitespace runs as their own tokens
	PreserveQuotes      bool // drop suggestions inside "quoted" text
	PreserveBlockquotes bool // drop suggestions inside > blockquotes
	PreservePunctuation bool // undo straight-to-smart punctuation swaps
}

type config struct {
	spaceTokens         bool
	preserveQuotes      bool
	preserveBlockquotes bool
	preservePunct       bool
	overlength          bool
}

type FuncOption func(*config)

func newConfig(o []FuncOption) config {
	var cfg config
	for _, f := range o {
		f(&cfg)
	}
	return cfg
}

// WithSpaceTokens diffs every whitespace run as its own token instead of
// attaching it to the preceding word.
func WithSpaceTokens() FuncOption {
	return func(o *config) {
		o.spaceTokens = true
	}
}

func WithPreserveQuotes() FuncOption {
	return func(o *config) {
		o.preserveQuotes = true
	}
}

func WithPreserveBlockquotes() FuncOption {
	return func(o *config) {
		o.preserveBlockquotes = true
	}
}

func WithPreservePunctuation() FuncOption {
	return func(o *config) {
		o.preservePunct = true
	}
}

// WithOverlength marks the revised text as cut off by the model's output limit.
func WithOverlength(overlength bool) FuncOption {
	return func(o *config) {
		o.overlength = overlength
	}
}

// WithOptions applies every toggle set in opts.
func WithOptions(opts Options) FuncOption {
	return func(o *config) {
		o.spaceTokens = opts.SpaceTokens
		o.preserveQuotes = opts.PreserveQuotes
		o.preserveBlockquotes = opts.PreserveBlockquotes
		o.preservePunct = opts.PreservePunctuation
	}
}
