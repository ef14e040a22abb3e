package proofmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteZones(t *testing.T) {
	assert.Equal(t, []zone{{2, 5}}, quoteZones(`a "b" c "d`))
	assert.Equal(t, []zone{{0, 3}, {4, 7}}, quoteZones(`"x" "y"`))

	// Quotes do not pair across lines.
	assert.Nil(t, quoteZones("\"a\nb\""))
}

func TestBlockquoteZones(t *testing.T) {
	text := "intro\n> quoted\n> more\n\nafter"
	assert.Equal(t, []zone{{6, 21}}, blockquoteZones(text))

	assert.Nil(t, blockquoteZones("no quotes\nhere"))
}

func TestProtectZones(t *testing.T) {
	script := Script{{Unchanged, `"`}, {Removed, "a"}, {Added, "b"}, {Unchanged, `" `}, {Removed, "c"}, {Added, "d"}}

	assert.Equal(t, `"a" ~~c~~==d==`, Encode(script, WithPreserveQuotes()).Text)
	assert.Equal(t, `"~~a~~==b==" ~~c~~==d==`, Encode(script).Text)

	// Rejecting the quoted change must not leave the old '=' to merge with
	// the next delimiter.
	script = Script{
		{Unchanged, `Say "`}, {Removed, "hi"}, {Added, "hello"},
		{Unchanged, `"=`}, {Added, "-"}, {Unchanged, " now"},
	}
	res := Encode(script, WithPreserveQuotes())
	assert.Equal(t, `Say "hi"= now`, Resolve(res.Text, Reject))
	assert.Zero(t, res.Dropped)

	res = Encode(script)
	assert.Equal(t, `Say "hi"= now`, Resolve(res.Text, Reject))
	assert.Equal(t, `Say "hello"=- now`, Resolve(res.Text, Accept))
	assert.True(t, res.Changed())
}
