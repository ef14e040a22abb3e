package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalafut/proofmark"
)

func TestDiffFlagsMerge(t *testing.T) {
	type TestCase struct {
		Name  string
		Flags DiffFlags
		Base  proofmark.Options
		Exp   proofmark.Options
	}

	on, off := true, false
	testCases := []TestCase{
		{
			Name: "empty",
		},
		{
			Name:  "flags only",
			Flags: DiffFlags{SpaceTokens: &on, PreserveQuotes: &on},
			Exp:   proofmark.Options{SpaceTokens: true, PreserveQuotes: true},
		},
		{
			Name:  "config kept when flag unset",
			Flags: DiffFlags{PreservePunctuation: &on},
			Base:  proofmark.Options{PreserveBlockquotes: true},
			Exp:   proofmark.Options{PreserveBlockquotes: true, PreservePunctuation: true},
		},
		{
			Name:  "flag turns a config toggle off",
			Flags: DiffFlags{PreserveBlockquotes: &off},
			Base:  proofmark.Options{PreserveBlockquotes: true, PreserveQuotes: true},
			Exp:   proofmark.Options{PreserveQuotes: true},
		},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprintf("Test case #%d, %s", i, tc.Name), func(t *testing.T) {
			assert.Equal(t, tc.Exp, tc.Flags.merge(tc.Base))
		})
	}
}

func TestOutputWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("A ==b== c."), 0o600))

	require.NoError(t, resolveFile(path, proofmark.Accept, true))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A b c.", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
