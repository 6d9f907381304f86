package gist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractIDAcceptedForms(t *testing.T) {
	const short = "6cad326836d38bd3a7ae"
	const full = "f4f2c8f0d0e9f0a1b2c3d4e5f6a7b8c9"

	cases := map[string]string{
		"bare short id":      short,
		"bare full id":       full,
		"url with owner":     "https://gist.github.com/schacon/" + short,
		"url without owner":  "https://gist.github.com/" + full,
		"url no scheme":      "gist.github.com/schacon/" + short,
		"url trailing slash": "https://gist.github.com/schacon/" + short + "/",
		"url with fragment":  "https://gist.github.com/schacon/" + short + "#file-hello-rb",
		"url with query":     "https://gist.github.com/" + full + "?ts=1",
		"padded whitespace":  "  " + short + "  ",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := ExtractID(input)
			require.NoError(t, err)
			if len(id) == 20 {
				assert.Equal(t, short, id)
			} else {
				assert.Equal(t, full, id)
			}
		})
	}
}

func TestExtractIDRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"too short":          "deadbeef",
		"wrong length":       "6cad326836d38bd3a7ae99",
		"non-hex":            "6cad326836d38bd3a7zz",
		"uppercase hex":      "6CAD326836D38BD3A7AE",
		"unrelated url":      "https://github.com/schacon/repo",
		"gist url non-hex":   "https://gist.github.com/schacon/not-a-gist",
		"gist url deep path": "https://gist.github.com/a/b/6cad326836d38bd3a7ae",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractID(input)
			assert.ErrorIs(t, err, ErrInvalidIdentifier)
		})
	}
}

func TestExtractIDSameResultForAllForms(t *testing.T) {
	const id = "6cad326836d38bd3a7ae"
	forms := []string{
		id,
		"https://gist.github.com/schacon/" + id,
		"https://gist.github.com/" + id,
	}
	for _, form := range forms {
		got, err := ExtractID(form)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}
