package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	require.Equal(t, "Next topic=Paris", StripCodeFences("```\nNext topic=Paris\n```"))
	require.Equal(t, "Next topic=Paris", StripCodeFences("```text\nNext topic=Paris\n```"))
	require.Equal(t, "plain", StripCodeFences("  plain  "))
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "abc", TruncateRunes("abc", 5))
	require.Equal(t, "ab…", TruncateRunes("abcdef", 2))
	require.Equal(t, "héllo", TruncateRunes("héllo", 5))
}
