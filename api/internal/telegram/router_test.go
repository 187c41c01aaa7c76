package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePlayArgs(t *testing.T) {
	start, target, err := parsePlayArgs(" Test | Christmas ")
	require.NoError(t, err)
	require.Equal(t, "Test", start)
	require.Equal(t, "Christmas", target)
}

func TestParsePlayArgsRejectsBadInput(t *testing.T) {
	for _, args := range []string{"", "Test", "Test |", "| Christmas"} {
		_, _, err := parsePlayArgs(args)
		require.Error(t, err, "args %q", args)
	}
}

func TestEscNeutralizesMarkdown(t *testing.T) {
	require.Equal(t, "Lake\\_Vostok", esc("Lake_Vostok"))
	require.Equal(t, "C\\*-algebra", esc("C*-algebra"))
}
