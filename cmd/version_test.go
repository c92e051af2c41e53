package cmd

import (
	"bytes"
	"testing"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/creativeprojects/imapstatus/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	setApp("1.2.3", "abcdef", "2024-01-01", "test")
	t.Cleanup(func() {
		setApp("", "", "", "")
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "imapstatus 1.2.3 compiled with")
}

func TestSelfUpdateLogsThroughTerminal(t *testing.T) {
	// the updater accepts the terminal logger
	var logger selfupdate.Logger = term.NewLogger(term.LevelDebug, "selfupdate")
	assert.NotNil(t, logger)
	assert.Equal(t, "imapstatus", repositoryName)
}
