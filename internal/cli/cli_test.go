package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

const museum = `City Museum Visitor Guide

The City Museum opens every day from nine in the morning until six in the evening. Late openings run on Thursdays until nine.

Adult tickets cost twelve euros. Students and seniors pay eight euros, and children under twelve enter for free.

The permanent collection covers regional history, from early settlements to the industrial era. Temporary exhibitions change every season.`

// run executes the root command with a config path that does not exist,
// so built-in defaults apply and nothing is written to the home directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		askJSON, chunksOverview = false, false
		cfgPath, logLevel = "", ""
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "museum.txt")
	require.NoError(t, os.WriteFile(path, []byte(museum), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	original := version
	version = "test-1.2.3"
	defer func() { version = original }()

	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "docqa version test-1.2.3")
}

func TestAskCmd_Text(t *testing.T) {
	out, err := run(t, "ask", writeDoc(t), "How much do adult tickets cost?")

	require.NoError(t, err)
	assert.Contains(t, out, "twelve euros")
	assert.Contains(t, out, "**Summary:**")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] Page 1 · ")
}

func TestAskCmd_JSON(t *testing.T) {
	out, err := run(t, "ask", "--json", writeDoc(t), "Give me a summary")
	require.NoError(t, err)

	var ans domain.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &ans))
	assert.Equal(t, domain.IntentSummary, ans.Intent)
	assert.Contains(t, ans.Text, "**Introduction**")
	assert.NotEmpty(t, ans.Sources)
}

func TestAskCmd_NotFound(t *testing.T) {
	out, err := run(t, "ask", writeDoc(t), "What is the capital of Mars?")

	require.NoError(t, err)
	assert.Contains(t, out, "was not found in")
	assert.Contains(t, out, "museum.txt")
}

func TestAskCmd_Errors(t *testing.T) {
	_, err := run(t, "ask", "only-one-arg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")

	_, err = run(t, "ask", filepath.Join(t.TempDir(), "missing.txt"), "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestAskCmd_BadLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "shouting", "ask", writeDoc(t), "hours?")

	assert.Error(t, err)
}

func TestChunksCmd(t *testing.T) {
	out, err := run(t, "chunks", "--overview", writeDoc(t))

	require.NoError(t, err)
	assert.Contains(t, out, "museum.txt: 4 chunks, 1 pages")
	assert.Contains(t, out, "#0")
	assert.Contains(t, out, "#3")
	assert.Contains(t, out, "Introduction")
}

func TestExplainCmd(t *testing.T) {
	out, err := run(t, "explain", "How", "do", "I", "renew", "the", "annual", "pass?")

	require.NoError(t, err)
	assert.Contains(t, out, "intent:  howto")
	assert.Contains(t, out, "singles: renew, annual, pass")
	assert.Contains(t, out, "annual pass")
}

func TestChatCmd_Flags(t *testing.T) {
	flag := chatCmd.Flags().Lookup("watch")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
	assert.Equal(t, "chat [file]", chatCmd.Use)
}

func TestRootPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("log-level"))
}
