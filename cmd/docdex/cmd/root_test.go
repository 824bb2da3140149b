package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestParseGitHubSpec(t *testing.T) {
	src, err := parseGitHubSpec("golang/go")
	require.NoError(t, err)
	assert.Equal(t, "golang", src.Owner)
	assert.Equal(t, "go", src.Repo)
	assert.Empty(t, src.Ref)
	assert.Empty(t, src.Path)

	src, err = parseGitHubSpec("golang/go@release-branch.go1.25:doc")
	require.NoError(t, err)
	assert.Equal(t, "release-branch.go1.25", src.Ref)
	assert.Equal(t, "doc", src.Path)

	_, err = parseGitHubSpec("just-a-name")
	assert.Error(t, err)

	_, err = parseGitHubSpec("too/many/parts")
	assert.Error(t, err)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"search", "serve", "chunks", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docdex")
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"go_version"`)
}
