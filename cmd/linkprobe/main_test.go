package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/memerelay/config"
	"github.com/onnwee/memerelay/content"
)

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"X", " pinterest "})
	require.NoError(t, err)
	assert.Equal(t, []content.Kind{content.X, content.Pinterest}, kinds)

	_, err = parseKinds([]string{"tumblr"})
	assert.ErrorContains(t, err, "tumblr")
}

func TestEnable(t *testing.T) {
	cfg := &config.Config{ParsePikabu: true, ParseReddit: true, ParseX: true, ParsePinterest: true}
	enable(cfg, []content.Kind{content.Reddit})
	assert.Equal(t, []content.Kind{content.Reddit}, cfg.EnabledKinds())
}

func TestRootCmdRejectsUnsupportedText(t *testing.T) {
	t.Setenv("TEMP_DIR", t.TempDir())
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"https://example.com/nothing-here"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported link")
	assert.Empty(t, out.String())
}

func TestRootCmdDisabledPlatform(t *testing.T) {
	t.Setenv("TEMP_DIR", t.TempDir())
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--platforms", "pikabu", "https://x.com/user/status/1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported link")
}

func TestRootCmdRequiresOneArg(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(nil)
	assert.Error(t, cmd.Execute())
}
