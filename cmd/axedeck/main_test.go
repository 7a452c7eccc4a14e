package main

import (
	"bytes"
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/axedeck/internal/app"
)

func execute(t *testing.T, args ...string) (app.Options, string, error) {
	t.Helper()
	var got app.Options
	cmd := newRootCmd(func(_ context.Context, opts app.Options) error {
		got = opts
		return nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestRootFlags(t *testing.T) {
	opts, _, err := execute(t,
		"--devices", "10.0.0.5,10.0.0.6",
		"--poll", "10s",
		"--once",
		"--format", "markdown",
		"--mode", "focus",
		"--focus", "10.0.0.6",
		"--no-color",
	)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5,10.0.0.6", opts.Devices)
	assert.True(t, opts.DevicesSet)
	assert.True(t, opts.PollSet)
	assert.Equal(t, 10*time.Second, opts.Poll)
	assert.True(t, opts.Once)
	assert.Equal(t, "markdown", opts.Format)
	assert.Equal(t, "focus", opts.Mode)
	assert.Equal(t, "10.0.0.6", opts.Focus)
	assert.True(t, opts.NoColor)
}

func TestRootDefaults(t *testing.T) {
	opts, _, err := execute(t)
	require.NoError(t, err)
	assert.False(t, opts.DevicesSet)
	assert.False(t, opts.PollSet)
	assert.Equal(t, app.FormatPlain, opts.Format)
}

func TestEmptyDevicesFlagStillOverrides(t *testing.T) {
	opts, _, err := execute(t, "--devices", "")
	require.NoError(t, err)
	assert.True(t, opts.DevicesSet)
	assert.Empty(t, opts.Devices)
}

func TestRootRejects(t *testing.T) {
	_, _, err := execute(t, "--poll", "-1s")
	assert.ErrorContains(t, err, "must not be negative")

	_, _, err = execute(t, "--format", "markdown")
	assert.ErrorContains(t, err, "only applies with --once")

	_, _, err = execute(t, "extra-arg")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	orig := version
	defer func() { version = orig }()
	version = "1.2.3"

	_, out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "axedeck v1.2.3")
	assert.Contains(t, out, "go: "+runtime.Version())

	_, out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "v1.0.0", formatVersion("1.0.0"))
	assert.Equal(t, "v1.0.0", formatVersion("v1.0.0"))
	assert.Equal(t, "", formatVersion(""))
}
