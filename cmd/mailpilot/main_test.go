package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/entrhq/mailpilot/pkg/config"
	"github.com/entrhq/mailpilot/pkg/instruction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		instruction instruction.Instruction
		configFile  string
		quiet       bool
		version     bool
	}{
		{
			name:        "words joined",
			args:        []string{"send", "to", "a@b.c", "saying", "hi there"},
			instruction: "send to a@b.c saying hi there",
		},
		{
			name:        "flags before instruction",
			args:        []string{"-config", "m.yaml", "-quiet", "email", "to", "x@y.z"},
			instruction: "email to x@y.z",
			configFile:  "m.yaml",
			quiet:       true,
		},
		{
			name:    "version",
			args:    []string{"-version"},
			version: true,
		},
		{
			name: "no instruction",
			args: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, err := parseFlags(tt.args, &out)
			require.NoError(t, err)
			assert.Equal(t, tt.instruction, cfg.Instruction)
			assert.Equal(t, tt.configFile, cfg.ConfigFile)
			assert.Equal(t, tt.quiet, cfg.Quiet)
			assert.Equal(t, tt.version, cfg.ShowVersion)
			assert.Equal(t, ".env", cfg.EnvFile)
		})
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"-bogus"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "Usage: mailpilot")
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	got, err := initConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	cfg, err := config.Load(path, func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, config.WebmailGmail, cfg.Webmail.Provider)

	_, err = initConfig(path)
	assert.ErrorIs(t, err, config.ErrExists)
}

func TestWatchSignals_StopsRelayAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	var stopped chan<- os.Signal
	var errAtStop error
	var out bytes.Buffer
	done := make(chan struct{})

	go func() {
		watchSignals(sigChan, cancel, func(c chan<- os.Signal) {
			errAtStop = ctx.Err()
			stopped = c
		}, &out)
		close(done)
	}()

	sigChan <- syscall.SIGTERM

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watchSignals did not return")
	}
	assert.ErrorIs(t, errAtStop, context.Canceled)
	assert.Equal(t, (chan<- os.Signal)(sigChan), stopped)
	assert.Contains(t, out.String(), "Cancelling")
}
