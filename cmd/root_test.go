package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Help(t *testing.T) {
	cmd := rootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "server")
	assert.Contains(t, out.String(), "--config")
}

func TestServerCmd_MissingConfigFile(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"server", "--config", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestServerCmd_UnknownProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  type: giovanni\nlogging:\n  level: error\n"), 0o600))

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs([]string{"server", "--config", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider type")
	// cleanup still runs although RunE failed
	assert.True(t, a.closed)
}

func TestServerCmd_ListenFailureStillCloses(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("server:\n  host: 127.0.0.1\n  port: %d\nlogging:\n  level: error\n", port)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs([]string{"server", "--config", path})

	err = cmd.Execute()
	require.Error(t, err)
	assert.True(t, a.closed)
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	a := &app{}
	assert.NoError(t, a.close())
	assert.NoError(t, a.close())
	assert.True(t, a.closed)
}

func TestServerCmd_GracefulShutdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  host: 127.0.0.1\n  port: 18573\nlogging:\n  level: error\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cmd := rootCmd()
	cmd.SetArgs([]string{"server", "--config", path})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
