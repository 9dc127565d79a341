package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchFileInvokesReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "webthing.yaml")
	require.NoError(t, os.WriteFile(file, []byte("port: 8888\n"), 0o644))

	reloaded := make(chan struct{}, 1)
	watcher, err := WatchFile(file, func() error {
		select {
		case reloaded <- struct{}{}:
		default:
		}
		return nil
	})
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(file, []byte("port: 9999\n"), 0o644))

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload callback was not invoked after file change")
	}
}
