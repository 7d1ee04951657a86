package terminal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorArgs(t *testing.T) {
	args := editorArgs("/tmp/box.txt", 12, "/tmp/cursor")
	assert.Equal(t, "+12", args[0])
	assert.Equal(t, "-c", args[1])
	assert.Contains(t, args[2], "/tmp/cursor")
	assert.Equal(t, "/tmp/box.txt", args[len(args)-1])

	assert.Len(t, editorArgs("/tmp/box.txt", 0, "/tmp/cursor"), 3)
}

func TestEditorEnv(t *testing.T) {
	env := editorEnv([]string{"HOME=/h", "PATH=/usr/bin"}, "/opt/bin:/usr/bin")
	assert.Contains(t, env, "PATH=/opt/bin:/usr/bin")
	assert.NotContains(t, env, "PATH=/usr/bin")
	assert.Contains(t, env, "TERM=xterm-256color")

	kept := editorEnv([]string{"PATH=/usr/bin"}, "")
	assert.Contains(t, kept, "PATH=/usr/bin")
}

func TestResolveEditor_Absolute(t *testing.T) {
	assert.Equal(t, "/usr/local/bin/hx", resolveEditor("/usr/local/bin/hx"))
}

func TestManager_ExitCallback(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho editing\n"), 0o755))

	exited := make(chan int, 1)
	m := New(script, nil, func(line int) { exited <- line })
	t.Cleanup(m.Close)

	if err := m.OpenFile(filepath.Join(t.TempDir(), "box.txt"), 0); err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	select {
	case line := <-exited:
		assert.Equal(t, 0, line)
	case <-time.After(5 * time.Second):
		t.Fatal("editor exit not reported")
	}
	assert.False(t, m.IsRunning())
	assert.Error(t, m.Write("x"))
}
