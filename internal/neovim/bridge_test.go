package neovim

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_ReportsSaves(t *testing.T) {
	type change struct {
		target  Target
		content string
	}
	changes := make(chan change, 8)
	b, err := New(t.TempDir(), func(target Target, content string) {
		changes <- change{target, content}
	})
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	target := Target{SessionID: "s1", BoxID: "b1"}
	path, err := b.Open(target, "Abstract")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Abstract\n", string(data))

	require.NoError(t, os.WriteFile(path, []byte("Abstract\nBackground\n"), 0o644))

	// A truncating write may be observed half-way; wait for the final content.
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case c := <-changes:
			assert.Equal(t, target, c.target)
			done = c.content == "Abstract\nBackground"
		case <-deadline:
			t.Fatal("save not reported")
		}
	}

	final, err := b.Finish(target)
	require.NoError(t, err)
	assert.Equal(t, "Abstract\nBackground", final)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, "a", trimEOL("a\n"))
	assert.Equal(t, "a", trimEOL("a\r\n"))
	assert.Equal(t, "  a  ", trimEOL("  a  \n"))
	assert.Equal(t, "a\n", trimEOL("a\n\n"))
}
