package worker

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3, 2)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.True(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)

	require.False(t, p.Submit(func() {}))
	p.Stop()
}

func TestPoolDefaults(t *testing.T) {
	p := NewPool(0, -1)
	done := make(chan struct{})
	require.True(t, p.Submit(nil))
	require.True(t, p.Submit(func() { close(done) }))
	<-done
	p.Stop()
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	p := NewPool(1, 1)
	RemoveFile(p, path, log.New("test"))
	p.Stop()
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// pool 停止後同步刪除，檔案不存在不視為錯誤
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	RemoveFile(p, path, log.New("test"))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
	RemoveFile(nil, path, log.New("test"))
}

func TestRemoveFileLogsError(t *testing.T) {
	orig := removeFile
	t.Cleanup(func() { removeFile = orig })
	called := false
	removeFile = func(string) error { called = true; return errors.New("busy") }

	RemoveFile(nil, "x", log.New("test"))
	require.True(t, called)
}
