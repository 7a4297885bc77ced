package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSource(t *testing.T) {
	out, err := FormatSource("x.go", []byte("package x\nfunc  F( ) int {return 1}\n"))
	require.NoError(t, err)
	assert.Equal(t, "package x\n\nfunc F() int { return 1 }\n", string(out))

	_, err = FormatSource("bad.go", []byte("package x\nfunc {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.go")
}

func TestWriteFormatSkipsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "a.go")
	src := []byte("package a\n\nvar X = 1\n")

	require.NoError(t, WriteFormat(path, src))
	info, err := os.Stat(path)
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	require.NoError(t, WriteFormat(path, src))
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "内容未变化时不应改写文件")
}
