package io

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirFS(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	dir := DirFS(root)

	assert.NoError(dir.Mkdir("sub", 0755))

	sub, err := dir.Sub("sub")
	assert.NoError(err)

	file, err := sub.Create("hello.txt")
	assert.NoError(err)
	_, err = file.Write([]byte("hello"))
	assert.NoError(err)
	assert.NoError(file.Close())

	data, err := os.ReadFile(filepath.Join(root, "sub", "hello.txt"))
	assert.NoError(err)
	assert.Equal("hello", string(data))

	_, err = dir.Sub("missing")
	assert.ErrorIs(err, fs.ErrNotExist)

	_, err = sub.Sub("hello.txt")
	assert.ErrorIs(err, fs.ErrInvalid)

	_, err = dir.Create("../escape.txt")
	assert.ErrorIs(err, fs.ErrInvalid)

	assert.ErrorIs(dir.Mkdir("sub", 0755), fs.ErrExist)
}
