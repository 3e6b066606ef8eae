package io

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/sim86/cpu"
)

type bufferCloser struct {
	bytes.Buffer
}

func (bc *bufferCloser) Close() error {
	return nil
}

// memFS is an in-memory CreateFS.
type memFS struct {
	files map[string]*bufferCloser
	dirs  map[string]*memFS
}

func newMemFS() *memFS {
	return &memFS{
		files: map[string]*bufferCloser{},
		dirs:  map[string]*memFS{},
	}
}

func (mfs *memFS) Sub(name string) (sub CreateFS, err error) {
	dir, ok := mfs.dirs[name]
	if !ok {
		err = fs.ErrNotExist
		return
	}
	sub = dir
	return
}

func (mfs *memFS) Create(name string) (file io.WriteCloser, err error) {
	buff := &bufferCloser{}
	mfs.files[name] = buff
	file = buff
	return
}

func (mfs *memFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	mfs.dirs[name] = newMemFS()
	return
}

func TestDump(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu()
	cp.Registers.Set(cpu.REG_BX, 0x1234)
	cp.Registers.Ip = 14
	assert.NoError(cp.Memory.Write(0x100, cpu.WIDTH_WORD, 0xbeef))

	dump := &Dump{Registers: &cp.Registers, Memory: cp.Memory}

	mfs := newMemFS()
	err := dump.Marshal(mfs, "listing_0049")
	assert.NoError(err)

	data := mfs.files["listing_0049.data"]
	if assert.NotNil(data) {
		assert.Equal(cpu.MEMORY_SIZE, data.Len())
		assert.Equal([]byte{0xef, 0xbe}, data.Bytes()[0x100:0x102])
	}

	text := mfs.files["listing_0049.txt"]
	if assert.NotNil(text) {
		assert.Equal(cp.Registers.String(), text.String())
		assert.Contains(text.String(), "   bx: 0x1234\n")
		assert.Contains(text.String(), "   ip: 14\n")
	}

	// Directories are created on demand.
	err = dump.Marshal(mfs, "out/final")
	assert.NoError(err)
	if assert.NotNil(mfs.dirs["out"]) {
		assert.NotNil(mfs.dirs["out"].files["final.txt"])
		assert.NotNil(mfs.dirs["out"].files["final.data"])
	}

	assert.ErrorIs(dump.Marshal(mfs, "out/"), ErrDumpName)
	assert.ErrorIs(dump.Marshal(mfs, ".hidden"), ErrDumpName)
}

func TestDump_DirFS(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu()
	dump := &Dump{Registers: &cp.Registers, Memory: cp.Memory}

	root := t.TempDir()
	assert.NoError(dump.Marshal(DirFS(root), "state/run"))

	info, err := os.Stat(filepath.Join(root, "state", "run.data"))
	assert.NoError(err)
	if err == nil {
		assert.Equal(int64(cpu.MEMORY_SIZE), info.Size())
	}

	text, err := os.ReadFile(filepath.Join(root, "state", "run.txt"))
	assert.NoError(err)
	assert.Equal(cp.Registers.String(), string(text))
}

type failFS struct {
	memFS
}

func (ffs *failFS) Create(name string) (file io.WriteCloser, err error) {
	err = errors.New("create failed")
	return
}

func TestDump_Error(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu()
	dump := &Dump{Registers: &cp.Registers, Memory: cp.Memory}

	err := dump.Marshal(&failFS{memFS: *newMemFS()}, "run")
	assert.EqualError(err, "create failed")
}
