package io

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ezrec/sim86/cpu"
)

// Dump is the final machine state of a run.
type Dump struct {
	Registers *cpu.RegisterFile
	Memory    *cpu.Memory
}

// Marshal writes the state to a file system: the raw memory as
// <name>.data and the register listing as <name>.txt. A directory
// component of name is created when missing.
func (dump *Dump) Marshal(filesys CreateFS, name string) (err error) {
	dir, base := path.Split(name)
	if len(base) == 0 || strings.HasPrefix(base, ".") {
		err = ErrDumpName
		return
	}

	dir = strings.TrimSuffix(dir, "/")
	if len(dir) != 0 {
		var subsys CreateFS
		subsys, err = filesys.Sub(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return
			}
			// Create the directory
			err = filesys.Mkdir(dir, 0755)
			if err != nil {
				return
			}
			subsys, err = filesys.Sub(dir)
			if err != nil {
				return
			}
		}
		filesys = subsys
	}

	err = dump.write(filesys, base+".data", func(file io.Writer) (err error) {
		_, err = file.Write(dump.Memory.Data)
		return
	})
	if err != nil {
		return
	}

	err = dump.write(filesys, base+".txt", func(file io.Writer) (err error) {
		_, err = io.WriteString(file, dump.Registers.String())
		return
	})

	return
}

func (dump *Dump) write(filesys CreateFS, name string, marshal func(file io.Writer) error) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = marshal(file)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	return
}
