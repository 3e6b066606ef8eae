package io

import (
	"io"

	"github.com/ezrec/sim86/cpu"
)

// ROM_SIZE is the largest program image whose end a 16-bit IP can reach.
const ROM_SIZE = 0xffff

// Rom is a flat program image: no header, no relocation.
type Rom struct {
	Data []byte
}

// Unmarshal replaces the image with the contents of a reader.
func (rom *Rom) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(io.LimitReader(file, ROM_SIZE+1))
	if err != nil {
		return
	}

	if len(data) > ROM_SIZE {
		err = ErrRomTooLarge
		return
	}

	rom.Data = data

	return
}

// Marshal writes the image to a writer.
func (rom *Rom) Marshal(file io.Writer) (err error) {
	_, err = file.Write(rom.Data)

	return
}

// Len returns the image length, in bytes.
func (rom *Rom) Len() int {
	return len(rom.Data)
}

// Window returns a decode window at ip. Bytes past the end of the image
// read as zero; the image itself is never read past its end.
func (rom *Rom) Window(ip uint16) (window []byte) {
	window = make([]byte, cpu.MAX_INSTRUCTION_LENGTH)
	if int(ip) < len(rom.Data) {
		copy(window, rom.Data[ip:])
	}

	return
}
