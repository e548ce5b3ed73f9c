// Package snapshot serializes a core as a flat image: the register cells
// in enumeration order, a state byte, then every memory byte.
//
// Layout:
//
//	"Z80S"  magic
//	uint8   version
//	[26]u8  register cells, cpu.Register order
//	uint8   state: bit 0 alternate bank, bit 1 halted
//	uint32  memory size, little-endian
//	[]u8    memory
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oisee/z80core/pkg/cpu"
)

const (
	magic   = "Z80S"
	Version = 1

	stateAlternate = 1 << 0
	stateHalted    = 1 << 1

	headerSize = len(magic) + 1 + int(cpu.RegisterCount) + 1 + 4
)

// Write encodes core to w.
func Write(w io.Writer, core *cpu.Core) error {
	size := core.Mem.Len()
	hdr := make([]byte, 0, headerSize)
	hdr = append(hdr, magic...)
	hdr = append(hdr, Version)
	cells := core.Regs.Cells()
	hdr = append(hdr, cells[:]...)

	var state uint8
	if core.Regs.Alternate() {
		state |= stateAlternate
	}
	if core.Regs.Halted() {
		state |= stateHalted
	}
	hdr = append(hdr, state)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(size))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(core.Mem.Bytes())
	return err
}

// Read decodes a snapshot into a new core.
func Read(r io.Reader) (*cpu.Core, error) {
	hdr := make([]byte, headerSize)
	if n, err := io.ReadFull(r, hdr); err != nil {
		return nil, ErrFormat{Offset: int64(n), Err: truncated(err)}
	}

	if string(hdr[:len(magic)]) != magic {
		return nil, ErrFormat{Offset: 0, Err: ErrBadMagic}
	}
	off := len(magic)
	if hdr[off] != Version {
		return nil, ErrFormat{Offset: int64(off), Err: ErrVersion}
	}
	off++

	cells := hdr[off : off+int(cpu.RegisterCount)]
	off += int(cpu.RegisterCount)
	state := hdr[off]
	off++

	size := binary.LittleEndian.Uint32(hdr[off:])
	if size > cpu.MaxMemorySize {
		return nil, ErrFormat{Offset: int64(off), Err: ErrTooLarge}
	}
	core, err := cpu.New(int(size))
	if err != nil {
		return nil, ErrFormat{Offset: int64(off), Err: err}
	}

	if n, err := io.ReadFull(r, core.Mem.Bytes()); err != nil {
		return nil, ErrFormat{Offset: int64(headerSize + n), Err: truncated(err)}
	}

	for i, v := range cells {
		core.Regs.SetCell(cpu.Register(i), v)
	}
	core.Regs.SetAlternate(state&stateAlternate != 0)
	core.Regs.SetHalted(state&stateHalted != 0)
	return core, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// Save writes core to the named file.
func Save(path string, core *cpu.Core) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(fh)
	if err = Write(w, core); err == nil {
		err = w.Flush()
	}
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads a core from the named file.
func Load(path string) (*cpu.Core, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	core, err := Read(bufio.NewReader(fh))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return core, nil
}
