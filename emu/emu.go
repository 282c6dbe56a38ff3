// Package emu wires the CPU core to a memory map and runs it: a minimal
// machine around the 6502 for loading flat binary images and stepping them.
package emu

import (
	"errors"
	"fmt"
	"os"

	"kim/cpu"
	"kim/emu/log"
	"kim/mem"
)

// Machine is a 6502 wired to 64KB of RAM. The zero value is not usable,
// call New.
type Machine struct {
	CPU *cpu.CPU
	Mem *mem.MemMap
	RAM []byte

	// StopOnBRK makes Run return right after a BRK has been serviced.
	// Programs assembled for a bare machine end on BRK.
	StopOnBRK bool
}

func New() *Machine {
	m, ram := mem.NewRAM()
	return &Machine{
		CPU:       cpu.New(m),
		Mem:       m,
		RAM:       ram,
		StopOnBRK: true,
	}
}

// Load copies a flat binary image at org, points the reset vector at it and
// resets the CPU, leaving the machine ready to Run.
func (m *Machine) Load(image []byte, org uint16) error {
	if int(org)+len(image) > len(m.RAM) {
		return fmt.Errorf("image of %d bytes does not fit at $%04X", len(image), org)
	}
	copy(m.RAM[org:], image)

	m.RAM[cpu.ResetVector] = uint8(org & 0xFF)
	m.RAM[cpu.ResetVector+1] = uint8(org >> 8)
	m.CPU.Reset()

	log.ModEmu.InfoZ("image loaded").Int("size", len(image)).Hex16("org", org).End()
	return nil
}

// LoadFile is Load for an image read from disk.
func (m *Machine) LoadFile(path string, org uint16) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.Load(buf, org)
}

// StepOne executes a single instruction and reports whether the machine
// halted, either on a BRK with StopOnBRK set or on a decode failure. The
// halt decision comes from what the step actually executed: an interrupt
// serviced at the boundary defers whatever sat at PC, BRK included.
func (m *Machine) StepOne() (halted bool, err error) {
	if _, err := m.CPU.Step(); err != nil {
		return true, err
	}
	return m.StopOnBRK && m.CPU.LastExecuted() == cpu.BRK, nil
}

// Run steps the CPU until maxCycles have elapsed (0 means no budget), a BRK
// is executed with StopOnBRK set, or an instruction fails to decode. It
// returns the cycles consumed.
func (m *Machine) Run(maxCycles int64) (int64, error) {
	var total int64
	for maxCycles == 0 || total < maxCycles {
		n, err := m.CPU.Step()
		total += int64(n)
		if err != nil {
			var uerr *cpu.UnknownOpcodeError
			if errors.As(err, &uerr) {
				log.ModEmu.ErrorZ("execution halted").
					Hex8("opcode", uerr.Opcode).
					Hex16("PC", uerr.Addr).
					End()
			}
			return total, err
		}

		if m.StopOnBRK && m.CPU.LastExecuted() == cpu.BRK {
			break
		}
	}
	return total, nil
}
