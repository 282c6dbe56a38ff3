package cpu

import (
	"fmt"
	"io"

	"kim/emu/log"
)

// Locations reserved for vector pointers.
const (
	NMIVector   = uint16(0xFFFA) // Non-Maskable Interrupt
	ResetVector = uint16(0xFFFC) // Reset
	IRQVector   = uint16(0xFFFE) // Interrupt Request / BRK
)

// Cycles consumed by servicing an interrupt or a reset.
const interruptCycles = 7

// Bus is the 64KB byte-addressable space the CPU executes against. Every
// 16-bit address is valid; what backs a given range (RAM, ROM, a mapped
// device) is entirely the implementation's business. The CPU never allocates
// memory itself.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// CPU emulates the MOS 6502: registers, documented instruction set, decimal
// mode and per-instruction cycle counts. Interrupt lines are polled at
// instruction boundaries only, there is no mid-instruction preemption.
//
// A CPU is not safe for concurrent use. Independent instances sharing
// nothing may run on independent goroutines.
type CPU struct {
	bus Bus

	// cpu registers
	A, X, Y, SP uint8
	PC          uint16
	P           P

	Cycles int64 // cycles since power-up

	// interrupt lines. nmi is edge triggered and latched until serviced,
	// irq is level triggered and held by the caller.
	nmi bool
	irq bool

	// operation executed by the most recent Step. An interrupt serviced
	// at the boundary preempts the instruction at PC, so this is not
	// necessarily what a pre-step peek at PC would decode to.
	lastKind Kind

	// Non-nil when execution tracing is enabled.
	tracer *tracer
}

// New creates a CPU at power-up state, executing against bus. Call Reset to
// load PC from the reset vector before stepping.
func New(bus Bus) *CPU {
	return &CPU{
		bus: bus,
		A:   0x00,
		X:   0x00,
		Y:   0x00,
		SP:  0xFD,
		P:   0x34,
		PC:  0x0000,
	}
}

// Reset puts the CPU back into its documented post-reset state: registers
// cleared, interrupt disable set, PC loaded from the reset vector. Unlike
// IRQ and NMI servicing, nothing is pushed on the stack. Reset wins over any
// pending interrupt: the NMI latch is dropped.
func (c *CPU) Reset() {
	c.A = 0x00
	c.X = 0x00
	c.Y = 0x00
	c.SP = 0xFD
	c.P = 0x34
	c.nmi = false
	c.lastKind = Illegal

	c.PC = c.read16(ResetVector)
	c.Cycles += interruptCycles
}

// AssertIRQ raises the level-triggered IRQ line. The line stays asserted,
// and keeps being serviced whenever the interrupt disable flag is clear,
// until DeassertIRQ.
func (c *CPU) AssertIRQ() { c.irq = true }

// DeassertIRQ releases the IRQ line.
func (c *CPU) DeassertIRQ() { c.irq = false }

// TriggerNMI latches one edge-triggered NMI request. The latch is consumed
// when the request is serviced, at the next instruction boundary.
func (c *CPU) TriggerNMI() { c.nmi = true }

// UnknownOpcodeError is the failure of a Step that fetched a byte with no
// documented instruction attached. PC is left on the offending opcode, so
// the address can be reported and stepping again is deterministic.
type UnknownOpcodeError struct {
	Opcode uint8
	Addr   uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// Step services at most one pending interrupt, then executes exactly one
// instruction, and returns the total cycles consumed. It never blocks; a
// caller-driven loop around Step can stop between any two calls.
func (c *CPU) Step() (int, error) {
	start := c.Cycles

	// Interrupts are only ever taken between instructions. NMI has priority
	// and its latch is consumed; IRQ stays pending as long as the caller
	// holds the line.
	if c.nmi {
		c.nmi = false
		c.interrupt(NMIVector)
	} else if c.irq && !c.P.I() {
		c.interrupt(IRQVector)
	}

	pc := c.PC
	opcode := c.bus.Read8(pc)
	def := optable[opcode]
	if def.kind == Illegal {
		log.ModCPU.DebugZ("illegal opcode").Hex8("opcode", opcode).Hex16("PC", pc).End()
		return 0, &UnknownOpcodeError{Opcode: opcode, Addr: pc}
	}

	if c.tracer != nil {
		c.tracer.write(c, def)
	}

	c.lastKind = def.kind
	c.PC++
	addr, crossed := c.operand(def.mode)

	c.Cycles += int64(def.cycles)
	if crossed && def.penalty {
		c.Cycles++
	}

	c.exec(def, addr, crossed)
	return int(c.Cycles - start), nil
}

// interrupt runs the IRQ/NMI servicing sequence: push PC and P (with the
// break flag clear), set interrupt disable, load PC from vector.
func (c *CPU) interrupt(vector uint16) {
	c.push16(c.PC)

	p := c.P
	p.clearBit(pbitB)
	p.setBit(pbitU)
	c.push8(uint8(p))

	c.P.setBit(pbitI)
	c.PC = c.read16(vector)
	c.Cycles += interruptCycles
}

// SetTraceOutput makes the CPU write one line of execution trace per
// instruction to w. Pass nil to disable tracing.
func (c *CPU) SetTraceOutput(w io.Writer) {
	if w == nil {
		c.tracer = nil
		return
	}
	c.tracer = &tracer{w: w}
}

/* bus access */

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read8(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.bus.Read8(addr)
	hi := c.bus.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// read16wrap reads a 16-bit value whose high byte never carries into the
// next page: reading at $xxFF takes the high byte from $xx00.
func (c *CPU) read16wrap(addr uint16) uint16 {
	lo := c.bus.Read8(addr)
	hi := c.bus.Read8((addr & 0xFF00) | uint16(uint8(addr)+1))
	return uint16(hi)<<8 | uint16(lo)
}

// zpr16 reads 16 bits from the zero page, handling page wrap.
func (c *CPU) zpr16(zp uint8) uint16 {
	lo := c.bus.Read8(uint16(zp))
	hi := c.bus.Read8(uint16(zp + 1))
	return uint16(hi)<<8 | uint16(lo)
}

// LastExecuted returns the operation the most recent Step executed, Illegal
// when nothing ran since the last reset. When an interrupt is serviced at
// the step boundary, it is the handler's first instruction, not whatever
// sat at the preempted PC.
func (c *CPU) LastExecuted() Kind {
	return c.lastKind
}

// String formats the register file on a single line.
func (c *CPU) String() string {
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X P:%s SP:%02X CYC:%d",
		c.PC, c.A, c.X, c.Y, c.P, c.SP, c.Cycles)
}

/* stack operations */

// The stack lives in page 1 and grows downward. SP wraps modulo 256 with no
// bounds checking, as on hardware.

func (c *CPU) push8(val uint8) {
	c.bus.Write8(0x0100+uint16(c.SP), val)
	c.SP--
}

func (c *CPU) push16(val uint16) {
	c.push8(uint8(val >> 8))
	c.push8(uint8(val & 0xFF))
}

func (c *CPU) pull8() uint8 {
	c.SP++
	return c.bus.Read8(0x0100 + uint16(c.SP))
}

func (c *CPU) pull16() uint16 {
	lo := c.pull8()
	hi := c.pull8()
	return uint16(hi)<<8 | uint16(lo)
}
