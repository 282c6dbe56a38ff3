package cpu

//go:generate go tool stringer -type=Mode -output=mode_string.go

// Mode is one of the 6502 addressing modes.
type Mode uint8

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// operand resolves mode against the operand bytes at PC, advancing PC past
// them. It returns the effective address and whether indexing crossed a page
// boundary (the condition for the one-cycle read penalty).
//
// Implied and Accumulator have no operand; the returned address is
// meaningless for them. For Relative the returned address is the branch
// target and crossed is computed against the instruction that follows the
// branch.
func (c *CPU) operand(mode Mode) (addr uint16, crossed bool) {
	switch mode {
	case Implied, Accumulator:

	case Immediate:
		addr = c.PC
		c.PC++

	case ZeroPage:
		addr = uint16(c.fetch8())

	case ZeroPageX:
		addr = uint16(c.fetch8() + c.X)

	case ZeroPageY:
		addr = uint16(c.fetch8() + c.Y)

	case Absolute:
		addr = c.fetch16()

	case AbsoluteX:
		base := c.fetch16()
		addr = base + uint16(c.X)
		crossed = pagecrossed(base, addr)

	case AbsoluteY:
		base := c.fetch16()
		addr = base + uint16(c.Y)
		crossed = pagecrossed(base, addr)

	case Indirect:
		// JMP ($xxFF) never carries into the next page when fetching the
		// target's high byte. Programs rely on it, so it is kept, bug and
		// all.
		addr = c.read16wrap(c.fetch16())

	case IndirectX:
		ptr := c.fetch8() + c.X
		addr = c.zpr16(ptr)

	case IndirectY:
		base := c.zpr16(c.fetch8())
		addr = base + uint16(c.Y)
		crossed = pagecrossed(base, addr)

	case Relative:
		off := int8(c.fetch8())
		addr = uint16(int16(c.PC) + int16(off))
		crossed = pagecrossed(c.PC, addr)
	}

	return addr, crossed
}

func pagecrossed(a, b uint16) bool {
	return 0xFF00&a != 0xFF00&b
}
