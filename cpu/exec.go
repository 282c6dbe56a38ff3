package cpu

// exec runs the operation of def. addr is the resolved effective address
// (branch target for Relative, immediate byte location for Immediate);
// crossed is the resolver's page-crossing flag, which branches reuse for
// their own penalty.
func (c *CPU) exec(def opdef, addr uint16, crossed bool) {
	switch def.kind {
	case ADC:
		c.adc(c.bus.Read8(addr))
	case SBC:
		c.sbc(c.bus.Read8(addr))

	case AND:
		c.and(c.bus.Read8(addr))
	case ORA:
		c.ora(c.bus.Read8(addr))
	case EOR:
		c.eor(c.bus.Read8(addr))
	case BIT:
		c.bit(c.bus.Read8(addr))

	case ASL:
		c.rmw(def.mode, addr, c.asl)
	case LSR:
		c.rmw(def.mode, addr, c.lsr)
	case ROL:
		c.rmw(def.mode, addr, c.rol)
	case ROR:
		c.rmw(def.mode, addr, c.ror)

	case CMP:
		c.compare(c.A, c.bus.Read8(addr))
	case CPX:
		c.compare(c.X, c.bus.Read8(addr))
	case CPY:
		c.compare(c.Y, c.bus.Read8(addr))

	case INC:
		c.rmw(def.mode, addr, func(v uint8) uint8 { v++; c.P.checkNZ(v); return v })
	case DEC:
		c.rmw(def.mode, addr, func(v uint8) uint8 { v--; c.P.checkNZ(v); return v })
	case INX:
		c.X++
		c.P.checkNZ(c.X)
	case INY:
		c.Y++
		c.P.checkNZ(c.Y)
	case DEX:
		c.X--
		c.P.checkNZ(c.X)
	case DEY:
		c.Y--
		c.P.checkNZ(c.Y)

	case LDA:
		c.A = c.bus.Read8(addr)
		c.P.checkNZ(c.A)
	case LDX:
		c.X = c.bus.Read8(addr)
		c.P.checkNZ(c.X)
	case LDY:
		c.Y = c.bus.Read8(addr)
		c.P.checkNZ(c.Y)
	case STA:
		c.bus.Write8(addr, c.A)
	case STX:
		c.bus.Write8(addr, c.X)
	case STY:
		c.bus.Write8(addr, c.Y)

	case TAX:
		c.X = c.A
		c.P.checkNZ(c.X)
	case TAY:
		c.Y = c.A
		c.P.checkNZ(c.Y)
	case TXA:
		c.A = c.X
		c.P.checkNZ(c.A)
	case TYA:
		c.A = c.Y
		c.P.checkNZ(c.A)
	case TSX:
		c.X = c.SP
		c.P.checkNZ(c.X)
	case TXS:
		// the only transfer that touches no flag
		c.SP = c.X

	case PHA:
		c.push8(c.A)
	case PHP:
		// B and U read back as 1 when P goes through the stack
		p := c.P
		p.setBit(pbitB)
		p.setBit(pbitU)
		c.push8(uint8(p))
	case PLA:
		c.A = c.pull8()
		c.P.checkNZ(c.A)
	case PLP:
		c.plp()

	case BCC:
		c.branch(addr, crossed, !c.P.C())
	case BCS:
		c.branch(addr, crossed, c.P.C())
	case BNE:
		c.branch(addr, crossed, !c.P.Z())
	case BEQ:
		c.branch(addr, crossed, c.P.Z())
	case BPL:
		c.branch(addr, crossed, !c.P.N())
	case BMI:
		c.branch(addr, crossed, c.P.N())
	case BVC:
		c.branch(addr, crossed, !c.P.V())
	case BVS:
		c.branch(addr, crossed, c.P.V())

	case JMP:
		c.PC = addr
	case JSR:
		// return address is the last byte of the JSR instruction
		c.push16(c.PC - 1)
		c.PC = addr
	case RTS:
		c.PC = c.pull16() + 1

	case BRK:
		// the byte after BRK is padding, the pushed return address skips it
		c.PC++
		c.push16(c.PC)
		p := c.P
		p.setBit(pbitB)
		p.setBit(pbitU)
		c.push8(uint8(p))
		c.P.setBit(pbitI)
		c.PC = c.read16(IRQVector)
	case RTI:
		c.plp()
		c.PC = c.pull16()

	case CLC:
		c.P.clearBit(pbitC)
	case SEC:
		c.P.setBit(pbitC)
	case CLI:
		c.P.clearBit(pbitI)
	case SEI:
		c.P.setBit(pbitI)
	case CLD:
		c.P.clearBit(pbitD)
	case SED:
		c.P.setBit(pbitD)
	case CLV:
		c.P.clearBit(pbitV)

	case NOP:
	}
}

// rmw applies f to the accumulator or to the byte at addr, depending on the
// addressing mode.
func (c *CPU) rmw(mode Mode, addr uint16, f func(uint8) uint8) {
	if mode == Accumulator {
		c.A = f(c.A)
		return
	}
	c.bus.Write8(addr, f(c.bus.Read8(addr)))
}

// branch moves PC to target when cond holds. A taken branch costs one extra
// cycle, two when the target sits on another page than the instruction that
// follows the branch.
func (c *CPU) branch(target uint16, crossed, cond bool) {
	if !cond {
		return
	}
	c.Cycles++
	if crossed {
		c.Cycles++
	}
	c.PC = target
}

// add memory to accumulator with carry.
func (c *CPU) adc(val uint8) {
	if c.P.D() {
		c.adcBCD(val)
		return
	}
	sum := uint16(c.A) + uint16(val) + uint16(c.P.ibit(pbitC))
	c.P.checkCV(c.A, val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

// subtract memory from accumulator with borrow.
func (c *CPU) sbc(val uint8) {
	if c.P.D() {
		c.sbcBCD(val)
		return
	}
	// A - v - (1-C) == A + ^v + C
	sum := uint16(c.A) + uint16(^val) + uint16(c.P.ibit(pbitC))
	c.P.checkCV(c.A, ^val, sum)
	c.A = uint8(sum)
	c.P.checkNZ(c.A)
}

func (c *CPU) and(val uint8) {
	c.A &= val
	c.P.checkNZ(c.A)
}

func (c *CPU) ora(val uint8) {
	c.A |= val
	c.P.checkNZ(c.A)
}

func (c *CPU) eor(val uint8) {
	c.A ^= val
	c.P.checkNZ(c.A)
}

// test bits in memory with accumulator. N and V come straight from bits 7
// and 6 of the operand, not from the AND result.
func (c *CPU) bit(val uint8) {
	c.P &= 0b00111111
	c.P |= P(val & 0b11000000)
	c.P.checkZ(c.A & val)
}

// shift one bit left.
func (c *CPU) asl(val uint8) uint8 {
	carry := val & 0x80
	val <<= 1
	c.P.checkNZ(val)
	c.P.writeBit(pbitC, carry != 0)
	return val
}

// shift one bit right.
func (c *CPU) lsr(val uint8) uint8 {
	carry := val & 0x01
	val >>= 1
	c.P.checkNZ(val)
	c.P.writeBit(pbitC, carry != 0)
	return val
}

// rotate one bit left, the old carry enters bit 0.
func (c *CPU) rol(val uint8) uint8 {
	carry := val & 0x80
	val <<= 1
	val |= c.P.ibit(pbitC)
	c.P.checkNZ(val)
	c.P.writeBit(pbitC, carry != 0)
	return val
}

// rotate one bit right, the old carry enters bit 7.
func (c *CPU) ror(val uint8) uint8 {
	carry := val & 0x01
	val >>= 1
	val |= c.P.ibit(pbitC) << 7
	c.P.checkNZ(val)
	c.P.writeBit(pbitC, carry != 0)
	return val
}

// compare reg with val: the flags of reg-val without storing the result.
func (c *CPU) compare(reg, val uint8) {
	c.P.checkNZ(reg - val)
	c.P.writeBit(pbitC, val <= reg)
}

// plp restores P from the stack. B and U don't exist in the register, the
// popped bits are dropped.
func (c *CPU) plp() {
	const mask = 0b11001111
	p := c.pull8()
	c.P = P(uint8(c.P)&^uint8(mask) | p&mask)
}
