package cpu

// Decimal mode arithmetic. With the D flag set, ADC and SBC treat both
// operands as packed BCD and adjust each nibble. The NMOS flag behavior is
// reproduced exactly: Z always reflects the plain binary result, N and V are
// taken before the high-nibble fixup, C is the decimal carry.
// See "Decimal mode in NMOS 6500 series" (6502.org) for the sequences.

func (c *CPU) adcBCD(val uint8) {
	carry := uint16(c.P.ibit(pbitC))
	bin := uint16(c.A) + uint16(val) + carry

	al := uint16(c.A&0x0F) + uint16(val&0x0F) + carry
	if al >= 0x0A {
		al = ((al + 0x06) & 0x0F) + 0x10
	}
	sum := uint16(c.A&0xF0) + uint16(val&0xF0) + al

	c.P.checkZ(uint8(bin))
	c.P.checkN(uint8(sum))
	c.P.writeBit(pbitV, (uint16(c.A)^sum)&(uint16(val)^sum)&0x80 != 0)

	if sum >= 0xA0 {
		sum += 0x60
	}
	c.P.writeBit(pbitC, sum >= 0x100)
	c.A = uint8(sum)
}

func (c *CPU) sbcBCD(val uint8) {
	carry := int16(c.P.ibit(pbitC))

	// all four flags are those of the binary subtraction
	bin := uint16(c.A) + uint16(^val) + uint16(carry)
	c.P.checkCV(c.A, ^val, bin)
	c.P.checkNZ(uint8(bin))

	al := int16(c.A&0x0F) - int16(val&0x0F) + carry - 1
	if al < 0 {
		al = ((al - 0x06) & 0x0F) - 0x10
	}
	diff := int16(c.A&0xF0) - int16(val&0xF0) + al
	if diff < 0 {
		diff -= 0x60
	}
	c.A = uint8(diff)
}
