package cpu

import (
	"fmt"
	"testing"
)

func TestADCDecimal(t *testing.T) {
	tests := []struct {
		a, m, cin uint8
		want      uint8
		n, v, z, c uint8
	}{
		// simple digit carry
		{a: 0x05, m: 0x05, cin: 0, want: 0x10, c: 0, z: 0},
		// wraps past 99, Z stays clear as the binary sum is not zero
		{a: 0x99, m: 0x01, cin: 0, want: 0x00, c: 1, n: 1, z: 0},
		// 58 + 46 + 1 = 105
		{a: 0x58, m: 0x46, cin: 1, want: 0x05, c: 1, n: 1, v: 1},
		// no adjustment needed
		{a: 0x12, m: 0x34, cin: 0, want: 0x46, c: 0},
		// Z reflects the binary sum: 7F + 80 + 1 is 0x00 in binary
		{a: 0x7F, m: 0x80, cin: 1, want: 0x66, c: 1, z: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02X+%02X+%d", tt.a, tt.m, tt.cin), func(t *testing.T) {
			cpu := loadCPUWith(t, fmt.Sprintf(`
0600: f8 69 %02x
fffc: 00 06
`, tt.m))
			cpu.A = tt.a
			runCycles(t, cpu, 2) // SED
			cpu.P.writeBit(pbitC, tt.cin == 1)

			runAndCheckState(t, cpu, 2,
				"A", tt.want,
				"Pn", tt.n,
				"Pv", tt.v,
				"Pz", tt.z,
				"Pc", tt.c,
			)
		})
	}
}

func TestSBCDecimal(t *testing.T) {
	tests := []struct {
		a, m, cin uint8
		want      uint8
		n, z, c   uint8
	}{
		// 46 - 12 = 34
		{a: 0x46, m: 0x12, cin: 1, want: 0x34, c: 1},
		// borrow across zero: 00 - 01 = 99
		{a: 0x00, m: 0x01, cin: 1, want: 0x99, c: 0, n: 1},
		// pending borrow consumed: 10 - 05 - 1 = 04
		{a: 0x10, m: 0x05, cin: 0, want: 0x04, c: 1},
		// flags are those of the binary subtraction
		{a: 0x20, m: 0x20, cin: 1, want: 0x00, c: 1, z: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02X-%02X-%d", tt.a, tt.m, 1-tt.cin), func(t *testing.T) {
			cpu := loadCPUWith(t, fmt.Sprintf(`
0600: f8 e9 %02x
fffc: 00 06
`, tt.m))
			cpu.A = tt.a
			runCycles(t, cpu, 2) // SED
			cpu.P.writeBit(pbitC, tt.cin == 1)

			runAndCheckState(t, cpu, 2,
				"A", tt.want,
				"Pn", tt.n,
				"Pz", tt.z,
				"Pc", tt.c,
			)
		})
	}
}

func TestDecimalFlagIgnoredByOtherOps(t *testing.T) {
	// only ADC and SBC look at D. INC and CMP stay binary.
	cpu := loadCPUWith(t, `
0010: 09
0600: f8 e6 10 c9 0a
fffc: 00 06
`)
	cpu.A = 0x0A
	runCycles(t, cpu, 2+5)
	runAndCheckState(t, cpu, 2,
		"Pz", uint8(1),
		"mem", "0010: 0a",
	)
}
