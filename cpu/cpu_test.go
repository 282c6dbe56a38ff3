package cpu

import (
	"errors"
	"testing"
)

func TestPowerUpState(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: ea
fffc: 00 06
`)
	runAndCheckState(t, cpu, 0,
		"PC", uint16(0x0600),
		"SP", uint8(0xFD),
		"P", uint8(0x34),
	)
}

func TestAddTwoNumbers(t *testing.T) {
	// LDA #$05 / ADC #$03 / STA $10
	cpu := loadCPUWith(t, `
0600: a9 05 69 03 85 10
fffc: 00 06
`)
	runAndCheckState(t, cpu, 2+2+3,
		"A", uint8(0x08),
		"PC", uint16(0x0606),
		"Pnzc", uint8(0),
		"mem", "0010: 08",
	)
}

func TestBRKPushesStateAndVectors(t *testing.T) {
	// BRK at $0600, handler at $8000 does nothing.
	cpu := loadCPUWith(t, `
0600: 00 ff
8000: ea
fffc: 00 06
fffe: 00 80
`)
	cpu.P = 0xA0 // N and U
	runAndCheckState(t, cpu, 7,
		"PC", uint16(0x8000),
		"SP", uint8(0xFA),
		"Pi", uint8(1),
		// return address is the byte after the BRK padding byte,
		// pushed status has B and U set.
		"mem", "01fb: b0 02 06",
	)
}

func TestRTIRestoresStateIgnoringBU(t *testing.T) {
	// handler at $8000 is a lone RTI. BRK pushed P with B set but the
	// pulled B and U bits are dropped, not copied into the register.
	cpu := loadCPUWith(t, `
0600: 00 ff ea
8000: 40
fffc: 00 06
fffe: 00 80
`)
	cpu.P = 0xA1 // N, U and C
	runAndCheckState(t, cpu, 7+6,
		"PC", uint16(0x0602),
		"SP", uint8(0xFD),
		"Pn", uint8(1),
		"Pc", uint8(1),
		"Pb", uint8(0),
	)
	if !cpu.P.bit(pbitU) {
		t.Errorf("U bit clear after RTI")
	}
}

func TestPHPPushesBAndU(t *testing.T) {
	// P never holds B or U, but both read as 1 in the byte PHP pushes.
	// The register itself is untouched.
	cpu := loadCPUWith(t, `
0600: 08
fffc: 00 06
`)
	cpu.P = 0x81 // N and C only
	runAndCheckState(t, cpu, 3,
		"SP", uint8(0xFC),
		"P", uint8(0x81),
		"mem", "01fd: b1",
	)
}

func TestStackWrapsAround(t *testing.T) {
	// 257 pushes leave SP exactly one position below where it started.
	cpu := loadCPUWith(t, `
fffc: 00 06
`)
	cpu.A = 0x42
	for i := 0; i < 257; i++ {
		cpu.push8(cpu.A)
	}
	if got, want := cpu.SP, uint8(0xFC); got != want {
		t.Errorf("SP = $%02X, want $%02X", got, want)
	}
	wantMem8(t, cpu, 0x0100, 0x42)
	wantMem8(t, cpu, 0x01FF, 0x42)
}

func TestUnknownOpcodeLeavesPC(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: 02
fffc: 00 06
`)
	_, err := cpu.Step()
	var uerr *UnknownOpcodeError
	if !errors.As(err, &uerr) {
		t.Fatalf("Step() error = %v, want UnknownOpcodeError", err)
	}
	if uerr.Opcode != 0x02 || uerr.Addr != 0x0600 {
		t.Errorf("got opcode $%02X at $%04X, want $02 at $0600", uerr.Opcode, uerr.Addr)
	}
	if cpu.PC != 0x0600 {
		t.Errorf("PC advanced to $%04X on unknown opcode", cpu.PC)
	}
}

func TestResetRetriggers(t *testing.T) {
	cpu := loadCPUWith(t, `
0600: a9 ff 18
fffc: 00 06
`)
	runCycles(t, cpu, 2)
	cpu.TriggerNMI()
	cpu.Reset()

	// a pending NMI does not survive reset
	runAndCheckState(t, cpu, 2,
		"A", uint8(0xFF),
		"PC", uint16(0x0602),
		"SP", uint8(0xFD),
	)
}
