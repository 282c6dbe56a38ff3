package mem

import "testing"

func TestMapSliceMirroring(t *testing.T) {
	// 256 bytes of RAM mirrored across 4 pages.
	var m MemMap
	buf := make([]byte, 0x100)
	m.MapSlice(0x2000, 0x23FF, buf)

	m.Write8(0x2010, 0xAB)
	for _, addr := range []uint16{0x2010, 0x2110, 0x2210, 0x2310} {
		if got := m.Read8(addr); got != 0xAB {
			t.Errorf("$%04X = %02X, want AB", addr, got)
		}
	}

	// writing through a mirror lands in the same byte
	m.Write8(0x2310, 0xCD)
	if got := m.Read8(0x2010); got != 0xCD {
		t.Errorf("$2010 = %02X, want CD", got)
	}
}

func TestMapROMDiscardsWrites(t *testing.T) {
	var m MemMap
	rom := []byte{0xDE, 0xAD}
	padded := make([]byte, 0x100)
	copy(padded, rom)
	m.MapROM(0x8000, 0x80FF, padded)

	m.Write8(0x8000, 0x00)
	if got := m.Read8(0x8000); got != 0xDE {
		t.Errorf("$8000 = %02X after write to ROM, want DE", got)
	}
}

func TestUnmappedAccess(t *testing.T) {
	var m MemMap

	if got := m.Read8(0x1234); got != 0 {
		t.Errorf("unmapped read = %02X, want 0", got)
	}
	m.Write8(0x1234, 0xFF) // must not panic
	if got := m.Read8(0x1234); got != 0 {
		t.Errorf("unmapped read after write = %02X, want 0", got)
	}
}

func TestMapPanicsOnBadBounds(t *testing.T) {
	tests := []struct {
		name       string
		start, end uint16
	}{
		{"unaligned-start", 0x2001, 0x20FF},
		{"unaligned-end", 0x2000, 0x20FE},
		{"inverted", 0x3000, 0x20FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Map(%04X, %04X) did not panic", tt.start, tt.end)
				}
			}()
			var m MemMap
			m.MapSlice(tt.start, tt.end, make([]byte, 0x100))
		})
	}
}

func TestMapSlicePanicsOnOddSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("mapping a non power of 2 buffer did not panic")
		}
	}()
	var m MemMap
	m.MapSlice(0x2000, 0x20FF, make([]byte, 0xC0))
}

func TestNewRAMCoversAddressSpace(t *testing.T) {
	m, ram := NewRAM()
	if len(ram) != 0x10000 {
		t.Fatalf("RAM size = %d, want 65536", len(ram))
	}

	m.Write8(0xFFFF, 0x42)
	if ram[0xFFFF] != 0x42 {
		t.Errorf("write through the map did not reach the buffer")
	}
	ram[0x0000] = 0x24
	if got := m.Read8(0x0000); got != 0x24 {
		t.Errorf("$0000 = %02X, want 24", got)
	}
}

func TestReset(t *testing.T) {
	m, _ := NewRAM()
	m.Write8(0x0010, 0x55)
	m.Reset()

	if got := m.Read8(0x0010); got != 0 {
		t.Errorf("read after Reset = %02X, want 0", got)
	}
}
