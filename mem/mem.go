// Package mem provides the 64KB address space implementations backing the
// CPU bus: RAM and ROM regions assembled into a page-granular memory map.
package mem

import (
	"fmt"

	"kim/emu/log"
)

// Region8 is an 8-bit addressable range of the memory map.
type Region8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// MemMap is a 64KB byte-addressable space assembled from regions mapped at
// 256-byte page granularity. Reads from unmapped pages return 0, writes to
// unmapped pages are dropped; both are logged, neither is an error.
type MemMap struct {
	pages [256]Region8
}

func (m *MemMap) Read8(addr uint16) uint8 {
	r := m.pages[addr>>8]
	if r == nil {
		log.ModMem.DebugZ("read at unmapped address").Hex16("addr", addr).End()
		return 0
	}
	return r.Read8(addr)
}

func (m *MemMap) Write8(addr uint16, val uint8) {
	r := m.pages[addr>>8]
	if r == nil {
		log.ModMem.DebugZ("write at unmapped address").Hex16("addr", addr).Hex8("val", val).End()
		return
	}
	r.Write8(addr, val)
}

// Map maps a region over [start, end]. Both bounds must sit on page
// boundaries (start multiple of 256, end ending in 0xFF); mapping is a
// wiring error if they don't, so it panics.
func (m *MemMap) Map(start, end uint16, r Region8) {
	if start&0xFF != 0 || end&0xFF != 0xFF || end < start {
		panic(fmt.Sprintf("unaligned mapping [%04x-%04x]", start, end))
	}
	for page := start >> 8; page <= end>>8; page++ {
		m.pages[page] = r
	}
}

// MapSlice maps buf as RAM over [start, end]. len(buf) must be a power of
// two; a buffer smaller than the range is mirrored across it.
func (m *MemMap) MapSlice(start, end uint16, buf []byte) {
	m.Map(start, end, newRegion(start, buf, false))
}

// MapROM is MapSlice for read-only content: writes through the map are
// silently discarded.
func (m *MemMap) MapROM(start, end uint16, buf []byte) {
	m.Map(start, end, newRegion(start, buf, true))
}

// Reset unmaps everything.
func (m *MemMap) Reset() {
	m.pages = [256]Region8{}
}

// NewRAM returns a map backed by a single 64KB RAM buffer, and the buffer
// itself for direct access.
func NewRAM() (*MemMap, []byte) {
	buf := make([]byte, 0x10000)
	m := &MemMap{}
	m.MapSlice(0x0000, 0xFFFF, buf)
	return m, buf
}

// region is a block of bytes mapped at base. The mask mirrors a buffer
// smaller than the mapped range. ro regions drop writes.
type region struct {
	buf  []byte
	base uint16
	mask uint16
	ro   bool
}

func newRegion(base uint16, buf []byte, ro bool) *region {
	if len(buf)&(len(buf)-1) != 0 {
		panic("mapped buffer size must be a power of 2")
	}
	return &region{
		buf:  buf,
		base: base,
		mask: uint16(len(buf) - 1),
		ro:   ro,
	}
}

func (r *region) Read8(addr uint16) uint8 {
	return r.buf[(addr-r.base)&r.mask]
}

func (r *region) Write8(addr uint16, val uint8) {
	if r.ro {
		log.ModMem.DebugZ("write to read-only region").Hex16("addr", addr).Hex8("val", val).End()
		return
	}
	r.buf[(addr-r.base)&r.mask] = val
}
