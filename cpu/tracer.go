package cpu

import (
	"fmt"
	"io"
)

// tracer writes one line of execution state per instruction, before the
// instruction runs.
type tracer struct {
	w io.Writer
}

func (t *tracer) write(c *CPU, def opdef) {
	fmt.Fprintf(t.w, "%04X  %s %-11s A:%02X X:%02X Y:%02X P:%s SP:%02X CYC:%d\n",
		c.PC, def.kind, def.mode, c.A, c.X, c.Y, c.P, c.SP, c.Cycles)
}
