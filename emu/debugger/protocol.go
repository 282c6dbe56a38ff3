// Package debugger exposes a running machine to an external debugger
// process: a TCP service speaking newline-delimited JSON, one command per
// line in, one event per line out.
//
//	-> {"cmd":"state"}                        query registers
//	-> {"cmd":"pause"} / {"cmd":"resume"}     gate the step loop
//	-> {"cmd":"step"}                         one instruction while paused
//	-> {"cmd":"reset"}                        CPU reset
//	-> {"cmd":"irq"} / {"cmd":"irq-clear"}    drive the IRQ line
//	-> {"cmd":"nmi"}                          latch an NMI
//	<- {"event":"state","data":{...}}
//	<- {"event":"error","data":{"msg":"..."}}
//
// The interactive front end itself lives in a separate program; this side
// only carries CPU state across the wire.
package debugger

import (
	"fmt"

	"github.com/go-faster/jx"
)

// State is the register snapshot shipped to the debugger.
type State struct {
	A, X, Y, SP uint8
	P           uint8
	PC          uint16
	Cycles      int64
}

func stateEvent(st State) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("event", func(e *jx.Encoder) { e.Str("state") })
		e.Field("data", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("a", func(e *jx.Encoder) { e.UInt8(st.A) })
				e.Field("x", func(e *jx.Encoder) { e.UInt8(st.X) })
				e.Field("y", func(e *jx.Encoder) { e.UInt8(st.Y) })
				e.Field("sp", func(e *jx.Encoder) { e.UInt8(st.SP) })
				e.Field("p", func(e *jx.Encoder) { e.UInt8(st.P) })
				e.Field("pc", func(e *jx.Encoder) { e.UInt16(st.PC) })
				e.Field("cycles", func(e *jx.Encoder) { e.Int64(st.Cycles) })
			})
		})
	})
	return append(e.Bytes(), '\n')
}

func errorEvent(msg string) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("event", func(e *jx.Encoder) { e.Str("error") })
		e.Field("data", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("msg", func(e *jx.Encoder) { e.Str(msg) })
			})
		})
	})
	return append(e.Bytes(), '\n')
}

// parseCommand extracts the cmd value from one request line.
func parseCommand(line []byte) (string, error) {
	var cmd string
	d := jx.DecodeBytes(line)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "cmd":
			var err error
			cmd, err = d.Str()
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return "", err
	}
	if cmd == "" {
		return "", fmt.Errorf("request without cmd")
	}
	return cmd, nil
}
