package debugger

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"kim/emu"
	"kim/emu/log"
)

// Server runs a machine while exposing it on a TCP endpoint. The machine
// is stepped by the server goroutine; connection handlers only touch it
// under the server lock, between instructions.
type Server struct {
	addr string
	mach *emu.Machine

	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
	steps  int
}

func NewServer(addr string, mach *emu.Machine) *Server {
	s := &Server{addr: addr, mach: mach}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Serve listens on the server address and runs the machine until it halts,
// an error occurs or ctx is canceled. The machine starts paused so a
// debugger can attach before the first instruction.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	log.ModDbg.InfoZ("debugger listening").String("addr", ln.Addr().String()).End()

	s.paused = true

	// the group context only cancels on error; a machine halting normally
	// must unblock the accept loop too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		ln.Close()
		s.cond.Broadcast()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return s.run(ctx)
	})
	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			g.Go(func() error {
				s.handle(ctx, conn)
				return nil
			})
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// run is the machine step loop. It blocks while paused, consuming one
// pending single-step token per instruction when any are queued.
func (s *Server) run(ctx context.Context) error {
	for {
		s.mu.Lock()
		for s.paused && s.steps == 0 && ctx.Err() == nil {
			s.cond.Wait()
		}
		if ctx.Err() != nil {
			s.mu.Unlock()
			return ctx.Err()
		}
		if s.steps > 0 {
			s.steps--
		}
		halted, err := s.mach.StepOne()
		s.mu.Unlock()
		if err != nil {
			return err
		}
		if halted {
			log.ModDbg.Infof("machine halted")
			return nil
		}
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log.ModDbg.InfoZ("debugger attached").String("remote", conn.RemoteAddr().String()).End()

	context.AfterFunc(ctx, func() { conn.Close() })

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		cmd, err := parseCommand(sc.Bytes())
		var reply []byte
		if err != nil {
			reply = errorEvent(err.Error())
		} else {
			reply = s.apply(cmd)
		}
		if _, err := conn.Write(reply); err != nil {
			break
		}
	}
	log.ModDbg.Infof("debugger detached")
}

func (s *Server) apply(cmd string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.mach.CPU
	switch cmd {
	case "state":
	case "pause":
		s.paused = true
	case "resume":
		s.paused = false
		s.cond.Broadcast()
	case "step":
		if !s.paused {
			return errorEvent("step requires a paused machine")
		}
		s.steps++
		s.cond.Broadcast()
	case "reset":
		c.Reset()
	case "irq":
		c.AssertIRQ()
	case "irq-clear":
		c.DeassertIRQ()
	case "nmi":
		c.TriggerNMI()
	default:
		return errorEvent("unknown command " + cmd)
	}
	return stateEvent(State{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP,
		P:      uint8(c.P),
		PC:     c.PC,
		Cycles: c.Cycles,
	})
}
