package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"kim/emu"
	"kim/emu/debugger"
)

// emuMain loads and runs a program image, directly or under the remote
// debugger when a port is given.
func emuMain(args Run) {
	cfg := emu.LoadConfigOrDefault()

	mach := emu.New()
	mach.StopOnBRK = cfg.Run.StopOnBRK

	if args.Trace != nil {
		defer args.Trace.Close()
		mach.CPU.SetTraceOutput(args.Trace)
	}

	addr := args.Addr
	if addr == 0 {
		addr = cfg.Run.LoadAddr
	}
	checkf(mach.LoadFile(args.ImagePath, addr), "failed to load image")

	debugAddr := cfg.Run.DebugAddr
	if args.Port != 0 {
		debugAddr = fmt.Sprintf(":%d", args.Port)
	}
	if debugAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		srv := debugger.NewServer(debugAddr, mach)
		checkf(srv.Serve(ctx), "emulation error")
		return
	}

	cycles, err := mach.Run(args.Cycles)
	checkf(err, "emulation error")

	fmt.Printf("%d cycles\n", cycles)
	fmt.Println(mach.CPU)
}
