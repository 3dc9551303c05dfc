// Command synacorvm runs a Synacor Challenge program image to completion
// against standard input and standard output. It is the process entry
// point described in SPEC_FULL.md §6: it parses CLI flags, loads an image
// from a path or from stdin, wires stdin/stdout as the machine's I/O
// source/sink, and maps the result of the run to a process exit code.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/lilyball/synacorvm/logging"
	"github.com/lilyball/synacorvm/vm"
	"github.com/lilyball/synacorvm/vm/core"
)

// Exit codes. 0 is success; the rest distinguish fault kinds so a caller
// scripting this command can tell a decode error from a runtime one
// without scraping stderr.
const (
	exitOK = iota
	exitUsage
	exitDecodingFault
	exitSemanticFault
	exitIOFault
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	set := getopt.New()
	optImage := set.StringLong("image", 'i', "", "Path to the program image (default: read from stdin)")
	optLog := set.StringLong("log", 'l', "", "Log file (default: none; diagnostics still go to stderr)")
	optVerbose := set.BoolLong("verbose", 'v', "Mirror all log records to stderr, not just faults")
	optRegisters := set.BoolLong("registers", 'r', "On fault, dump registers and stack depth to stderr")
	optHelp := set.BoolLong("help", 'h', "Show this help and exit")
	set.SetParameters("[program]")
	if err := set.Getopt(args, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		set.PrintUsage(os.Stderr)
		return exitUsage
	}
	if *optHelp {
		set.PrintUsage(os.Stdout)
		fmt.Println()
		fmt.Println("End-of-input policy: when stdin is exhausted, the `in` instruction")
		fmt.Println("writes 0 to its target and execution continues, rather than faulting.")
		return exitOK
	}

	var logFile *os.File
	if *optLog != "" {
		f, err := os.Create(*optLog)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		defer f.Close()
		logFile = f
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelInfo)
	logger := slog.New(logging.NewHandler(logFile, &slog.HandlerOptions{Level: logLevel}, *optVerbose))

	imagePath := *optImage
	if imagePath == "" && set.NArgs() > 0 {
		imagePath = set.Arg(0)
	}

	var imageReader *os.File
	if imagePath == "" {
		imageReader = os.Stdin
	} else {
		f, err := os.Open(imagePath)
		if err != nil {
			logger.Error("opening program image", "error", err)
			return exitUsage
		}
		defer f.Close()
		imageReader = f
	}

	in := vm.NewReaderInput(os.Stdin)
	out := vm.NewWriterOutput(os.Stdout)
	machine := vm.NewMachine(in, out, nil)

	if err := vm.LoadImage(imageReader, &machine.State.Mem); err != nil {
		logger.Error("loading program image", "error", err)
		return exitUsage
	}
	logger.Info("loaded program", "path", imagePath)

	runErr := machine.Run()
	if runErr == nil {
		logger.Info("machine halted")
		return exitOK
	}

	var decodeFault *core.DecodingFault
	var semanticFault *core.SemanticFault
	var ioFault *core.IOFault
	var faultIP core.Word
	switch {
	case errors.As(runErr, &decodeFault):
		faultIP = decodeFault.IP
	case errors.As(runErr, &semanticFault):
		faultIP = semanticFault.IP
	case errors.As(runErr, &ioFault):
		faultIP = ioFault.IP
	}

	logger.Error("program fault", "error", runErr, "ip", faultIP)
	if *optRegisters {
		dumpRegisters(logger, machine.State)
	}

	switch {
	case decodeFault != nil:
		return exitDecodingFault
	case semanticFault != nil:
		return exitSemanticFault
	case ioFault != nil:
		return exitIOFault
	default:
		return exitSemanticFault
	}
}

// dumpRegisters logs the register bank and stack depth once, as a single
// structured record. This is the fault-diagnostic facility described in
// SPEC_FULL.md §9.1 that stands in for original_source/synacor/src/main.rs's
// on-failure register dump; unlike that original, it fires exactly once and
// offers no interactive follow-up, per the base spec's debugger non-goal.
func dumpRegisters(logger *slog.Logger, s *core.State) {
	logger.Error("register dump",
		"r0", s.Registers[0], "r1", s.Registers[1], "r2", s.Registers[2], "r3", s.Registers[3],
		"r4", s.Registers[4], "r5", s.Registers[5], "r6", s.Registers[6], "r7", s.Registers[7],
		"stackDepth", s.Stack.Len(),
	)
}
