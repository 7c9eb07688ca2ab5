// Command synacore runs the VM implemented by package vm. It has two
// modes, selected by the first argument: "load" runs a fresh program
// image, "resume" continues from a snapshot file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/cgrinker/synacore/pkg/vm"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "load":
		err = runLoad(os.Args[2:])
	case "resume":
		err = runResume(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: synacore load <program-file> [-v] [-snapshot-on-exit <file>]")
	fmt.Fprintln(os.Stderr, "       synacore resume <snapshot-file> [-v] [-snapshot-on-exit <file>]")
	os.Exit(1)
}

func runLoad(args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	verbose := fs.Bool("v", false, "trace each instruction to stderr")
	crashFile := fs.String("snapshot-on-exit", "", "write a snapshot here before reporting a fault")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
	}

	fp, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer fp.Close()

	machine, err := vm.LoadProgram(fp)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return runMachine(machine, *verbose, *crashFile)
}

func runResume(args []string) error {
	fs := flag.NewFlagSet("resume", flag.ExitOnError)
	verbose := fs.Bool("v", false, "trace each instruction to stderr")
	crashFile := fs.String("snapshot-on-exit", "", "write a snapshot here before reporting a fault")
	fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
	}

	fp, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer fp.Close()

	machine, err := vm.Load(fp)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	return runMachine(machine, *verbose, *crashFile)
}

func runMachine(machine *vm.VM, verbose bool, crashFile string) error {
	con := vm.NewStdConsole(os.Stdout, os.Stdin)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		con.OnPrompt = func() { fmt.Fprint(os.Stderr, "> ") }
	}
	machine.Console = con

	if verbose {
		machine.Trace = func(pc uint16, mnemonic string) {
			fmt.Fprintf(os.Stderr, "%5d  %-24s %s\n", pc, mnemonic, machine)
		}
	}

	err := machine.Run(context.Background())
	con.Flush()
	if err == nil {
		return nil
	}

	var fault *vm.Fault
	if errors.As(err, &fault) && crashFile != "" {
		if werr := writeSnapshot(machine, crashFile); werr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write crash snapshot: %v\n", werr)
		} else {
			fmt.Fprintf(os.Stderr, "crash snapshot written to %s\n", crashFile)
		}
	}
	return err
}

func writeSnapshot(machine *vm.VM, path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	return machine.Save(fp)
}
