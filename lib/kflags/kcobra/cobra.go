package kcobra

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/flatstore/objectfs/lib/kflags"
)

// FlagSet adapts a pflag.FlagSet to the kflags.FlagSet interface, so
// that flag consumers can be registered on a cobra command.
type FlagSet struct {
	*pflag.FlagSet
}

var _ kflags.FlagSet = &FlagSet{}

// Run executes the root command, turning errors into a proper exit
// status and - for usage errors - a help screen.
func Run(root *cobra.Command) {
	// Cobra expects argv without argv[0], without the path of the command.
	argv := os.Args
	if len(argv) >= 1 {
		argv = argv[1:]
	}
	root.SetArgs(argv)

	err := root.Execute()
	if err == nil {
		return
	}

	cmd, _, nerr := root.Find(argv)
	if nerr != nil {
		cmd = root
	}

	var ue *kflags.UsageError
	if errors.As(err, &ue) {
		root.Println(cmd.UsageString())
	}
	exit := 1
	var se *kflags.StatusError
	if errors.As(err, &se) {
		exit = se.Code
	}

	root.PrintErrf("ERROR: %s\n", err)
	os.Exit(exit)
}
