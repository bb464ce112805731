// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --version, --verbose, --nonblocking, --config, --keys and an optional file argument

package main

import (
	"flag"
	"fmt"
	"io"
)

type cliArgs struct {
	version     bool
	verbose     bool
	nonblocking bool
	keys        bool
	config      string
	files       []string
}

func parseFlags(name string, argv []string, stderr io.Writer) (cliArgs, error) {
	var args cliArgs

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] [file]\n\n", name)
		fs.PrintDefaults()
	}

	fs.BoolVar(&args.version, "version", false, "Show version and exit")
	fs.BoolVar(&args.verbose, "verbose", false, "Debug logging (to log_file, or ~/.kilo-go/kilo-go.log)")
	fs.BoolVar(&args.nonblocking, "nonblocking", false, "Poll for input and redraw at the configured frame rate")
	fs.BoolVar(&args.keys, "keys", false, "Print decoded key names until Ctrl+Q or end of input")
	fs.StringVar(&args.config, "config", "", "Path to a config file (default: ~/.kilo-go and ./.kilo-go)")

	if err := fs.Parse(argv); err != nil {
		return cliArgs{}, err
	}
	args.files = fs.Args()
	if len(args.files) > 1 {
		return cliArgs{}, fmt.Errorf("at most one file may be given, got %d", len(args.files))
	}
	return args, nil
}

// file returns the file to view, or "" for an empty screen.
func (a cliArgs) file() string {
	if len(a.files) == 0 {
		return ""
	}
	return a.files[0]
}
