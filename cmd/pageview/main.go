// Command pageview opens paginated documents with the pageview engines and
// renders their pages.
//
// Usage:
//
//	pageview info [flags] <file>      Print document and page geometry
//	pageview render [flags] <file>    Render pages to PNG files
//	pageview view [flags] <file>      Navigate pages interactively
//
// Flags shared by all commands:
//
//	-c, --config       HuJSON config file
//	    --dpi          Render resolution (default: 72)
//	    --cache-size   Pages kept loaded (default: 3)
//	    --invert       Invert rendered colors
//	    --password     Document password
//	-t, --type         MIME type (default: from file extension)
//	-v, --verbose      Log cache activity to stderr
//
// Config file keys: dpi, cache_size, invert, password, type, verbose.
// Flags override config values.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// command is one subcommand.
type command struct {
	name  string
	usage string
	short string
	run   func(env *cmdEnv, args []string) error
}

// cmdEnv carries the streams a command writes to.
type cmdEnv struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{name: "info", usage: "info [flags] <file>", short: "Print document and page geometry", run: cmdInfo},
	{name: "render", usage: "render [flags] <file>", short: "Render pages to PNG files", run: cmdRender},
	{name: "view", usage: "view [flags] <file>", short: "Navigate pages interactively", run: cmdView},
}

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}

// run dispatches args to a subcommand and returns the exit code.
func run(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	name := args[0]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(stdout)
		return 0
	}
	for _, c := range commands {
		if c.name != name {
			continue
		}
		env := &cmdEnv{stdin: stdin, stdout: stdout, stderr: stderr}
		err := c.run(env, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		default:
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
	}
	fmt.Fprintln(stderr, "error: unknown command:", name)
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pageview <command> [flags] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-24s %s\n", c.usage, c.short)
	}
}

// newFlagSet returns a flag set with the common flags registered.
func newFlagSet(env *cmdEnv, name string, common *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "Usage: pageview %s [flags] <file>\n\nFlags:\n", name)
		fs.PrintDefaults()
	}
	common.register(fs)
	return fs
}

// parseArgs parses flags and returns the resolved config and the document
// path.
func parseArgs(fs *flag.FlagSet, common *commonFlags, args []string) (Config, string, error) {
	if err := fs.Parse(args); err != nil {
		return Config{}, "", err
	}
	if fs.NArg() != 1 {
		return Config{}, "", errMissingDocPath
	}
	cfg, err := common.resolve(fs)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, fs.Arg(0), nil
}
