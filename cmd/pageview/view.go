package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/gogpu/pageview"
)

var errQuit = errors.New("quit")

var viewCommands = []string{
	"goto", "next", "prev", "first", "last", "info", "draw",
	"invert", "stats", "cached", "help", "quit",
}

// viewer is the interactive page navigator.
type viewer struct {
	s      *pageview.Session
	out    io.Writer
	outDir string
	base   string
	invert bool
}

func cmdView(env *cmdEnv, args []string) error {
	var (
		common commonFlags
		outDir string
	)
	fs := newFlagSet(env, "view", &common)
	fs.StringVarP(&outDir, "out", "o", ".", "directory for pages written by draw")
	cfg, path, err := parseArgs(fs, &common, args)
	if err != nil {
		return err
	}
	setupLogging(env.stderr, cfg.Verbose)

	s, err := openSession(path, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	v := &viewer{
		s:      s,
		out:    env.stdout,
		outDir: outDir,
		base:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		invert: cfg.Invert,
	}
	fmt.Fprintf(v.out, "%s: %d pages. Type 'help' for commands.\n", path, s.PageCount())
	if s.PageCount() > 0 {
		v.exec("first")
	}

	if f, ok := env.stdin.(*os.File); ok && f == os.Stdin {
		return v.runLiner()
	}
	return v.runScanner(env.stdin)
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pageview_history")
}

func (v *viewer) runLiner() error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)
	if f, err := os.Open(historyFile()); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if path := historyFile(); path != "" {
			if f, err := os.Create(path); err == nil {
				_, _ = line.WriteHistory(f)
				f.Close()
			}
		}
	}()

	for {
		input, err := line.Prompt(v.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(v.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		if v.exec(input) {
			return nil
		}
	}
}

func (v *viewer) runScanner(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if v.exec(sc.Text()) {
			return nil
		}
	}
	return sc.Err()
}

func (v *viewer) prompt() string {
	return fmt.Sprintf("page %d/%d> ", v.s.CurrentPage()+1, v.s.PageCount())
}

// completer provides tab completion for commands.
func completer(line string) []string {
	var out []string
	for _, c := range viewCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// exec runs one command line and reports whether the viewer should exit.
// Command errors are printed, not returned.
func (v *viewer) exec(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	err := v.dispatch(strings.ToLower(parts[0]), parts[1:])
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		fmt.Fprintln(v.out, "error:", err)
	}
	return false
}

func (v *viewer) dispatch(cmd string, args []string) error {
	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		v.printHelp()
		return nil
	case "goto", "g":
		if len(args) != 1 {
			return errors.New("usage: goto <page>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad page %q", args[0])
		}
		return v.gotoPage(n - 1)
	case "next", "n":
		return v.gotoPage(v.s.CurrentPage() + 1)
	case "prev", "p":
		return v.gotoPage(v.s.CurrentPage() - 1)
	case "first":
		return v.gotoPage(0)
	case "last":
		return v.gotoPage(v.s.PageCount() - 1)
	case "info":
		v.printCurrent()
		return nil
	case "draw", "d":
		return v.draw(args)
	case "invert":
		v.invert = !v.invert
		fmt.Fprintf(v.out, "invert: %t\n", v.invert)
		return nil
	case "stats":
		v.printStats()
		return nil
	case "cached":
		fmt.Fprintf(v.out, "cached pages: %v\n", oneBased(v.s.CachedPages()))
		return nil
	default:
		return fmt.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}
}

func (v *viewer) gotoPage(n int) error {
	if n < 0 || n >= v.s.PageCount() {
		return fmt.Errorf("page %d out of range 1-%d", n+1, v.s.PageCount())
	}
	err := v.s.GotoPage(n)
	v.printCurrent()
	return err
}

func (v *viewer) printCurrent() {
	if v.s.CurrentPage() < 0 {
		fmt.Fprintln(v.out, "no current page")
		return
	}
	fmt.Fprintf(v.out, "page %d: %dx%d\n", v.s.CurrentPage()+1, v.s.CurrentPageWidth(), v.s.CurrentPageHeight())
}

func (v *viewer) draw(args []string) error {
	n := v.s.CurrentPage()
	if n < 0 {
		return errors.New("no current page")
	}
	name := filepath.Join(v.outDir, fmt.Sprintf("%s-%03d.png", v.base, n+1))
	if len(args) > 0 {
		name = args[0]
	}
	if err := renderToFile(v.s, n, v.invert, name); err != nil {
		return err
	}
	fmt.Fprintf(v.out, "wrote %s\n", name)
	return nil
}

func (v *viewer) printStats() {
	st := v.s.CacheStats()
	fmt.Fprintf(v.out, "cache: %d/%d pages, %d hits, %d misses, %d evictions, %d loads, hit rate %.0f%%\n",
		st.Len, st.Capacity, st.Hits, st.Misses, st.Evictions, st.Loads, st.HitRate()*100)
}

func (v *viewer) printHelp() {
	fmt.Fprintln(v.out, `Commands:
  goto <page>    Go to page (1-based)
  next, prev     Go to the next or previous page
  first, last    Go to the first or last page
  info           Show the current page size
  draw [file]    Render the current page to PNG
  invert         Toggle color inversion for draw
  stats          Show cache statistics
  cached         List cached pages
  quit           Exit`)
}

func oneBased(numbers []int) []int {
	out := make([]int, len(numbers))
	for i, n := range numbers {
		out[i] = n + 1
	}
	return out
}
