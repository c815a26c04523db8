package main

import (
	"fmt"
	"text/tabwriter"
)

func cmdInfo(env *cmdEnv, args []string) error {
	var common commonFlags
	fs := newFlagSet(env, "info", &common)
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

	n := s.PageCount()
	fmt.Fprintf(env.stdout, "file:        %s\n", path)
	fmt.Fprintf(env.stdout, "pages:       %d\n", n)
	fmt.Fprintf(env.stdout, "resolution:  %d dpi\n", s.Resolution())

	tw := tabwriter.NewWriter(env.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "page\twidth\theight\tstatus")
	for i := 0; i < n; i++ {
		status := "ok"
		if err := s.GotoPage(i); err != nil {
			status = err.Error()
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", i+1, s.CurrentPageWidth(), s.CurrentPageHeight(), status)
	}
	return tw.Flush()
}
