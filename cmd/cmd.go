package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rubiojr/sid/hash"
	"github.com/rubiojr/sid/preprocess"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// defaultExts are the file extensions picked up when a directory is
// given to `sid process`.
var defaultExts = []string{".c", ".h", ".cpp", ".hpp", ".cc", ".hh"}

// Execute runs the sid CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "sid",
		Usage:                  "Bake string identifiers into hashed integer constants",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `sid file.c` as shorthand for `sid process file.c`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				if _, err := os.Stat(cmd.Args().First()); err == nil {
					return processFiles(cmd.Args().Slice(), processOptions{
						marker: preprocess.DefaultMarker,
						hash:   hash.DJB2,
						exts:   defaultExts,
						jobs:   1,
					})
				}
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "process",
				Usage:     "Rewrite marker invocations in files or directories",
				ArgsUsage: "<file|dir>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "marker",
						Aliases: []string{"m"},
						Usage:   "Marker token to look for",
						Value:   preprocess.DefaultMarker,
					},
					&cli.StringFlag{
						Name:  "hash",
						Usage: "Hash algorithm: " + strings.Join(hash.Names(), ", "),
						Value: "djb2",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Destination path (single input file only; default: rewrite in place)",
					},
					&cli.StringSliceFlag{
						Name:    "ext",
						Aliases: []string{"e"},
						Usage:   "File extensions to pick up when walking directories",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Files processed in parallel",
						Value:   1,
					},
					&cli.BoolFlag{
						Name:    "check",
						Aliases: []string{"n"},
						Usage:   "Report what would change without writing anything",
					},
					&cli.BoolFlag{
						Name:  "collisions",
						Usage: "Fail when two different literals hash to the same value",
					},
					&cli.BoolFlag{
						Name:    "no-color",
						Aliases: []string{"C"},
						Usage:   "Disable ANSI color output",
					},
				},
				Action: processAction,
			},
			{
				Name:      "hash",
				Usage:     "Print the hash of each argument string",
				ArgsUsage: "<string>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "hash",
						Usage: "Hash algorithm: " + strings.Join(hash.Names(), ", "),
						Value: "djb2",
					},
				},
				Action: hashAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func hashAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: sid hash <string>...")
	}
	fn, ok := hash.ByName(cmd.String("hash"))
	if !ok {
		return fmt.Errorf("unknown hash algorithm %q (have: %s)",
			cmd.String("hash"), strings.Join(hash.Names(), ", "))
	}
	for _, arg := range cmd.Args().Slice() {
		fmt.Printf("%s  \"%s\"\n", hash.Format(hash.String(fn, arg)), arg)
	}
	return nil
}

type processOptions struct {
	marker     string
	hash       hash.Func
	output     string
	exts       []string
	jobs       int
	check      bool
	collisions bool
	noColor    bool
}

func processAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: sid process [flags] <file|dir>...")
	}
	fn, ok := hash.ByName(cmd.String("hash"))
	if !ok {
		return fmt.Errorf("unknown hash algorithm %q (have: %s)",
			cmd.String("hash"), strings.Join(hash.Names(), ", "))
	}
	exts := cmd.StringSlice("ext")
	if len(exts) == 0 {
		exts = defaultExts
	}
	return processFiles(cmd.Args().Slice(), processOptions{
		marker:     cmd.String("marker"),
		hash:       fn,
		output:     cmd.String("output"),
		exts:       exts,
		jobs:       int(cmd.Int("jobs")),
		check:      cmd.Bool("check"),
		collisions: cmd.Bool("collisions"),
		noColor:    cmd.Bool("no-color"),
	})
}

type fileResult struct {
	modified bool
	skipped  bool
	err      error
}

func processFiles(targets []string, opts processOptions) error {
	files, err := collectFiles(targets, opts.exts)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files found")
	}
	if opts.output != "" && len(files) != 1 {
		return fmt.Errorf("--output requires exactly one input file, got %d", len(files))
	}

	p := &preprocess.Preprocessor{Marker: opts.marker, Hash: opts.hash}
	if opts.collisions {
		p.Registry = preprocess.NewRegistry()
	}

	jobs := opts.jobs
	if jobs < 1 {
		jobs = 1
	}

	results := make([]fileResult, len(files))
	if jobs == 1 || len(files) == 1 {
		for i, f := range files {
			results[i] = processOne(p, f, opts)
		}
	} else {
		// Each file is an independent pass over its own buffers; the
		// only shared state is the mutex-guarded collision registry.
		work := make(chan int, len(files))
		for i := range files {
			work <- i
		}
		close(work)
		var wg sync.WaitGroup
		for range jobs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					results[i] = processOne(p, files[i], opts)
				}
			}()
		}
		wg.Wait()
	}

	colorOK, colorFail, colorReset := "\033[32m", "\033[31m", "\033[0m"
	if opts.noColor || os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(os.Stderr.Fd())) {
		colorOK, colorFail, colorReset = "", "", ""
	}

	verb, summary := "rewrote", "rewritten"
	if opts.check {
		verb, summary = "would rewrite", "would change"
	}
	rewritten, failed := 0, 0
	for i, r := range results {
		switch {
		case r.skipped:
			fmt.Fprintf(os.Stderr, "warning: %v (skipped)\n", r.err)
		case r.err != nil:
			fmt.Fprintf(os.Stderr, "%serror%s: %v\n", colorFail, colorReset, r.err)
			failed++
		case r.modified:
			fmt.Fprintf(os.Stderr, "%s %s\n", verb, files[i])
			rewritten++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d files, %s%d %s%s, %s%d failed%s\n",
			len(files), colorOK, rewritten, summary, colorReset, colorFail, failed, colorReset)
		return fmt.Errorf("%d file(s) failed", failed)
	}
	fmt.Fprintf(os.Stderr, "%d files, %s%d %s%s\n",
		len(files), colorOK, rewritten, summary, colorReset)
	return nil
}

// processOne preprocesses a single file. Unreadable sources are
// skipped so a multi-file run keeps going; malformed files fail.
func processOne(p *preprocess.Preprocessor, path string, opts processOptions) fileResult {
	out := opts.output
	if opts.check {
		out = ""
	} else if out == "" {
		out = path
	}
	modified, err := p.File(path, out)
	if err != nil {
		if errors.Is(err, preprocess.ErrSourceUnreadable) {
			return fileResult{skipped: true, err: err}
		}
		return fileResult{err: err}
	}
	return fileResult{modified: modified}
}

// collectFiles expands the target list: plain files are taken as-is,
// directories are walked recursively picking up files whose extension
// matches. Walk order is lexical, so output is deterministic.
func collectFiles(targets []string, exts []string) ([]string, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasExt(path, exts) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", target, err)
		}
	}
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
