// Command goxpath evaluates XPath expressions against XML and HTML documents.
//
// Usage:
//
//	goxpath [flags] EXPR [FILE ...]
//	goxpath -repl [flags] [FILE]
//
// Without files the document is read from standard input. Gzip and zstd
// compressed input is detected automatically. Settings are read from
// .goxpath.yaml in the working directory, or from the file named by -config;
// flags override them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/document"
	"github.com/sandrolain/goxpath/pkg/evaluator"
	"github.com/sandrolain/goxpath/pkg/ext"
	"github.com/sandrolain/goxpath/pkg/types"
)

// varFlag collects repeated -var name=value flags.
type varFlag map[string]types.Value

func (v varFlag) String() string {
	pairs := make([]string, 0, len(v))
	for name, value := range v {
		pairs = append(pairs, name+"="+value.AsString())
	}
	return strings.Join(pairs, ",")
}

func (v varFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return errors.Errorf("expected name=value, got %q", s)
	}
	v[strings.TrimPrefix(name, "$")] = types.String(value)
	return nil
}

// app carries what the run modes share.
type app struct {
	cfg       *Config
	ev        *evaluator.Evaluator
	logger    *slog.Logger
	parseOpts []document.ParseOption
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("goxpath", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default "+DefaultConfigFile+" when present)")
	htmlFlag := fs.Bool("html", false, "parse documents as HTML")
	jsonFlag := fs.Bool("json", false, "print results as JSON")
	trimFlag := fs.Bool("trim", false, "drop whitespace-only text nodes")
	replFlag := fs.Bool("repl", false, "start an interactive session")
	watchFlag := fs.Bool("watch", false, "re-evaluate when the files change")
	debugFlag := fs.Bool("debug", false, "enable debug logging")
	extFlag := fs.String("ext", "", "comma-separated extension packs ("+strings.Join(ext.Names(), ", ")+") or all")
	vars := varFlag{}
	fs.Var(vars, "var", "bind a string variable, name=value (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "goxpath %s\n\n", goxpath.Version())
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  goxpath [flags] EXPR [FILE ...]")
		fmt.Fprintln(stderr, "  goxpath -repl [flags] [FILE]")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Cause(err) == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "goxpath:", err)
		return 1
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "html":
			cfg.HTML = *htmlFlag
		case "json":
			if *jsonFlag {
				cfg.Output = "json"
			} else {
				cfg.Output = "text"
			}
		case "trim":
			cfg.TrimWhitespace = *trimFlag
		case "ext":
			cfg.Extensions = splitList(*extFlag)
		case "debug":
			if *debugFlag {
				cfg.LogLevel = "debug"
			}
		}
	})

	a, err := newApp(cfg, vars, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "goxpath:", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *replFlag {
		if err := a.repl(fs.Args()); err != nil {
			fmt.Fprintln(stderr, "goxpath:", err)
			return 1
		}
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	query, files := fs.Arg(0), fs.Args()[1:]

	if *watchFlag {
		if len(files) == 0 {
			fmt.Fprintln(stderr, "goxpath: -watch needs at least one file")
			return 2
		}
		if err := a.watch(ctx, query, files); err != nil {
			fmt.Fprintln(stderr, "goxpath:", err)
			return 1
		}
		return 0
	}

	if err := a.evalFiles(query, files); err != nil {
		fmt.Fprintln(stderr, "goxpath:", err)
		return 1
	}
	return 0
}

func newApp(cfg *Config, vars map[string]types.Value, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	bindings := cfg.Bindings()
	for name, v := range vars {
		bindings[name] = v
	}

	opts := []evaluator.EvalOption{
		evaluator.WithLogger(logger),
		evaluator.WithDebug(cfg.Level() == slog.LevelDebug),
		evaluator.WithCaching(true),
		evaluator.WithVariables(bindings),
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, evaluator.WithMaxDepth(cfg.MaxDepth))
	}
	if len(cfg.Extensions) > 0 {
		names := cfg.Extensions
		if len(names) == 1 && names[0] == "all" {
			names = ext.Names()
		}
		extOpt, err := ext.ByName(names...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, extOpt)
	}

	return &app{
		cfg:    cfg,
		ev:     evaluator.New(opts...),
		logger: logger,
		parseOpts: []document.ParseOption{
			document.WithHTML(cfg.HTML),
			document.WithTrimWhitespace(cfg.TrimWhitespace),
		},
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// load reads the document at path, or standard input for "-".
func (a *app) load(path string) (*document.Document, error) {
	if path == "-" {
		doc, err := document.Read(a.stdin, a.parseOpts...)
		return doc, errors.Wrap(err, "read stdin")
	}
	return document.Load(path, a.parseOpts...)
}

// evalFiles evaluates query against every file, or standard input when
// there are none. Failures of single files do not stop the others; they are
// reported together.
func (a *app) evalFiles(query string, files []string) error {
	expr, err := a.ev.Compile(query)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		files = []string{"-"}
	}

	var merr *multierror.Error
	for _, file := range files {
		label := ""
		if len(files) > 1 {
			label = file
		}
		if err := a.evalFile(expr, file, label); err != nil {
			merr = multierror.Append(merr, errors.Wrap(err, file))
		}
	}
	return merr.ErrorOrNil()
}

func (a *app) evalFile(expr *types.Expression, file, label string) error {
	doc, err := a.load(file)
	if err != nil {
		return err
	}
	a.logger.Debug("document loaded", "file", file, "nodes", doc.Len())

	result, err := a.ev.Eval(expr, doc.Root())
	if err != nil {
		return err
	}
	return writeResult(a.stdout, a.cfg.Output, label, result)
}

// writeResult prints v. Text output prints scalars on one line and the
// string value of every node of a node-set on its own line, prefixed by
// label when one is given.
func writeResult(w io.Writer, format, label string, v types.Value) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		if label != "" {
			return enc.Encode(struct {
				File   string      `json:"file"`
				Result types.Value `json:"result"`
			}{label, v})
		}
		return enc.Encode(v)
	}

	prefix := ""
	if label != "" {
		prefix = label + ": "
	}
	nodes, ok := v.(types.Nodes)
	if !ok {
		_, err := fmt.Fprintln(w, prefix+v.AsString())
		return err
	}
	for _, n := range nodes.Set.All() {
		if _, err := fmt.Fprintln(w, prefix+n.StringValue()); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
