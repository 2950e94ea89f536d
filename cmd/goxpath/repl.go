package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/sandrolain/goxpath"
	"github.com/sandrolain/goxpath/pkg/document"
)

const (
	prompt      = "xpath> "
	historyFile = ".goxpath_history"
)

const replHelpText = `Commands:
  :load FILE   load a document (XML, HTML, gzip or zstd compressed)
  :doc         show the loaded document
  :funcs       list the available functions
  :json        toggle JSON output
  :help        show this help
  exit, quit   leave the session
Anything else is evaluated as an expression against the loaded document.`

var axisWords = []string{
	"ancestor::", "ancestor-or-self::", "attribute::", "child::", "descendant::",
	"descendant-or-self::", "following::", "following-sibling::", "namespace::",
	"parent::", "preceding::", "preceding-sibling::", "self::",
	"node()", "text()", "comment()", "processing-instruction()",
	"and", "or", "div", "mod",
}

// repl starts an interactive session with line editing, history and tab
// completion. The first file, if any, is loaded as the initial document.
func (a *app) repl(files []string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetWordCompleter(a.complete)

	histPath := filepath.Join(os.TempDir(), historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	s := &session{app: a, doc: document.New(), output: a.cfg.Output}
	if len(files) > 0 {
		s.command(":load " + files[0])
	}

	fmt.Fprintf(a.stdout, "goxpath %s\n", goxpath.Version())
	fmt.Fprintln(a.stdout, "Type ':help' for commands, Ctrl+D to quit")

	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(a.stdout, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(a.stdout)
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			return nil
		}
		line.AppendHistory(input)
		s.command(trimmed)
	}
}

// session is the mutable state of a REPL.
type session struct {
	app    *app
	doc    *document.Document
	source string
	output string
}

// command runs one line of input, reporting failures to the user.
func (s *session) command(input string) {
	out := s.app.stdout
	if !strings.HasPrefix(input, ":") {
		result, err := s.app.ev.EvalQuery(input, s.doc.Root())
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			return
		}
		if err := writeResult(out, s.output, "", result); err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		return
	}

	cmd, arg, _ := strings.Cut(input[1:], " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "load":
		if arg == "" {
			fmt.Fprintln(out, "usage: :load FILE")
			return
		}
		doc, err := s.app.load(arg)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			return
		}
		s.doc, s.source = doc, arg
		fmt.Fprintf(out, "loaded %s (%d nodes)\n", arg, doc.Len())
	case "doc":
		if s.source == "" {
			fmt.Fprintln(out, "no document loaded")
			return
		}
		fmt.Fprintf(out, "%s (%d nodes)\n", s.source, s.doc.Len())
	case "funcs":
		names := s.app.ev.Functions().Names()
		sort.Strings(names)
		fmt.Fprintln(out, strings.Join(names, " "))
	case "json":
		if s.output == "json" {
			s.output = "text"
		} else {
			s.output = "json"
		}
		fmt.Fprintln(out, "output:", s.output)
	case "help":
		fmt.Fprintln(out, replHelpText)
	default:
		fmt.Fprintf(out, "unknown command :%s (try :help)\n", cmd)
	}
}

// complete offers function names, axes and operators matching the word
// under the cursor.
func (a *app) complete(line string, pos int) (string, []string, string) {
	head, tail := line[:pos], line[pos:]
	start := strings.LastIndexAny(head, " /[(@,|=<>!+") + 1
	word := head[start:]
	if word == "" {
		return head, nil, tail
	}

	var matches []string
	for _, name := range a.ev.Functions().Names() {
		if strings.HasPrefix(name, word) {
			matches = append(matches, name+"(")
		}
	}
	for _, w := range axisWords {
		if strings.HasPrefix(w, word) {
			matches = append(matches, w)
		}
	}
	sort.Strings(matches)
	return head[:start], matches, tail
}
