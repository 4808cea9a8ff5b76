package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/xyproto/env/v2"

	crablang "github.com/abc401/crablang"
)

const (
	appName     = "crab"
	historyFile = ".crab_history"
	sourceExt   = ".crab"
	promptMain  = ">> "
	promptCont  = ".. "
)

var banner = fmt.Sprintf("CrabLang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", crablang.Version)

// noColor honors the NO_COLOR convention; any value disables ANSI output.
var noColor = env.Has("NO_COLOR")

func red(s string) string {
	if noColor {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func green(s string) string {
	if noColor {
		return s
	}
	return "\x1b[32m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "watch":
		os.Exit(cmdWatch(os.Args[2:]))
	case "version":
		fmt.Println(crablang.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`CrabLang %s (built %s)

Usage:
  %s run <file%s>              Run a program; the process exits with its code.
  %s repl                      Start the REPL.
  %s fmt [--check] [path ...]  Format file(s) or directories (default ".")
  %s watch <file%s>            Re-run the program whenever the file changes.
  %s version                   Print the compiled version

`, crablang.Version, crablang.BuildDate, appName, sourceExt, appName, appName, appName, sourceExt, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file%s>\n", appName, sourceExt)
		return 2
	}
	return runFile(args[0])
}

func runFile(file string) int {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	code, rerr := crablang.RunSource(filepath.Base(file), string(src))
	if rerr != nil {
		fmt.Fprintln(os.Stderr, red(rerr.Error()))
		return code
	}
	// The shell sees codes modulo 256; mask here so -4 surfaces as 252
	// instead of whatever os.Exit would make of a negative value.
	return code & 0xff
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	histPath := env.Str("CRAB_HISTFILE", filepath.Join(env.HomeDir(), historyFile))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := crablang.NewInterp()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		res, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(crablang.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		if res.Exited {
			// `exit` in the REPL terminates the session like a program.
			return int(res.Code) & 0xff
		}
		if res.HasValue {
			fmt.Println(green(fmt.Sprintf("%d", res.Value)))
		}
	}
}

// readByParseProbe collects lines until the buffer parses, or fails with a
// hard error (which evaluation will then report with a proper snippet).
// An incomplete-input diagnostic keeps the continuation prompt going.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := crablang.ParseInteractive(src)
		if perr == nil {
			return src, true
		}
		if crablang.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string) int {
	flags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	check := flags.Bool("check", false, "check format; exit 1 if any file would change")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := discoverSources(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	bad := 0
	for _, f := range files {
		changed, err := formatFile(f, *check)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}
		if changed {
			fmt.Println(f)
			bad++
		}
	}
	if *check && bad > 0 {
		return 1
	}
	return 0
}

// discoverSources expands each path to the source files beneath it; a path
// naming a file directly is taken as-is regardless of extension.
func discoverSources(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", appName, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == sourceExt {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%s: walking %s: %v", appName, p, err)
		}
	}
	return out, nil
}

// formatFile rewrites file in canonical form, or just reports in check mode.
// The return value says whether the content differed.
func formatFile(file string, checkOnly bool) (bool, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("%s: cannot read %s: %v", appName, file, err)
	}
	prog, perr := crablang.Parse(string(raw))
	if perr != nil {
		return false, crablang.WrapErrorWithName(perr, file, string(raw))
	}
	formatted := crablang.FormatProgram(prog)
	if formatted == string(raw) {
		return false, nil
	}
	if checkOnly {
		return true, nil
	}
	if err := os.WriteFile(file, []byte(formatted), 0o644); err != nil {
		return false, fmt.Errorf("%s: cannot write %s: %v", appName, file, err)
	}
	return true, nil
}

// -----------------------------------------------------------------------------
// watch
// -----------------------------------------------------------------------------

func cmdWatch(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s watch <file%s>\n", appName, sourceExt)
		return 2
	}
	file := args[0]

	rerun := func(path string) {
		fmt.Fprintf(os.Stderr, "%s\n", green(fmt.Sprintf("-- %s changed, rerunning --", path)))
		code := runFile(path)
		fmt.Fprintf(os.Stderr, "%s\n", green(fmt.Sprintf("-- exit %d --", code)))
	}

	w, err := newWatcher(rerun)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("%s: %v", appName, err)))
		return 1
	}
	defer w.Close()

	if err := w.AddFile(file); err != nil {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("%s: %v", appName, err)))
		return 1
	}

	rerun(file)
	w.Watch()
	return 0
}
