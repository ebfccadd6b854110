// Command edge is a modal terminal text editor built around a
// composable transformation/undo engine and an embedded Lua expression
// language (spec §6). Grounded on keystorm's cmd/keystorm/main.go shape
// (os.Exit(run()), a sentinel quit error, SIGINT/SIGTERM shutdown via a
// background goroutine) but wired to this editor's own subsystems
// rather than keystorm's internal/app.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alefore/edge-sub003/internal/buffer"
	"github.com/alefore/edge-sub003/internal/defaultmode"
	"github.com/alefore/edge-sub003/internal/editor"
	"github.com/alefore/edge-sub003/internal/engine/content"
	"github.com/alefore/edge-sub003/internal/engine/line"
	"github.com/alefore/edge-sub003/internal/engine/marks"
	"github.com/alefore/edge-sub003/internal/input"
	"github.com/alefore/edge-sub003/internal/render"
	"github.com/alefore/edge-sub003/internal/script"
	"github.com/alefore/edge-sub003/internal/statefile"
	"github.com/alefore/edge-sub003/internal/subprocess"
)

var errQuit = errors.New("edge: clean quit")

func main() {
	os.Exit(run())
}

// stringList collects repeated occurrences of a flag into a slice
// (flag.Value), for --fork-command and --path-history (spec §6: both
// are written "[--flag v]*").
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type options struct {
	forkCommands []string
	pathHistory  []string
	args         []string
}

func parseFlags(argv []string) options {
	fs := flag.NewFlagSet("edge", flag.ExitOnError)
	var opts options
	fs.Var((*stringList)(&opts.forkCommands), "fork-command", "run a command in a forked buffer at startup (repeatable)")
	fs.Var((*stringList)(&opts.pathHistory), "path-history", "additional directory searched when resolving a relative path (repeatable)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: edge [--fork-command cmd]* [--path-history p]* paths...\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argv)
	opts.args = fs.Args()
	return opts
}

// edgePath returns the $EDGE_PATH search list (spec §6's "Filesystem
// layout"), colon-separated like $PATH. An unset or empty $EDGE_PATH
// means no per-user configuration directory exists; callers treat that
// as "skip state persistence/restore", not an error.
func edgePath() []string {
	raw := os.Getenv("EDGE_PATH")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ":")
}

// resolvePath finds what file a bare argument refers to: absolute paths
// and paths that exist relative to the working directory are used as
// given; otherwise each --path-history directory is tried in order,
// falling back to the working-directory-relative form so a new file can
// still be created there.
func resolvePath(raw string, searchDirs []string) string {
	if filepath.IsAbs(raw) {
		return raw
	}
	if _, err := os.Stat(raw); err == nil {
		return raw
	}
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, raw)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return raw
}

func run() int {
	opts := parseFlags(os.Args[1:])
	searchPath := edgePath()

	eng := script.NewEngine(script.EngineOptions{})
	defer eng.Close()
	script.RegisterLineColumn(eng)
	script.RegisterTransformation(eng)
	script.RegisterOpenBuffer(eng)

	marksTable := marks.NewTable()
	km := defaultmode.Build()
	e := editor.New(func(*editor.Editor, string) input.InputMode { return km.Mode })

	buffers, err := openBuffers(e, eng, marksTable, km, opts, searchPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "edge:", err)
		return 1
	}
	if len(buffers) == 0 {
		b := buffer.New(buffer.Options{Name: "*scratch*", Marks: marksTable})
		e.AddBuffer(b.Name, b)
		buffers = append(buffers, b)
	}

	for _, fc := range opts.forkCommands {
		if err := forkCommandBuffer(e, marksTable, fc); err != nil {
			fmt.Fprintln(os.Stderr, "edge: fork-command:", err)
		}
	}

	term, err := render.NewTerminal()
	if err != nil {
		fmt.Fprintln(os.Stderr, "edge:", err)
		return 1
	}
	defer term.Close()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		switch n := sig.(type) {
		case syscall.Signal:
			e.NotifySignal(int(n))
		}
		e.RequestExit(130)
	}()

	if err := eventLoop(e, term); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintln(os.Stderr, "edge:", err)
		return 1
	}

	if len(searchPath) > 0 {
		for _, b := range buffers {
			if b.Path == "" {
				continue
			}
			pos := b.Cursors.Active().Current()
			if err := statefile.Persist(searchPath, b, pos); err != nil {
				fmt.Fprintln(os.Stderr, "edge: persisting state:", err)
			}
		}
	}

	code, _ := e.ExitValue()
	return code
}

func eventLoop(e *editor.Editor, term *render.Terminal) error {
	if err := term.Draw(e); err != nil {
		return err
	}
	for {
		ev, err := term.ReadEvent()
		if err != nil {
			return err
		}
		e.ProcessInput(ev)
		e.RunPendingWork()

		if code, requested := e.ExitValue(); requested {
			_ = code
			return errQuit
		}

		redraw, _ := e.ConsumeRedraw()
		if redraw {
			if err := term.Draw(e); err != nil {
				return err
			}
		}
	}
}

func openBuffers(e *editor.Editor, eng *script.Engine, marksTable *marks.Table, km *defaultmode.Keymap, opts options, searchPath []string) ([]*buffer.Buffer, error) {
	var opened []*buffer.Buffer
	var initial *script.BufferHandle

	for _, arg := range opts.args {
		if strings.HasPrefix(arg, "+") {
			command := strings.TrimPrefix(arg, "+")
			if initial == nil {
				return opened, fmt.Errorf("command %q given before any buffer was opened", arg)
			}
			if err := eng.DoString(command); err != nil {
				fmt.Fprintln(os.Stderr, "edge: command error:", err)
			}
			continue
		}

		path := resolvePath(arg, opts.pathHistory)
		absPath, err := filepath.Abs(path)
		if err != nil {
			return opened, err
		}

		var c *content.Content
		if data, err := os.ReadFile(absPath); err == nil {
			c = content.FromString(string(data))
		}
		b := buffer.New(buffer.Options{Name: filepath.Base(absPath), Path: absPath, Contents: c, Marks: marksTable})
		e.AddBuffer(b.Name, b)
		opened = append(opened, b)

		save := func(buf *buffer.Buffer) error {
			return os.WriteFile(buf.Path, []byte(buf.Content.String()), 0644)
		}
		handle := script.NewBufferHandle(b, eng, km.Registry, save)
		script.PushBuffer(eng, "buffer", handle)
		if initial == nil {
			initial = handle
		}

		if len(searchPath) > 0 {
			if err := statefile.Restore(eng, searchPath, absPath); err != nil {
				fmt.Fprintln(os.Stderr, "edge: restoring state:", err)
			}
		}
	}
	return opened, nil
}

// forkCommandBuffer runs cmd as a subprocess whose stdout/stderr feed a
// new buffer named after the command, matching command_mode.cc's Fork
// command (spec's "--fork-command").
func forkCommandBuffer(e *editor.Editor, marksTable *marks.Table, cmd string) error {
	b := buffer.New(buffer.Options{Name: cmd, Marks: marksTable})
	e.AddBuffer(b.Name, b)

	_, err := subprocess.Start(subprocess.Options{Command: cmd}, func(fromStderr bool, text string) {
		_ = fromStderr
		b.Content.PushBack(line.New(text, nil))
	}, func(error) {})
	return err
}
