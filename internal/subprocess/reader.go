package subprocess

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// LineFunc receives a complete line of output (without its trailing
// newline) from the child's stdout (fromStderr=false) or stderr
// (fromStderr=true). It runs on a reader goroutine, never on the
// caller's own goroutine, matching spec's "on each scheduler tick,
// available bytes are read and appended" — here delivered as soon as a
// full line is available rather than polled.
type LineFunc func(fromStderr bool, line string)

// ExitFunc is invoked once, after the child has exited and both output
// streams have reached EOF (spec's "end_of_file... waitpid").
type ExitFunc func(err error)

// Reader is SubprocessReader (spec §4.I): a running child process plus
// the non-blocking readers draining its output.
type Reader struct {
	mu       sync.Mutex
	cmd      *exec.Cmd
	ptmx     *os.File // set when Options.PTS
	stdinW   io.WriteCloser
	pid      int
	exited   bool
	exitErr  error
	onExit   ExitFunc
	waitOnce sync.Once
}

// Start forks Options.Command under `/bin/sh -c`, attaching either a
// pseudo-terminal (PTS) or plain pipes, and begins draining its output
// on background goroutines. onLine is called for every complete line;
// onExit once the child has exited and output is fully drained.
func Start(opts Options, onLine LineFunc, onExit ExitFunc) (*Reader, error) {
	cmd := exec.Command("/bin/sh", "-c", opts.Command)
	cmd.Dir = opts.Dir
	cmd.Env = buildEnvironment(opts)
	// setsid() detaches the child into its own session/process group
	// (spec §4.I "fork(); child setsid(), chdir(children_path) if
	// non-empty, dup2s, execve"), so Signal below can reach the whole
	// group rather than only the immediate /bin/sh.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	r := &Reader{cmd: cmd, onExit: onExit}

	if opts.PTS {
		ptmx, err := pty.Start(cmd)
		if err != nil {
			return nil, err
		}
		r.ptmx = ptmx
		r.stdinW = ptmx
		r.pid = cmd.Process.Pid

		var wg sync.WaitGroup
		wg.Add(1)
		go func() { defer wg.Done(); r.drain(ptmx, false, onLine) }()
		go r.waitFor(&wg)
		return r, nil
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	r.stdinW = stdin
	r.pid = cmd.Process.Pid

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); r.drain(stdout, false, onLine) }()
	go func() { defer wg.Done(); r.drain(stderr, true, onLine) }()
	go r.waitFor(&wg)

	return r, nil
}

func (r *Reader) drain(rd io.Reader, fromStderr bool, onLine LineFunc) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		onLine(fromStderr, scanner.Text())
	}
}

// waitFor blocks (after waiting, when wg is non-nil, for the drain
// goroutines to finish reading) until the child exits, then records
// its status and fires onExit exactly once.
func (r *Reader) waitFor(wg *sync.WaitGroup) {
	if wg != nil {
		wg.Wait()
	}
	err := r.cmd.Wait()

	r.waitOnce.Do(func() {
		r.mu.Lock()
		r.exited = true
		r.exitErr = err
		r.mu.Unlock()
		if r.onExit != nil {
			r.onExit(err)
		}
	})
}

// SendEOF signals end-of-input to the child: in PTS mode this writes the
// terminal's EOF control character (Ctrl-D, 0x04); otherwise it closes
// the write end of the stdin pipe (spec's "shutdown(WR)").
func (r *Reader) SendEOF() error {
	r.mu.Lock()
	w := r.stdinW
	r.mu.Unlock()
	if w == nil {
		return nil
	}
	if r.ptmx != nil {
		_, err := w.Write([]byte{0x04})
		return err
	}
	return w.Close()
}

// Write sends bytes to the child's stdin (or PTY master).
func (r *Reader) Write(p []byte) (int, error) {
	r.mu.Lock()
	w := r.stdinW
	r.mu.Unlock()
	if w == nil {
		return 0, io.ErrClosedPipe
	}
	return w.Write(p)
}

// Pid returns the child's process id.
func (r *Reader) Pid() int {
	return r.pid
}

// Exited reports whether the child has exited, and if so, its Wait
// error (nil for a clean zero exit).
func (r *Reader) Exited() (exited bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exited, r.exitErr
}

// ExitCode returns the child's exit code once Exited() is true, or -1
// if it hasn't exited or exited due to a signal.
func (r *Reader) ExitCode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exited {
		return -1
	}
	return r.cmd.ProcessState.ExitCode()
}

// Signal delivers sig to the child's process group (used to implement
// reload's SIGTERM-then-reload_after_exit sequence). Because Start put
// the child in its own session via setsid(), its pgid equals its pid, so
// negating the pid reaches any further descendants it forked, not just
// the immediate /bin/sh.
func (r *Reader) Signal(sig os.Signal) error {
	if r.cmd.Process == nil {
		return nil
	}
	if s, ok := sig.(syscall.Signal); ok {
		return unix.Kill(-r.pid, unix.Signal(s))
	}
	return r.cmd.Process.Signal(sig)
}

// Resize propagates a terminal size change to the child's PTY; a no-op
// when the child isn't attached to one.
func (r *Reader) Resize(rows, cols uint16) error {
	if r.ptmx == nil {
		return nil
	}
	return pty.Setsize(r.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}
