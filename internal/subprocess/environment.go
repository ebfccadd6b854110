package subprocess

import (
	"bufio"
	"os"
	"strings"
)

// buildEnvironment composes the child's environment in the precedence
// spec'd by original_source's run_command_handler.cc: the parent
// process's environ, then entries from a per-command environment file,
// then caller-supplied overrides, each later source winning on conflict.
func buildEnvironment(opts Options) []string {
	merged := map[string]string{}
	order := []string{}

	set := func(entry string) {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return
		}
		if _, exists := merged[name]; !exists {
			order = append(order, name)
		}
		merged[name] = value
	}

	for _, e := range os.Environ() {
		set(e)
	}
	for _, e := range readEnvironmentFile(opts.CommandEnvironmentFile) {
		set(e)
	}
	for _, e := range opts.CallerEnvironment {
		set(e)
	}

	out := make([]string, 0, len(order))
	for _, name := range order {
		out = append(out, name+"="+merged[name])
	}
	return out
}

func readEnvironmentFile(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
