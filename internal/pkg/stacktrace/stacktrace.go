package stacktrace

import "strings"

// InternalPaths returns the "internal/<pkg>/<file>.go:<line>" frames of a raw
// stack trace as produced by runtime/debug.Stack, dropping runtime and
// third-party frames.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		frame := line
		if end := strings.IndexByte(line[idx:], ' '); end != -1 {
			frame = line[:idx+end]
		}

		_, rel, found := strings.Cut(frame, "/internal/")
		if !found {
			continue
		}
		paths = append(paths, "internal/"+rel)
	}
	return paths
}
