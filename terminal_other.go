//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !solaris && !windows

package console

import "io"

func isTerminal(io.Writer) bool {
	return false
}
