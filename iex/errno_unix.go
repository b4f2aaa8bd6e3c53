//go:build unix

package iex

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func errnoSymbol(errno syscall.Errno) string {
	return unix.ErrnoName(errno)
}
