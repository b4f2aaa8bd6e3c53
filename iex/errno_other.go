//go:build !unix

package iex

import "syscall"

func errnoSymbol(syscall.Errno) string {
	return ""
}
