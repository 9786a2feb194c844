package main

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

var stdoutTerminal int32 = -1 // -1 = unchecked, 0 = no, 1 = yes

func stdoutIsTerminal() bool {
	if v := atomic.LoadInt32(&stdoutTerminal); v >= 0 {
		return v == 1
	}
	result := term.IsTerminal(int(os.Stdout.Fd()))
	if result {
		atomic.StoreInt32(&stdoutTerminal, 1)
	} else {
		atomic.StoreInt32(&stdoutTerminal, 0)
	}
	return result
}
