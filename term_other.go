// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package main

import "os"

// isTerminal cannot tell, so trusts the user.
func isTerminal(f *os.File) bool {
	return false
}
