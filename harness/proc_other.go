//go:build !unix

package harness

import "os/exec"

func isolate(*exec.Cmd) {}
