//go:build !unix

package adapter

import "os/exec"

// killProcessGroup keeps the default cancellation; WaitDelay still bounds
// the wait for pipes held by child processes.
func killProcessGroup(_ *exec.Cmd) {}
