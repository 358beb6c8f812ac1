//go:build unix

package sampler

import (
	"os/exec"
	"syscall"
)

// detach puts the sampler in its own process group so a terminal Ctrl-C
// reaches mxtop only. mxtop stops the sampler itself.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
