// Package frontapp identifies the application the user is currently
// interacting with.
package frontapp

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"savebridge/internal/fault"
)

// Inspector reports the name of the process owning the active window.
// The answer is a point-in-time snapshot with no lock held; the user may
// switch applications the instant after it returns.
type Inspector interface {
	FrontAppName() (string, error)
}

// X11Inspector resolves the active window through xprop and maps its PID
// to a process name via gopsutil.
type X11Inspector struct{}

var (
	activeWindowRe = regexp.MustCompile(`window id # (0x[0-9a-fA-F]+)`)
	windowPIDRe    = regexp.MustCompile(`= (\d+)`)
)

// FrontAppName implements Inspector.
func (X11Inspector) FrontAppName() (string, error) {
	out, err := exec.Command("xprop", "-root", "_NET_ACTIVE_WINDOW").Output()
	if err != nil {
		return "", fault.Wrap(fault.External, err, "cannot query active window")
	}
	m := activeWindowRe.FindStringSubmatch(string(out))
	if m == nil {
		return "", fault.New(fault.External, "no active window reported")
	}

	out, err = exec.Command("xprop", "-id", m[1], "_NET_WM_PID").Output()
	if err != nil {
		return "", fault.Wrap(fault.External, err, "cannot query window pid")
	}
	m = windowPIDRe.FindStringSubmatch(string(out))
	if m == nil {
		return "", fault.New(fault.External, "active window reports no pid")
	}
	pid, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return "", fault.Wrap(fault.External, err, "bad pid %q", m[1])
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fault.Wrap(fault.External, err, "no process for pid %d", pid)
	}
	name, err := proc.Name()
	if err != nil {
		return "", fault.Wrap(fault.External, err, "cannot read process name")
	}
	return strings.TrimSpace(name), nil
}
