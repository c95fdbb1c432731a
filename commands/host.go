//go:build linux || darwin

package commands

import (
	"golang.org/x/sys/unix"
)

// nodename returns the network node name of this host, as reported by uname(2).
func nodename() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}

	return unix.ByteSliceToString(uts.Nodename[:]), nil
}
