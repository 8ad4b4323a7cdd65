//go:build darwin || linux || freebsd

package environment

import (
	"golang.org/x/sys/unix"
)

func uname() (string, string, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return "", "", err
	}
	return unix.ByteSliceToString(u.Sysname[:]), unix.ByteSliceToString(u.Release[:]), nil
}
