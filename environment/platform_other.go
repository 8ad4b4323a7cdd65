//go:build !darwin && !linux && !freebsd && !windows

package environment

import "github.com/pkg/errors"

func uname() (string, string, error) {
	return "", "", errors.New("not supported")
}
