//go:build windows

package environment

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func uname() (string, string, error) {
	info := windows.RtlGetVersion()
	return "Windows", fmt.Sprintf("%d.%d.%d", info.MajorVersion, info.MinorVersion, info.BuildNumber), nil
}
