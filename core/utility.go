package core

import (
	"fmt"
	"strings"
)

// SafeString terminates s with NUL as expected by the Vulkan API
func SafeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return fmt.Sprintf("%s\x00", s)
}

// SafeStrings terminates every element with NUL
func SafeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, SafeString(s))
	}
	return safe
}

// FormatUUID renders a VK_UUID_SIZE identifier as contiguous upper-case hex
func FormatUUID(uuid [16]byte) string {
	return fmt.Sprintf("%X", uuid[:])
}

// FormatLUID renders a VK_LUID_SIZE identifier as contiguous upper-case hex
func FormatLUID(luid [8]byte) string {
	return fmt.Sprintf("%X", luid[:])
}

// SplitPathList splits a PATH style list, dropping empty elements
func SplitPathList(list string, separator rune) []string {
	var paths []string
	for _, p := range strings.Split(list, string(separator)) {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
