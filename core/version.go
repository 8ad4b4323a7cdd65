package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version is a Vulkan version as packed by VK_MAKE_API_VERSION.
type Version struct {
	Variant int
	Major   int
	Minor   int
	Patch   int
}

// Well known versions
var (
	VersionNull = Version{}
	Version1_0  = NewVersion(1, 0, 0)
	Version1_1  = NewVersion(1, 1, 0)
	Version1_2  = NewVersion(1, 2, 0)
	Version1_3  = NewVersion(1, 3, 0)
)

// ErrVersionFormat is returned by ParseVersion on malformed input
var ErrVersionFormat = errors.New("malformed version")

// NewVersion creates a version with a zero variant
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// VersionFromPacked unpacks a uint32 version as returned by the Vulkan API
func VersionFromPacked(packed uint32) Version {
	return Version{
		Variant: int(packed >> 29),
		Major:   int((packed >> 22) & 0x7f),
		Minor:   int((packed >> 12) & 0x3ff),
		Patch:   int(packed & 0xfff),
	}
}

// Packed returns the uint32 representation used by the Vulkan API
func (v Version) Packed() uint32 {
	return uint32(v.Variant)<<29 | uint32(v.Major&0x7f)<<22 | uint32(v.Minor&0x3ff)<<12 | uint32(v.Patch&0xfff)
}

// IsNull reports whether v is the zero version
func (v Version) IsNull() bool {
	return v == VersionNull
}

func (v Version) String() string {
	if v.Variant != 0 {
		return fmt.Sprintf("variant %d %d.%d.%d", v.Variant, v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 when v is lower, equal or greater than o
func (v Version) Compare(o Version) int {
	a, b := v.Packed(), o.Packed()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Less reports whether v is lower than o
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// MinVersion returns the lowest of the two versions
func MinVersion(a, b Version) Version {
	if b.Less(a) {
		return b
	}
	return a
}

// largest major, minor and patch the packing holds
var versionLimits = [3]int{0x7f, 0x3ff, 0xfff}

// ParseVersion parses "1", "1.2" or "1.2.3". Missing parts are zero.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return VersionNull, ErrVersionFormat
	}
	nodes := strings.Split(s, ".")
	if len(nodes) > 3 {
		return VersionNull, errors.Wrapf(ErrVersionFormat, "%q", s)
	}

	var parts [3]int
	for i, node := range nodes {
		num, err := strconv.Atoi(node)
		if err != nil || num < 0 || num > versionLimits[i] {
			return VersionNull, errors.Wrapf(ErrVersionFormat, "%q", s)
		}
		parts[i] = num
	}
	return NewVersion(parts[0], parts[1], parts[2]), nil
}

// MarshalText implements encoding.TextMarshaler
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
