// Package loader resolves the Vulkan loader library at runtime and
// calls the entry points that may or may not be exported by it.
//
// Everything here goes through vkGetInstanceProcAddr, so the package
// works with a library opened from disk as well as with a proc address
// handed over by a windowing library.
package loader

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/core"
)

// package errors
var (
	ErrNotFound        = errors.New("vulkan loader library not found")
	ErrMissingProcAddr = errors.New("vkGetInstanceProcAddr not exported")
)

const getInstanceProcAddrName = "vkGetInstanceProcAddr"

// Library is an opened Vulkan loader
type Library struct {
	path   string
	handle uintptr

	getInstanceProcAddr uintptr
}

// FromProcAddr wraps a vkGetInstanceProcAddr resolved by someone else.
// Close on the result is a no-op.
func FromProcAddr(addr uintptr, origin string) *Library {
	return &Library{
		path:                origin,
		getInstanceProcAddr: addr,
	}
}

// Open tries each candidate until one exports vkGetInstanceProcAddr
func Open(explicit []string, sdkPath string) (*Library, error) {
	for _, candidate := range Candidates(runtime.GOOS, sdkPath, explicit) {
		handle, err := openLibrary(candidate)
		if err != nil {
			log.WithField("library", candidate).Debug("vulkan loader candidate rejected")
			continue
		}
		addr, err := lookup(handle, getInstanceProcAddrName)
		if err != nil || addr == 0 {
			log.WithField("library", candidate).Warn("library does not export " + getInstanceProcAddrName)
			closeLibrary(handle)
			continue
		}
		log.WithField("library", candidate).Debug("vulkan loader opened")
		return &Library{
			path:                candidate,
			handle:              handle,
			getInstanceProcAddr: addr,
		}, nil
	}
	return nil, ErrNotFound
}

// Path returns where the library was loaded from
func (l *Library) Path() string {
	return l.path
}

// GetInstanceProcAddr returns the address of vkGetInstanceProcAddr
func (l *Library) GetInstanceProcAddr() uintptr {
	return l.getInstanceProcAddr
}

// ProcAddr resolves name through vkGetInstanceProcAddr. Instance is zero
// for global commands. Zero is returned when the command is not available.
func (l *Library) ProcAddr(instance uintptr, name string) uintptr {
	if l == nil || l.getInstanceProcAddr == 0 {
		return 0
	}
	cname := append([]byte(name), 0)
	addr, _, _ := purego.SyscallN(l.getInstanceProcAddr, instance, uintptr(unsafe.Pointer(&cname[0])))
	runtime.KeepAlive(cname)
	return addr
}

// Close unloads the library if it was opened by Open
func (l *Library) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := closeLibrary(l.handle)
	l.handle = 0
	l.getInstanceProcAddr = 0
	return err
}

// Candidates lists the libraries to try, in order.
// Explicit paths come first, then the platform library names as found
// by the system, then under the SDK and the well known directories.
func Candidates(goos, sdkPath string, explicit []string) []string {
	var (
		candidates []string
		seen       = make(map[string]bool)
	)
	add := func(c string) {
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		candidates = append(candidates, c)
	}

	for _, e := range explicit {
		add(e)
	}

	names, dirs := libraryNames(goos)
	if sdkPath != "" {
		sdkLib := filepath.Join(sdkPath, "lib")
		if goos == "windows" {
			sdkLib = filepath.Join(sdkPath, "Bin")
		}
		dirs = append([]string{sdkLib}, dirs...)
	}

	for _, name := range names {
		add(name)
	}
	for _, dir := range dirs {
		for _, name := range names {
			add(filepath.Join(dir, name))
		}
	}
	return candidates
}

func libraryNames(goos string) ([]string, []string) {
	switch goos {
	case "windows":
		return []string{"vulkan-1.dll"}, []string{
			filepath.Join(os.Getenv("SystemRoot"), "System32"),
		}
	case "darwin":
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}, []string{
			"/usr/local/lib",
			"/opt/homebrew/lib",
		}
	default:
		return []string{"libvulkan.so.1", "libvulkan.so"}, []string{
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib64",
			"/usr/lib",
			"/usr/local/lib",
		}
	}
}

// InstanceVersion calls vkEnumerateInstanceVersion. Loaders implementing
// only Vulkan 1.0 do not export it, in which case 1.0.0 is returned and
// the second result is false.
func (l *Library) InstanceVersion() (core.Version, bool, error) {
	fn := l.ProcAddr(0, "vkEnumerateInstanceVersion")
	if fn == 0 {
		return core.Version1_0, false, nil
	}

	var version uint32
	ret, _, _ := purego.SyscallN(fn, uintptr(unsafe.Pointer(&version)))
	if result := int32(ret); result != 0 {
		return core.VersionNull, true, &ResultError{Call: "vkEnumerateInstanceVersion", Result: result}
	}
	return core.VersionFromPacked(version), true, nil
}
