//go:build windows

package layers

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"

	"github.com/devblok/vkstatus/environment"
)

// systemDirectories lists the manifest files registered under
// SOFTWARE\Khronos\Vulkan in HKLM then HKCU
func systemDirectories(_ environment.Environment, implicit bool) []Directory {
	path := `SOFTWARE\Khronos\Vulkan\ExplicitLayers`
	if implicit {
		path = `SOFTWARE\Khronos\Vulkan\ImplicitLayers`
	}

	var dirs []Directory
	for _, root := range []registry.Key{registry.LOCAL_MACHINE, registry.CURRENT_USER} {
		key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		names, err := key.ReadValueNames(0)
		if err != nil {
			log.WithError(err).WithField("key", path).Warn("registry key unreadable")
			key.Close()
			continue
		}
		for _, name := range names {
			// a non zero DWORD disables the entry
			if disabled, _, err := key.GetIntegerValue(name); err == nil && disabled != 0 {
				continue
			}
			dirs = append(dirs, Directory{
				Path:     name,
				Implicit: implicit,
				Source:   SourceRegistry,
			})
		}
		key.Close()
	}
	return dirs
}
