//go:build !windows

package layers

import (
	"os"
	"path/filepath"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/environment"
)

// systemDirectories follows the loader on unix: XDG config, sysconf,
// then XDG data locations, each with vulkan/*_layer.d
func systemDirectories(env environment.Environment, implicit bool) []Directory {
	lookup := env.Lookup
	if lookup == nil {
		lookup = os.Getenv
	}
	home := lookup("HOME")

	var bases []string
	if configHome := lookup("XDG_CONFIG_HOME"); configHome != "" {
		bases = append(bases, configHome)
	} else if home != "" {
		bases = append(bases, filepath.Join(home, ".config"))
	}
	if configDirs := core.SplitPathList(lookup("XDG_CONFIG_DIRS"), ':'); len(configDirs) > 0 {
		bases = append(bases, configDirs...)
	} else {
		bases = append(bases, "/etc/xdg")
	}
	bases = append(bases, "/usr/local/etc", "/etc")
	if dataHome := lookup("XDG_DATA_HOME"); dataHome != "" {
		bases = append(bases, dataHome)
	} else if home != "" {
		bases = append(bases, filepath.Join(home, ".local", "share"))
	}
	if dataDirs := core.SplitPathList(lookup("XDG_DATA_DIRS"), ':'); len(dataDirs) > 0 {
		bases = append(bases, dataDirs...)
	} else {
		bases = append(bases, "/usr/local/share", "/usr/share")
	}

	leaf := filepath.Join("vulkan", "explicit_layer.d")
	if implicit {
		leaf = filepath.Join("vulkan", "implicit_layer.d")
	}
	dirs := make([]Directory, 0, len(bases))
	for _, base := range bases {
		dirs = append(dirs, Directory{
			Path:     filepath.Join(base, leaf),
			Implicit: implicit,
			Source:   SourceSystem,
		})
	}
	return dirs
}
