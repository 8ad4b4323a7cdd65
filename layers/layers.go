// Package layers finds the layer manifests the Vulkan loader would
// consider, without loading any of them.
package layers

import (
	"github.com/devblok/vkstatus/environment"
)

// Sources of a search directory
const (
	SourceUser         = "user"
	SourceLayerPath    = "VK_LAYER_PATH"
	SourceAddLayerPath = "VK_ADD_LAYER_PATH"
	SourceSystem       = "system"
	SourceRegistry     = "registry"
)

// Directory is a place searched for manifests. Registry entries
// and user paths may name a manifest file directly.
type Directory struct {
	Path     string
	Implicit bool
	Source   string
}

// Paths are the places searched, in loader order
type Paths struct {
	Directories []Directory
}

// SearchPaths assembles the search order. User paths come first,
// VK_LAYER_PATH replaces the explicit system locations and
// VK_ADD_LAYER_PATH is searched before them.
func SearchPaths(env environment.Environment, userPaths []string) Paths {
	var p Paths
	for _, path := range userPaths {
		p.Directories = append(p.Directories, Directory{Path: path, Source: SourceUser})
	}
	for _, path := range env.AddLayerPath {
		p.Directories = append(p.Directories, Directory{Path: path, Source: SourceAddLayerPath})
	}

	if len(env.LayerPath) > 0 {
		for _, path := range env.LayerPath {
			p.Directories = append(p.Directories, Directory{Path: path, Source: SourceLayerPath})
		}
	} else {
		p.Directories = append(p.Directories, systemDirectories(env, false)...)
	}
	p.Directories = append(p.Directories, systemDirectories(env, true)...)
	return p
}
