// Package device queries the Vulkan loader for layers, extensions and
// physical devices.
package device

import (
	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/loader"
)

// LayerProperties describes a layer reported by the loader
type LayerProperties struct {
	Name                  string
	SpecVersion           core.Version
	ImplementationVersion uint32
	Description           string
}

// ExtensionProperties describes an available extension
type ExtensionProperties struct {
	Name        string
	SpecVersion uint32
}

// MemoryHeap is one heap of a physical device
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int
	VendorID      int
	DriverVersion uint32
	Name          string
	Type          string
	APIVersion    core.Version
	Invalid       bool
	Extensions    []string
	Layers        []string
	MemoryHeaps   []MemoryHeap
	Memory        uint64

	// Identity is nil when vkGetPhysicalDeviceProperties2 is not available
	Identity *loader.Identity `json:",omitempty"`
}

// Loader describes the Vulkan loader as seen by the status report
type Loader interface {
	// Library names where the loader was loaded from
	Library() string

	// InstanceVersion returns the loader version. The second result
	// is false when the loader does not implement vkEnumerateInstanceVersion
	InstanceVersion() (core.Version, bool, error)

	// InstanceLayers enumerates the instance layers
	InstanceLayers() ([]LayerProperties, error)

	// InstanceExtensions enumerates the instance extensions of the loader
	// and implicit layers
	InstanceExtensions() ([]ExtensionProperties, error)

	// NewInstance creates an instance for the given loader version
	NewInstance(cfg core.ReportConfiguration, loaderVersion core.Version) (Instance, error)

	// Close unloads the loader
	Close() error
}

// Instance describes a created Vulkan instance
type Instance interface {
	core.Destroyable

	// APIVersion is the version the instance was created with
	APIVersion() core.Version

	// Extensions are the enabled instance extensions
	Extensions() []string

	// PhysicalDevices enumerates the physical devices and their properties
	PhysicalDevices() ([]PhysicalDeviceInfo, error)
}
