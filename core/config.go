package core

import (
	"time"
	"unsafe"
)

// Configuration defines the global vkstatus configuration
type Configuration struct {
	Time        TimeConfiguration
	Loader      LoaderConfiguration
	Environment EnvironmentConfiguration
	Layers      LayersConfiguration
	Report      ReportConfiguration
}

// TimeConfiguration is used to configure the refresh service
type TimeConfiguration struct {
	// RefreshInterval regenerates the report periodically.
	// Zero generates a single report.
	RefreshInterval time.Duration
}

// LoaderConfiguration tells where the Vulkan loader is found
type LoaderConfiguration struct {
	// LibraryPaths are tried before the platform defaults
	LibraryPaths []string

	// ProcAddr is a vkGetInstanceProcAddr resolved elsewhere (SDL).
	// When set, no library is opened.
	ProcAddr unsafe.Pointer

	// ProcAddrOrigin names where ProcAddr came from in the report
	ProcAddrOrigin string
}

// EnvironmentConfiguration is used to configure environment loading
type EnvironmentConfiguration struct {
	// Files are dotenv files applied before the loader is queried.
	// Variables already set in the process are not overridden.
	Files []string
}

// LayersConfiguration is used to configure layer manifest discovery
type LayersConfiguration struct {
	// UserPaths are user-defined layer locations searched first
	UserPaths []string
}

// ReportConfiguration is used to configure the report generation
type ReportConfiguration struct {
	ApplicationName string

	// APIVersion is the highest API version requested for the instance
	APIVersion Version

	// Portability enumerates portability (non conformant) devices
	// when the loader supports it
	Portability bool

	// DeviceDetails enumerates device extensions and layers
	DeviceDetails bool
}

// DefaultConfiguration returns the configuration used when no flags are given
func DefaultConfiguration() Configuration {
	return Configuration{
		Report: ReportConfiguration{
			ApplicationName: "vkstatus",
			APIVersion:      Version1_3,
			Portability:     true,
		},
	}
}
