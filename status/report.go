// Package status generates the Vulkan status report: what loader is
// installed, which layers it sees, and which physical devices it exposes.
package status

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/environment"
	"github.com/devblok/vkstatus/layers"
)

// Tool identification printed at the top of every report
const (
	ToolName    = "vkstatus"
	ToolVersion = "1.0.0"
)

// Problem classifies why the instance could not be created
type Problem string

// Known problems
const (
	ProblemNone                Problem = ""
	ProblemIncompatibleDriver  Problem = "incompatible-driver"
	ProblemExtensionNotPresent Problem = "extension-not-present"
	ProblemLayerNotPresent     Problem = "layer-not-present"
	ProblemInstanceCreation    Problem = "instance-creation"
)

// Sources gathers everything a report is built from
type Sources struct {
	// Loader is nil when it could not be opened, LoaderError tells why
	Loader      device.Loader
	LoaderError error

	Environment    environment.Environment
	UserLayerPaths []string
	Layers         layers.Result

	// PresentationExtensions are the instance extensions a window
	// system requires, when one was asked
	PresentationExtensions []string
}

// LoaderStatus is what is known about the Vulkan loader
type LoaderStatus struct {
	Found   bool
	Library string `json:",omitempty"`
	Version core.Version

	// VersionQueried is false for 1.0 loaders lacking vkEnumerateInstanceVersion
	VersionQueried bool
	Error          string `json:",omitempty"`
}

// LayerPathsStatus are the user-defined layer locations
type LayerPathsStatus struct {
	Configured   []string
	LayerPath    []string
	AddLayerPath []string
}

// InstanceStatus is the outcome of vkCreateInstance
type InstanceStatus struct {
	Created    bool
	APIVersion core.Version
	Extensions []string
	Problem    Problem `json:",omitempty"`
	Error      string  `json:",omitempty"`
}

// Report is the status of the Vulkan installation
type Report struct {
	Tool      string
	Version   string
	Platform  environment.Platform
	SDKPath   string
	Variables []environment.Variable
	Dotenv    []environment.Dotenv `json:",omitempty"`

	Loader     LoaderStatus
	LayerPaths LayerPathsStatus

	Layers      []device.LayerProperties
	LayersError string `json:",omitempty"`

	Manifests        []layers.Manifest
	InvalidManifests []layers.InvalidManifest `json:",omitempty"`

	Instance        InstanceStatus
	PhysicalDevices []device.PhysicalDeviceInfo
	DevicesError    string `json:",omitempty"`

	PresentationExtensions []string `json:",omitempty"`

	details bool
}

// Generate queries the loader and builds the report. Failures are
// recorded in the report; generation stops at the first one that makes
// the following steps meaningless.
func Generate(src Sources, cfg core.ReportConfiguration) *Report {
	env := src.Environment
	r := &Report{
		Tool:      ToolName,
		Version:   ToolVersion,
		Platform:  env.Platform,
		SDKPath:   env.SDKPath,
		Variables: env.Variables,
		Dotenv:    env.Dotenv,
		LayerPaths: LayerPathsStatus{
			Configured:   src.UserLayerPaths,
			LayerPath:    env.LayerPath,
			AddLayerPath: env.AddLayerPath,
		},
		Manifests:              src.Layers.Manifests,
		InvalidManifests:       src.Layers.Invalid,
		PresentationExtensions: src.PresentationExtensions,
		details:                cfg.DeviceDetails,
	}

	if src.Loader == nil {
		if src.LoaderError != nil {
			r.Loader.Error = src.LoaderError.Error()
		}
		log.WithError(src.LoaderError).Warn("no vulkan loader")
		return r
	}
	r.Loader.Found = true
	r.Loader.Library = src.Loader.Library()

	version, queried, err := src.Loader.InstanceVersion()
	if err != nil {
		// the loader is there, assume the lowest version
		log.WithError(err).Warn("loader version query failed")
		r.Loader.Error = err.Error()
		version = core.Version1_0
	}
	r.Loader.Version = version
	r.Loader.VersionQueried = queried

	if instanceLayers, err := src.Loader.InstanceLayers(); err != nil {
		r.LayersError = err.Error()
	} else {
		r.Layers = instanceLayers
	}

	instance, err := src.Loader.NewInstance(cfg, version)
	if err != nil {
		r.Instance.Problem = classify(err)
		r.Instance.Error = err.Error()
		log.WithError(err).Warn("vulkan instance creation failed")
		return r
	}
	defer instance.Destroy()

	r.Instance.Created = true
	r.Instance.APIVersion = instance.APIVersion()
	r.Instance.Extensions = instance.Extensions()

	if devices, err := instance.PhysicalDevices(); err != nil {
		r.DevicesError = err.Error()
	} else {
		r.PhysicalDevices = devices
	}
	return r
}

func classify(err error) Problem {
	switch {
	case errors.Is(err, device.ErrIncompatibleDriver):
		return ProblemIncompatibleDriver
	case errors.Is(err, device.ErrExtensionNotPresent):
		return ProblemExtensionNotPresent
	case errors.Is(err, device.ErrLayerNotPresent):
		return ProblemLayerNotPresent
	}
	return ProblemInstanceCreation
}
