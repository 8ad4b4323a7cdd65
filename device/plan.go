package device

import (
	"github.com/devblok/vkstatus/core"
)

// Instance extensions the report may enable
const (
	extGetPhysicalDeviceProperties2 = "VK_KHR_get_physical_device_properties2"
	extPortabilityEnumeration       = "VK_KHR_portability_enumeration"
	extDriverProperties             = "VK_KHR_driver_properties"
	extExternalMemoryCapabilities   = "VK_KHR_external_memory_capabilities"

	// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	instanceCreateEnumeratePortability = 0x00000001
)

type properties2Support int

const (
	properties2None properties2Support = iota
	properties2Core
	properties2KHR
)

// instancePlan is what vkCreateInstance will be called with
type instancePlan struct {
	APIVersion  core.Version
	Extensions  []string
	Flags       uint32
	Properties2 properties2Support

	// IDProperties is set when VkPhysicalDeviceIDProperties may be
	// chained: core in 1.1, an external capabilities extension before
	IDProperties bool
}

// planInstance picks the instance version and extensions.
// A 1.0 loader rejects any other apiVersion with
// VK_ERROR_INCOMPATIBLE_DRIVER, so 1.0 is requested then.
func planInstance(loaderVersion core.Version, available []string, cfg core.ReportConfiguration) instancePlan {
	requested := cfg.APIVersion
	if requested.IsNull() {
		requested = loaderVersion
	}

	plan := instancePlan{
		APIVersion: core.Version1_0,
	}
	if !loaderVersion.Less(core.Version1_1) && !requested.Less(core.Version1_1) {
		plan.APIVersion = core.MinVersion(loaderVersion, requested)
		plan.APIVersion.Patch = 0
	}

	if !plan.APIVersion.Less(core.Version1_1) {
		plan.Properties2 = properties2Core
		plan.IDProperties = true
	} else if contains(available, extGetPhysicalDeviceProperties2) {
		plan.Properties2 = properties2KHR
		plan.Extensions = append(plan.Extensions, extGetPhysicalDeviceProperties2)
		if contains(available, extExternalMemoryCapabilities) {
			plan.Extensions = append(plan.Extensions, extExternalMemoryCapabilities)
			plan.IDProperties = true
		}
	}

	if cfg.Portability && contains(available, extPortabilityEnumeration) {
		plan.Extensions = append(plan.Extensions, extPortabilityEnumeration)
		plan.Flags |= instanceCreateEnumeratePortability
	}
	return plan
}

// withDriverProperties reports whether VkPhysicalDeviceDriverProperties
// can be chained for a device
func withDriverProperties(plan instancePlan, deviceVersion core.Version, deviceExtensions []string) bool {
	if plan.Properties2 == properties2None {
		return false
	}
	return !deviceVersion.Less(core.Version1_2) || contains(deviceExtensions, extDriverProperties)
}

func contains(list []string, name string) bool {
	for _, e := range list {
		if e == name {
			return true
		}
	}
	return false
}
