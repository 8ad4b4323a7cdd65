package status_test

import (
	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/loader"
)

type fakeLoader struct {
	version     core.Version
	queried     bool
	versionErr  error
	layers      []device.LayerProperties
	layersErr   error
	instance    *fakeInstance
	instanceErr error
	closed      int

	requested core.Version
}

func (f *fakeLoader) Library() string { return "/usr/lib/libvulkan.so.1" }

func (f *fakeLoader) InstanceVersion() (core.Version, bool, error) {
	if f.versionErr != nil {
		return core.VersionNull, false, f.versionErr
	}
	return f.version, f.queried, nil
}

func (f *fakeLoader) InstanceLayers() ([]device.LayerProperties, error) {
	return f.layers, f.layersErr
}

func (f *fakeLoader) InstanceExtensions() ([]device.ExtensionProperties, error) {
	return nil, nil
}

func (f *fakeLoader) NewInstance(cfg core.ReportConfiguration, loaderVersion core.Version) (device.Instance, error) {
	f.requested = loaderVersion
	if f.instanceErr != nil {
		return nil, f.instanceErr
	}
	return f.instance, nil
}

func (f *fakeLoader) Close() error {
	f.closed++
	return nil
}

type fakeInstance struct {
	devices    []device.PhysicalDeviceInfo
	devicesErr error
	destroyed  int
}

func (f *fakeInstance) Destroy() { f.destroyed++ }

func (f *fakeInstance) APIVersion() core.Version { return core.Version1_3 }

func (f *fakeInstance) Extensions() []string {
	return []string{"VK_KHR_portability_enumeration"}
}

func (f *fakeInstance) PhysicalDevices() ([]device.PhysicalDeviceInfo, error) {
	return f.devices, f.devicesErr
}

func nvidiaDevice() device.PhysicalDeviceInfo {
	return device.PhysicalDeviceInfo{
		ID:            0x2206,
		VendorID:      device.VendorNVIDIA,
		DriverVersion: 535<<22 | 104<<14 | 5<<6,
		Name:          "NVIDIA GeForce RTX 3080",
		Type:          "Discrete GPU",
		APIVersion:    core.NewVersion(1, 3, 242),
		Extensions:    []string{"VK_KHR_swapchain"},
		MemoryHeaps: []device.MemoryHeap{
			{Size: 6 << 30, DeviceLocal: true},
			{Size: 2 << 30},
		},
		Memory: 8 << 30,
		Identity: &loader.Identity{
			IDQueried:  true,
			DeviceUUID: [16]byte{0xde, 0xad, 0xbe, 0xef},
			DriverUUID: [16]byte{0x01},
			DriverName: "NVIDIA",
			DriverInfo: "535.104.05",
		},
	}
}

func workingLoader() *fakeLoader {
	return &fakeLoader{
		version: core.NewVersion(1, 3, 250),
		queried: true,
		layers: []device.LayerProperties{{
			Name:                  "VK_LAYER_KHRONOS_validation",
			SpecVersion:           core.NewVersion(1, 3, 250),
			ImplementationVersion: 1,
			Description:           "Khronos Validation Layer",
		}},
		instance: &fakeInstance{
			devices: []device.PhysicalDeviceInfo{nvidiaDevice()},
		},
	}
}
