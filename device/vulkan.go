package device

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/loader"
)

// NewVulkanLoader opens the Vulkan loader and initialises the
// global commands. When cfg carries a proc address no library is opened.
func NewVulkanLoader(cfg core.LoaderConfiguration, sdkPath string) (Loader, error) {
	var library *loader.Library
	if cfg.ProcAddr != nil {
		origin := cfg.ProcAddrOrigin
		if origin == "" {
			origin = "external vkGetInstanceProcAddr"
		}
		library = loader.FromProcAddr(uintptr(cfg.ProcAddr), origin)
		vk.SetGetInstanceProcAddr(cfg.ProcAddr)
	} else {
		lib, err := loader.Open(cfg.LibraryPaths, sdkPath)
		if err != nil {
			return nil, errors.Wrap(ErrLoaderNotFound, err.Error())
		}
		library = lib
		vk.SetGetInstanceProcAddr(unsafe.Pointer(lib.GetInstanceProcAddr()))
	}

	if err := vk.Init(); err != nil {
		library.Close()
		return nil, errors.Wrap(err, "vk.Init()")
	}

	log.WithField("library", library.Path()).Debug("vulkan loader initialised")
	return &VulkanLoader{
		library: library,
	}, nil
}

// VulkanLoader is the Vulkan loader reached through vulkan-go
type VulkanLoader struct {
	Loader

	library *loader.Library
}

// Library implements interface
func (v *VulkanLoader) Library() string {
	return v.library.Path()
}

// InstanceVersion implements interface
func (v *VulkanLoader) InstanceVersion() (core.Version, bool, error) {
	return v.library.InstanceVersion()
}

// InstanceLayers implements interface
func (v *VulkanLoader) InstanceLayers() ([]LayerProperties, error) {
	var count uint32
	if err := resultError("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	instanceLayers := make([]vk.LayerProperties, count)
	if err := resultError("vkEnumerateInstanceLayerProperties", vk.EnumerateInstanceLayerProperties(&count, instanceLayers)); err != nil {
		return nil, err
	}

	layers := make([]LayerProperties, 0, count)
	for _, layer := range instanceLayers[:count] {
		layer.Deref()
		layers = append(layers, LayerProperties{
			Name:                  vk.ToString(layer.LayerName[:]),
			SpecVersion:           core.VersionFromPacked(layer.SpecVersion),
			ImplementationVersion: layer.ImplementationVersion,
			Description:           vk.ToString(layer.Description[:]),
		})
	}
	log.WithField("count", len(layers)).Debug("instance layers enumerated")
	return layers, nil
}

// InstanceExtensions implements interface
func (v *VulkanLoader) InstanceExtensions() ([]ExtensionProperties, error) {
	var count uint32
	if err := resultError("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	instanceExt := make([]vk.ExtensionProperties, count)
	if err := resultError("vkEnumerateInstanceExtensionProperties", vk.EnumerateInstanceExtensionProperties("", &count, instanceExt)); err != nil {
		return nil, err
	}

	extensions := make([]ExtensionProperties, 0, count)
	for _, ext := range instanceExt[:count] {
		ext.Deref()
		extensions = append(extensions, ExtensionProperties{
			Name:        vk.ToString(ext.ExtensionName[:]),
			SpecVersion: ext.SpecVersion,
		})
	}
	return extensions, nil
}

// NewInstance implements interface
func (v *VulkanLoader) NewInstance(cfg core.ReportConfiguration, loaderVersion core.Version) (Instance, error) {
	var available []string
	if extensions, err := v.InstanceExtensions(); err != nil {
		log.WithError(err).Warn("instance extensions unavailable, creating a bare instance")
	} else {
		for _, ext := range extensions {
			available = append(available, ext.Name)
		}
	}
	plan := planInstance(loaderVersion, available, cfg)

	appName := cfg.ApplicationName
	if appName == "" {
		appName = "vkstatus"
	}
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         plan.APIVersion.Packed(),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   core.SafeString(appName),
		PEngineName:        core.SafeString(appName),
	}
	extensions := core.SafeStrings(plan.Extensions)
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		Flags:                   vk.InstanceCreateFlags(plan.Flags),
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var instance vk.Instance
	if err := resultError("vkCreateInstance", vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}

	vi := &VulkanInstance{
		library:  v.library,
		instance: instance,
		plan:     plan,
	}
	switch plan.Properties2 {
	case properties2Core:
		vi.properties2 = v.library.PhysicalDeviceProperties2(vi.handle(), false)
	case properties2KHR:
		vi.properties2 = v.library.PhysicalDeviceProperties2(vi.handle(), true)
	}

	log.WithFields(log.Fields{
		"apiVersion": plan.APIVersion,
		"extensions": plan.Extensions,
	}).Debug("vulkan instance created")
	return vi, nil
}

// Close implements interface
func (v *VulkanLoader) Close() error {
	return v.library.Close()
}

// VulkanInstance describes a Vulkan API Instance
type VulkanInstance struct {
	Instance

	library     *loader.Library
	instance    vk.Instance
	plan        instancePlan
	properties2 uintptr
}

func (v *VulkanInstance) handle() uintptr {
	return uintptr(unsafe.Pointer(v.instance))
}

// APIVersion implements interface
func (v *VulkanInstance) APIVersion() core.Version {
	return v.plan.APIVersion
}

// Extensions implements interface
func (v *VulkanInstance) Extensions() []string {
	return v.plan.Extensions
}

func (v *VulkanInstance) enumerateDevices() ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := resultError("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(v.instance, &deviceCount, nil)); err != nil {
		return nil, err
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := resultError("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(v.instance, &deviceCount, availableDevices)); err != nil {
		return nil, err
	}
	return availableDevices[:deviceCount], nil
}

// PhysicalDevices implements interface
func (v *VulkanInstance) PhysicalDevices() ([]PhysicalDeviceInfo, error) {
	availableDevices, err := v.enumerateDevices()
	if err != nil {
		return nil, err
	}

	pdi := make([]PhysicalDeviceInfo, len(availableDevices))
	for i, pd := range availableDevices {
		// Get extension info
		var numDeviceExtensions uint32
		if err := resultError("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
		if err := resultError("vkEnumerateDeviceExtensionProperties", vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
			pdi[i].Invalid = true
		}
		for _, ext := range deviceExt[:numDeviceExtensions] {
			ext.Deref()
			pdi[i].Extensions = append(pdi[i].Extensions, vk.ToString(ext.ExtensionName[:]))
		}

		// Get layers info
		var numDeviceLayers uint32
		if err := resultError("vkEnumerateDeviceLayerProperties", vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := resultError("vkEnumerateDeviceLayerProperties", vk.EnumerateDeviceLayerProperties(pd, &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers[:numDeviceLayers] {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(pd, &memoryProperties)
		memoryProperties.Deref()
		for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			heap := memoryProperties.MemoryHeaps[iMem]
			heap.Deref()
			pdi[i].MemoryHeaps = append(pdi[i].MemoryHeaps, MemoryHeap{
				Size:        uint64(heap.Size),
				DeviceLocal: vk.MemoryHeapFlagBits(heap.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
			})
			pdi[i].Memory += uint64(heap.Size)
		}

		// Get general device info
		var physicalDeviceProperties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(pd, &physicalDeviceProperties)
		physicalDeviceProperties.Deref()
		pdi[i].ID = int(physicalDeviceProperties.DeviceID)
		pdi[i].VendorID = int(physicalDeviceProperties.VendorID)
		pdi[i].Name = vk.ToString(physicalDeviceProperties.DeviceName[:])
		pdi[i].Type = DeviceTypeName(physicalDeviceProperties.DeviceType)
		pdi[i].DriverVersion = physicalDeviceProperties.DriverVersion
		pdi[i].APIVersion = core.VersionFromPacked(physicalDeviceProperties.ApiVersion)

		// Get identity, needs vkGetPhysicalDeviceProperties2
		withDriver := withDriverProperties(v.plan, pdi[i].APIVersion, pdi[i].Extensions)
		if v.properties2 != 0 && (v.plan.IDProperties || withDriver) {
			identity := loader.QueryIdentity(v.properties2, uintptr(unsafe.Pointer(pd)), v.plan.IDProperties, withDriver)
			pdi[i].Identity = &identity
		}
	}
	runtime.KeepAlive(availableDevices)

	log.WithField("count", len(pdi)).Debug("physical devices enumerated")
	return pdi, nil
}

// Destroy implements interface
func (v *VulkanInstance) Destroy() {
	if v == nil || v.instance == nil {
		return
	}
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}
