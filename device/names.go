package device

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/vkstatus/core"
)

// DeviceTypeName gives a human readable physical device type
func DeviceTypeName(dev vk.PhysicalDeviceType) string {
	switch dev {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "Integrated GPU"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "Discrete GPU"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "Virtual GPU"
	case vk.PhysicalDeviceTypeCpu:
		return "CPU"
	case vk.PhysicalDeviceTypeOther:
		return "Other"
	default:
		return "Unknown"
	}
}

// PCI vendor ids, and VkVendorId for vendors without one
const (
	VendorAMD      = 0x1002
	VendorImgTec   = 0x1010
	VendorApple    = 0x106B
	VendorNVIDIA   = 0x10DE
	VendorARM      = 0x13B5
	VendorGoogle   = 0x1AE0
	VendorQualcomm = 0x5143
	VendorIntel    = 0x8086
	VendorVIV      = 0x10001
	VendorVSI      = 0x10002
	VendorKazan    = 0x10003
	VendorCodeplay = 0x10004
	VendorMesa     = 0x10005
	VendorPOCL     = 0x10006
	VendorMobileye = 0x10007
)

var vendorNames = map[int]string{
	VendorAMD:      "AMD",
	VendorImgTec:   "ImgTec",
	VendorApple:    "Apple",
	VendorNVIDIA:   "NVIDIA",
	VendorARM:      "ARM",
	VendorGoogle:   "Google",
	VendorQualcomm: "Qualcomm",
	VendorIntel:    "Intel",
	VendorVIV:      "VIV",
	VendorVSI:      "VSI",
	VendorKazan:    "Kazan",
	VendorCodeplay: "Codeplay",
	VendorMesa:     "Mesa",
	VendorPOCL:     "PoCL",
	VendorMobileye: "Mobileye",
}

// VendorName gives the vendor of a vendor id, "Unknown" when not known
func VendorName(vendorID int) string {
	if name, ok := vendorNames[vendorID]; ok {
		return name
	}
	return "Unknown"
}

// FormatDriverVersion decodes a driverVersion. The encoding is vendor
// specific: NVIDIA uses 10.8.8.6 bits, Intel on Windows 18.14 bits,
// everyone else the Vulkan version packing.
func FormatDriverVersion(vendorID int, raw uint32, goos string) string {
	switch {
	case vendorID == VendorNVIDIA:
		return fmt.Sprintf("%d.%d.%d.%d", (raw>>22)&0x3ff, (raw>>14)&0xff, (raw>>6)&0xff, raw&0x3f)
	case vendorID == VendorIntel && goos == "windows":
		return fmt.Sprintf("%d.%d", raw>>14, raw&0x3fff)
	}
	return core.VersionFromPacked(raw).String()
}
