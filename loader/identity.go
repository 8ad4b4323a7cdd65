package loader

import (
	"bytes"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

const (
	structureTypePhysicalDeviceProperties2      = 1000059001
	structureTypePhysicalDeviceIDProperties     = 1000071004
	structureTypePhysicalDeviceDriverProperties = 1000196000

	// larger than VkPhysicalDeviceProperties on every supported ABI
	physicalDevicePropertiesSize = 1024
)

// Identity holds what vkGetPhysicalDeviceProperties2 reports on top of
// the Vulkan 1.0 properties
type Identity struct {
	// IDQueried is set when the UUIDs, LUID and node mask were queried
	IDQueried  bool
	DeviceUUID [16]byte
	DriverUUID [16]byte
	DeviceLUID [8]byte
	LUIDValid  bool
	NodeMask   uint32

	// Filled only when the driver properties were queried
	DriverID    uint32
	DriverName  string
	DriverInfo  string
	Conformance string
}

type physicalDeviceProperties2 struct {
	sType      uint32
	pNext      unsafe.Pointer
	properties [physicalDevicePropertiesSize]byte
}

type physicalDeviceIDProperties struct {
	sType           uint32
	pNext           unsafe.Pointer
	deviceUUID      [16]byte
	driverUUID      [16]byte
	deviceLUID      [8]byte
	deviceNodeMask  uint32
	deviceLUIDValid uint32
}

type physicalDeviceDriverProperties struct {
	sType              uint32
	pNext              unsafe.Pointer
	driverID           uint32
	driverName         [256]byte
	driverInfo         [256]byte
	conformanceVersion [4]uint8
}

// single allocation, so pNext never points outside of it
type identityQuery struct {
	properties physicalDeviceProperties2
	id         physicalDeviceIDProperties
	driver     physicalDeviceDriverProperties
}

// PhysicalDeviceProperties2 resolves vkGetPhysicalDeviceProperties2 for
// a 1.1 instance, or the KHR alias when the instance enabled
// VK_KHR_get_physical_device_properties2 instead.
func (l *Library) PhysicalDeviceProperties2(instance uintptr, khr bool) uintptr {
	if khr {
		return l.ProcAddr(instance, "vkGetPhysicalDeviceProperties2KHR")
	}
	return l.ProcAddr(instance, "vkGetPhysicalDeviceProperties2")
}

// QueryIdentity calls a resolved vkGetPhysicalDeviceProperties2 with the
// ID properties chained when withID is set, and the driver properties when
// withDriver is set. The ID properties need Vulkan 1.1 or one of the
// VK_KHR_external_*_capabilities instance extensions, the driver
// properties Vulkan 1.2 or VK_KHR_driver_properties.
func QueryIdentity(fn, physicalDevice uintptr, withID, withDriver bool) Identity {
	q := newIdentityQuery(withID, withDriver)
	purego.SyscallN(fn, physicalDevice, uintptr(unsafe.Pointer(&q.properties)))
	runtime.KeepAlive(q)
	return q.identity(withID, withDriver)
}

func newIdentityQuery(withID, withDriver bool) *identityQuery {
	q := new(identityQuery)
	q.properties.sType = structureTypePhysicalDeviceProperties2
	next := &q.properties.pNext
	if withID {
		q.id.sType = structureTypePhysicalDeviceIDProperties
		*next = unsafe.Pointer(&q.id)
		next = &q.id.pNext
	}
	if withDriver {
		q.driver.sType = structureTypePhysicalDeviceDriverProperties
		*next = unsafe.Pointer(&q.driver)
	}
	return q
}

func (q *identityQuery) identity(withID, withDriver bool) Identity {
	var identity Identity
	if withID {
		identity.IDQueried = true
		identity.DeviceUUID = q.id.deviceUUID
		identity.DriverUUID = q.id.driverUUID
		identity.DeviceLUID = q.id.deviceLUID
		identity.LUIDValid = q.id.deviceLUIDValid != 0
		identity.NodeMask = q.id.deviceNodeMask
	}
	if withDriver {
		identity.DriverID = q.driver.driverID
		identity.DriverName = cString(q.driver.driverName[:])
		identity.DriverInfo = cString(q.driver.driverInfo[:])
		cv := q.driver.conformanceVersion
		identity.Conformance = fmt.Sprintf("%d.%d.%d.%d", cv[0], cv[1], cv[2], cv[3])
	}
	return identity
}

func cString(b []byte) string {
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		b = b[:idx]
	}
	return string(b)
}
