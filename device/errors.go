package device

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/vkstatus/loader"
)

// package errors
var (
	ErrLoaderNotFound       = errors.New("could not find a vulkan loader")
	ErrIncompatibleDriver   = errors.New("no compatible vulkan installable client driver")
	ErrExtensionNotPresent  = errors.New("vulkan extension not present")
	ErrLayerNotPresent      = errors.New("vulkan layer not present")
	ErrInitializationFailed = errors.New("vulkan initialization failed")
	ErrOutOfMemory          = errors.New("out of memory")
)

// resultError maps a vk.Result to an error. Success and
// incomplete results are not errors.
func resultError(call string, result vk.Result) error {
	switch result {
	case vk.Success, vk.Incomplete:
		return nil
	case vk.ErrorIncompatibleDriver:
		return errors.Wrap(ErrIncompatibleDriver, call)
	case vk.ErrorExtensionNotPresent:
		return errors.Wrap(ErrExtensionNotPresent, call)
	case vk.ErrorLayerNotPresent:
		return errors.Wrap(ErrLayerNotPresent, call)
	case vk.ErrorInitializationFailed:
		return errors.Wrap(ErrInitializationFailed, call)
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return errors.Wrap(ErrOutOfMemory, call)
	}
	return &loader.ResultError{Call: call, Result: int32(result)}
}
