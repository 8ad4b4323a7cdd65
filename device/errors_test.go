package device

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/devblok/vkstatus/loader"
)

func TestResultError(t *testing.T) {
	c := qt.New(t)

	c.Assert(resultError("vkCreateInstance", vk.Success), qt.IsNil)
	c.Assert(resultError("vkEnumeratePhysicalDevices", vk.Incomplete), qt.IsNil)

	for result, sentinel := range map[vk.Result]error{
		vk.ErrorIncompatibleDriver:   ErrIncompatibleDriver,
		vk.ErrorExtensionNotPresent:  ErrExtensionNotPresent,
		vk.ErrorLayerNotPresent:      ErrLayerNotPresent,
		vk.ErrorInitializationFailed: ErrInitializationFailed,
		vk.ErrorOutOfHostMemory:      ErrOutOfMemory,
	} {
		err := resultError("vkCreateInstance", result)
		c.Assert(errors.Is(err, sentinel), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, "vkCreateInstance: .*")
	}

	var re *loader.ResultError
	err := resultError("vkCreateInstance", vk.ErrorDeviceLost)
	c.Assert(errors.As(err, &re), qt.IsTrue)
	c.Assert(re.Result, qt.Equals, int32(-4))
}
