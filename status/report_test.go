package status_test

import (
	"encoding/json"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/environment"
	"github.com/devblok/vkstatus/layers"
	"github.com/devblok/vkstatus/loader"
	"github.com/devblok/vkstatus/status"
)

var testEnvironment = environment.Environment{
	Variables: []environment.Variable{
		{Name: "VK_LAYER_PATH"},
		{Name: "VK_LOADER_DEBUG", Value: "all"},
	},
	Platform: environment.Platform{OS: "linux", Arch: "amd64", Kernel: "Linux", Release: "6.5.0"},
}

func generate(l device.Loader) *status.Report {
	return status.Generate(status.Sources{
		Loader:         l,
		Environment:    testEnvironment,
		UserLayerPaths: []string{"/opt/layers"},
		Layers: layers.Result{
			Manifests: []layers.Manifest{{
				Path:       "/usr/share/vulkan/explicit_layer.d/VkLayer_khronos_validation.json",
				Name:       "VK_LAYER_KHRONOS_validation",
				APIVersion: core.NewVersion(1, 3, 250),
			}},
		},
	}, core.DefaultConfiguration().Report)
}

func TestGenerateWithoutLoader(t *testing.T) {
	c := qt.New(t)
	r := status.Generate(status.Sources{
		LoaderError: device.ErrLoaderNotFound,
		Environment: testEnvironment,
	}, core.DefaultConfiguration().Report)

	c.Assert(r.Loader.Found, qt.IsFalse)
	text := r.Text()
	c.Assert(text, qt.Equals, "- vkstatus version: "+status.ToolVersion+"\n"+
		"- Platform: Linux 6.5.0 (linux/amd64)\n"+
		"- Could not find a Vulkan Loader.\n"+
		"    - "+device.ErrLoaderNotFound.Error()+"\n")
}

func TestGenerate(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	r := generate(l)

	c.Assert(r.Loader.Found, qt.IsTrue)
	c.Assert(r.Loader.Version, qt.Equals, core.NewVersion(1, 3, 250))
	c.Assert(l.requested, qt.Equals, core.NewVersion(1, 3, 250))
	c.Assert(r.Instance.Created, qt.IsTrue)
	c.Assert(r.PhysicalDevices, qt.HasLen, 1)
	c.Assert(l.instance.destroyed, qt.Equals, 1)

	text := r.Text()
	for _, line := range []string{
		"- Vulkan Loader: /usr/lib/libvulkan.so.1\n",
		"- Vulkan Loader version: 1.3.250\n",
		"- VULKAN_SDK environment variable not set\n",
		"- Environment variables:\n    - VK_LOADER_DEBUG: all\n",
		"- User-Defined Layers locations:\n" +
			"    - vkstatus configuration:\n        - /opt/layers\n" +
			"    - VK_LAYER_PATH variable: None\n" +
			"    - VK_ADD_LAYER_PATH variable: None\n",
		"- Available Layers:\n    - VK_LAYER_KHRONOS_validation (1.3.250, implementation 1): Khronos Validation Layer\n",
		"    - VK_LAYER_KHRONOS_validation (explicit, 1.3.250): /usr/share/vulkan/explicit_layer.d/VkLayer_khronos_validation.json\n",
		"- Vulkan Instance: API 1.3.0, extensions: VK_KHR_portability_enumeration\n",
		"- Physical Devices:\n    - NVIDIA GeForce RTX 3080 (Discrete GPU) with Vulkan 1.3.242\n",
		"        - vendorID: 0x10DE (NVIDIA)\n",
		"        - deviceID: 0x2206\n",
		"        - driverVersion: 535.104.5.0\n",
		"        - memory: 8GiB in 2 heaps\n",
		"        - deviceUUID: DEADBEEF000000000000000000000000\n",
		"        - driverName: NVIDIA\n        - driverInfo: 535.104.05\n",
	} {
		c.Assert(strings.Contains(text, line), qt.IsTrue, qt.Commentf("missing %q in\n%s", line, text))
	}
	c.Assert(strings.Contains(text, "deviceLUID"), qt.IsFalse)
	c.Assert(strings.Contains(text, "Invalid Layer Manifests"), qt.IsFalse)
	c.Assert(strings.Contains(text, "extensions: 1"), qt.IsFalse)
}

func TestGenerateLegacyLoader(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	l.version = core.Version1_0
	l.queried = false
	r := generate(l)

	c.Assert(l.requested, qt.Equals, core.Version1_0)
	c.Assert(strings.Contains(r.Text(), "- Vulkan Loader version: 1.0.0 (vkEnumerateInstanceVersion unavailable)\n"), qt.IsTrue)
}

func TestGenerateLoaderVersionFailure(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	l.versionErr = &loader.ResultError{Call: "vkEnumerateInstanceVersion", Result: -1}
	r := generate(l)

	c.Assert(r.Loader.Version, qt.Equals, core.Version1_0)
	c.Assert(l.requested, qt.Equals, core.Version1_0)
	c.Assert(r.Loader.Error, qt.Equals, l.versionErr.Error())

	text := r.Text()
	c.Assert(strings.Contains(text, "- Vulkan Loader version: 1.0.0 (vkEnumerateInstanceVersion failed: "+l.versionErr.Error()+")\n"), qt.IsTrue, qt.Commentf("%s", text))
	c.Assert(strings.Contains(r.Table(), "(query failed)"), qt.IsTrue)
}

func TestGenerateInstanceProblems(t *testing.T) {
	tests := []struct {
		err     error
		problem status.Problem
		line    string
	}{
		{errors.Wrap(device.ErrIncompatibleDriver, "vkCreateInstance"), status.ProblemIncompatibleDriver,
			"- Cannot find a compatible Vulkan installable client driver (ICD).\n"},
		{errors.Wrap(device.ErrExtensionNotPresent, "vkCreateInstance"), status.ProblemExtensionNotPresent,
			"- Cannot find a required Vulkan extension: "},
		{errors.Wrap(device.ErrLayerNotPresent, "vkCreateInstance"), status.ProblemLayerNotPresent,
			"- Cannot find a required Vulkan layer: "},
		{errors.New("device lost"), status.ProblemInstanceCreation,
			"- Failed to create a Vulkan instance: device lost\n"},
	}

	for _, test := range tests {
		t.Run(string(test.problem), func(t *testing.T) {
			c := qt.New(t)
			l := workingLoader()
			l.instanceErr = test.err
			r := generate(l)

			c.Assert(r.Instance.Created, qt.IsFalse)
			c.Assert(r.Instance.Problem, qt.Equals, test.problem)
			c.Assert(l.instance.destroyed, qt.Equals, 0)

			text := r.Text()
			c.Assert(strings.Contains(text, test.line), qt.IsTrue, qt.Commentf("%s", text))
			c.Assert(strings.Contains(text, "Physical Device"), qt.IsFalse)
		})
	}
}

func TestGenerateNoDevices(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	l.instance.devices = nil
	r := generate(l)

	c.Assert(strings.HasSuffix(r.Text(), "- No Physical Device Found\n"), qt.IsTrue)
	c.Assert(l.instance.destroyed, qt.Equals, 1)
}

func TestGenerateEnumerationFailures(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	l.layersErr = errors.New("out of host memory")
	l.instance.devicesErr = errors.New("initialization failed")
	text := generate(l).Text()

	c.Assert(strings.Contains(text, "- Failed to enumerate Vulkan layers: out of host memory\n"), qt.IsTrue)
	c.Assert(strings.Contains(text, "- Failed to enumerate physical devices: initialization failed\n"), qt.IsTrue)
}

func TestDeviceDetails(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration().Report
	cfg.DeviceDetails = true
	r := status.Generate(status.Sources{
		Loader:                 workingLoader(),
		Environment:            testEnvironment,
		PresentationExtensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
	}, cfg)

	text := r.Text()
	c.Assert(strings.Contains(text, "        - extensions: 1\n            - VK_KHR_swapchain\n"), qt.IsTrue)
	c.Assert(strings.Contains(text, "        - layers: 0\n"), qt.IsTrue)
	c.Assert(strings.HasSuffix(text, "- Presentation extensions: VK_KHR_surface, VK_KHR_xcb_surface\n"), qt.IsTrue)
}

func TestInvalidManifests(t *testing.T) {
	c := qt.New(t)
	r := status.Generate(status.Sources{
		Loader:      workingLoader(),
		Environment: testEnvironment,
		Layers: layers.Result{
			Invalid: []layers.InvalidManifest{{Path: "/etc/vulkan/implicit_layer.d/broken.json", Error: "bad json"}},
		},
	}, core.DefaultConfiguration().Report)

	text := r.Text()
	c.Assert(strings.Contains(text, "- No Vulkan Layer Manifest Found\n"+
		"- Invalid Layer Manifests:\n    - /etc/vulkan/implicit_layer.d/broken.json: bad json\n"), qt.IsTrue)
}

func TestJSON(t *testing.T) {
	c := qt.New(t)
	js, err := generate(workingLoader()).JSON()
	c.Assert(err, qt.IsNil)

	var decoded struct {
		Tool   string
		Loader struct {
			Found   bool
			Version string
		}
		PhysicalDevices []struct {
			Name string
		}
	}
	c.Assert(json.Unmarshal(js, &decoded), qt.IsNil)
	c.Assert(decoded.Tool, qt.Equals, status.ToolName)
	c.Assert(decoded.Loader.Found, qt.IsTrue)
	c.Assert(decoded.Loader.Version, qt.Equals, "1.3.250")
	c.Assert(decoded.PhysicalDevices, qt.HasLen, 1)
	c.Assert(decoded.PhysicalDevices[0].Name, qt.Equals, "NVIDIA GeForce RTX 3080")
}

func TestTable(t *testing.T) {
	c := qt.New(t)
	table := generate(workingLoader()).Table()
	c.Assert(strings.Contains(table, "NVIDIA GeForce RTX 3080"), qt.IsTrue)
	c.Assert(strings.Contains(table, "8GiB in 2 heaps"), qt.IsTrue)

	table = status.Generate(status.Sources{Environment: testEnvironment}, core.DefaultConfiguration().Report).Table()
	c.Assert(strings.Contains(table, "not found"), qt.IsTrue)
}

func BenchmarkText(b *testing.B) {
	r := generate(workingLoader())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Text()
	}
}

func TestDotenvFiles(t *testing.T) {
	c := qt.New(t)
	env := testEnvironment
	env.Dotenv = []environment.Dotenv{
		{Path: ".env", Overrides: true, Variables: []string{"VK_LOADER_DEBUG"}},
		{Path: "/etc/vkstatus/vulkan.env"},
	}
	r := status.Generate(status.Sources{Loader: workingLoader(), Environment: env}, core.DefaultConfiguration().Report)

	text := r.Text()
	c.Assert(strings.Contains(text, "- Environment variables:\n    - VK_LOADER_DEBUG: all\n"+
		"- Dotenv files:\n"+
		"    - .env (loaded at startup, overrides the process environment): VK_LOADER_DEBUG\n"+
		"    - /etc/vkstatus/vulkan.env: no variable applied\n"+
		"- User-Defined Layers locations:\n"), qt.IsTrue, qt.Commentf("%s", text))

	// absent without dotenv files
	c.Assert(strings.Contains(generate(workingLoader()).Text(), "Dotenv"), qt.IsFalse)
}

func TestIdentityWithoutIDProperties(t *testing.T) {
	c := qt.New(t)
	l := workingLoader()
	l.instance.devices[0].Identity = &loader.Identity{DriverName: "llvmpipe", DriverInfo: "Mesa 23.2.1"}
	text := generate(l).Text()

	c.Assert(strings.Contains(text, "UUID"), qt.IsFalse)
	c.Assert(strings.Contains(text, "        - driverName: llvmpipe\n        - driverInfo: Mesa 23.2.1\n"), qt.IsTrue)
}
