package status

import (
	"encoding/json"
	"fmt"
	"strings"

	units "github.com/docker/go-units"
	"github.com/xlab/tablewriter"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
)

const (
	indent1 = "    "
	indent2 = "        "
	indent3 = "            "
)

type logBuilder struct {
	strings.Builder
}

func (b *logBuilder) line(format string, args ...interface{}) {
	fmt.Fprintf(&b.Builder, format, args...)
	b.WriteByte('\n')
}

// Text renders the report as the status log
func (r *Report) Text() string {
	var b logBuilder
	b.line("- %s version: %s", r.Tool, r.Version)
	b.line("- Platform: %s", r.Platform)

	if !r.Loader.Found {
		b.line("- Could not find a Vulkan Loader.")
		if r.Loader.Error != "" {
			b.line("%s- %s", indent1, r.Loader.Error)
		}
		return b.String()
	}
	b.line("- Vulkan Loader: %s", r.Loader.Library)
	switch {
	case r.Loader.Error != "":
		b.line("- Vulkan Loader version: %s (vkEnumerateInstanceVersion failed: %s)", r.Loader.Version, r.Loader.Error)
	case r.Loader.VersionQueried:
		b.line("- Vulkan Loader version: %s", r.Loader.Version)
	default:
		b.line("- Vulkan Loader version: %s (vkEnumerateInstanceVersion unavailable)", r.Loader.Version)
	}

	if r.SDKPath != "" {
		b.line("- VULKAN_SDK environment variable: %s", r.SDKPath)
	} else {
		b.line("- VULKAN_SDK environment variable not set")
	}
	r.writeVariables(&b)
	r.writeDotenv(&b)
	r.writeLayerPaths(&b)
	r.writeLayers(&b)
	r.writeManifests(&b)

	if !r.writeInstance(&b) {
		return b.String()
	}
	r.writeDevices(&b)

	if len(r.PresentationExtensions) > 0 {
		b.line("- Presentation extensions: %s", strings.Join(r.PresentationExtensions, ", "))
	}
	return b.String()
}

func (r *Report) writeVariables(b *logBuilder) {
	var set int
	for _, v := range r.Variables {
		if v.Value != "" {
			set++
		}
	}
	if set == 0 {
		b.line("- No Vulkan environment variable set")
		return
	}
	b.line("- Environment variables:")
	for _, v := range r.Variables {
		if v.Value != "" {
			b.line("%s- %s: %s", indent1, v.Name, v.Value)
		}
	}
}

func (r *Report) writeDotenv(b *logBuilder) {
	if len(r.Dotenv) == 0 {
		return
	}
	b.line("- Dotenv files:")
	for _, d := range r.Dotenv {
		source := d.Path
		if d.Overrides {
			source += " (loaded at startup, overrides the process environment)"
		}
		if len(d.Variables) == 0 {
			b.line("%s- %s: no variable applied", indent1, source)
			continue
		}
		b.line("%s- %s: %s", indent1, source, strings.Join(d.Variables, ", "))
	}
}

func (r *Report) writeLayerPaths(b *logBuilder) {
	b.line("- User-Defined Layers locations:")
	pathList(b, "vkstatus configuration", r.LayerPaths.Configured)
	pathList(b, "VK_LAYER_PATH variable", r.LayerPaths.LayerPath)
	pathList(b, "VK_ADD_LAYER_PATH variable", r.LayerPaths.AddLayerPath)
}

func pathList(b *logBuilder, title string, paths []string) {
	if len(paths) == 0 {
		b.line("%s- %s: None", indent1, title)
		return
	}
	b.line("%s- %s:", indent1, title)
	for _, p := range paths {
		b.line("%s- %s", indent2, p)
	}
}

func (r *Report) writeLayers(b *logBuilder) {
	switch {
	case r.LayersError != "":
		b.line("- Failed to enumerate Vulkan layers: %s", r.LayersError)
	case len(r.Layers) == 0:
		b.line("- No Vulkan Layer Found")
	default:
		b.line("- Available Layers:")
		for _, l := range r.Layers {
			b.line("%s- %s (%s, implementation %d): %s", indent1, l.Name, l.SpecVersion, l.ImplementationVersion, l.Description)
		}
	}
}

func (r *Report) writeManifests(b *logBuilder) {
	if len(r.Manifests) == 0 {
		b.line("- No Vulkan Layer Manifest Found")
	} else {
		b.line("- Layer Manifests:")
		for _, m := range r.Manifests {
			b.line("%s- %s (%s, %s): %s", indent1, m.Name, m.Kind(), m.APIVersion, m.Path)
		}
	}
	if len(r.InvalidManifests) > 0 {
		b.line("- Invalid Layer Manifests:")
		for _, m := range r.InvalidManifests {
			b.line("%s- %s: %s", indent1, m.Path, m.Error)
		}
	}
}

// writeInstance reports false when there is no instance to go on with
func (r *Report) writeInstance(b *logBuilder) bool {
	switch r.Instance.Problem {
	case ProblemNone:
	case ProblemIncompatibleDriver:
		b.line("- Cannot find a compatible Vulkan installable client driver (ICD).")
		return false
	case ProblemExtensionNotPresent:
		b.line("- Cannot find a required Vulkan extension: %s", r.Instance.Error)
		return false
	case ProblemLayerNotPresent:
		b.line("- Cannot find a required Vulkan layer: %s", r.Instance.Error)
		return false
	default:
		b.line("- Failed to create a Vulkan instance: %s", r.Instance.Error)
		return false
	}

	if len(r.Instance.Extensions) > 0 {
		b.line("- Vulkan Instance: API %s, extensions: %s", r.Instance.APIVersion, strings.Join(r.Instance.Extensions, ", "))
	} else {
		b.line("- Vulkan Instance: API %s", r.Instance.APIVersion)
	}
	return true
}

func (r *Report) writeDevices(b *logBuilder) {
	switch {
	case r.DevicesError != "":
		b.line("- Failed to enumerate physical devices: %s", r.DevicesError)
		return
	case len(r.PhysicalDevices) == 0:
		b.line("- No Physical Device Found")
		return
	}

	b.line("- Physical Devices:")
	for _, d := range r.PhysicalDevices {
		invalid := ""
		if d.Invalid {
			invalid = " (invalid)"
		}
		b.line("%s- %s (%s) with Vulkan %s%s", indent1, d.Name, d.Type, d.APIVersion, invalid)
		b.line("%s- vendorID: 0x%04X (%s)", indent2, d.VendorID, device.VendorName(d.VendorID))
		b.line("%s- deviceID: 0x%04X", indent2, d.ID)
		b.line("%s- driverVersion: %s", indent2, device.FormatDriverVersion(d.VendorID, d.DriverVersion, r.Platform.OS))
		b.line("%s- memory: %s", indent2, memorySize(d))

		if id := d.Identity; id != nil {
			if id.IDQueried {
				b.line("%s- deviceUUID: %s", indent2, core.FormatUUID(id.DeviceUUID))
				b.line("%s- driverUUID: %s", indent2, core.FormatUUID(id.DriverUUID))
			}
			if id.IDQueried && id.LUIDValid {
				b.line("%s- deviceLUID: %s", indent2, core.FormatLUID(id.DeviceLUID))
			}
			if id.DriverName != "" {
				b.line("%s- driverName: %s", indent2, id.DriverName)
				b.line("%s- driverInfo: %s", indent2, id.DriverInfo)
			}
		}

		if r.details {
			details(b, "extensions", d.Extensions)
			details(b, "layers", d.Layers)
		}
	}
}

func details(b *logBuilder, title string, list []string) {
	b.line("%s- %s: %d", indent2, title, len(list))
	for _, s := range list {
		b.line("%s- %s", indent3, s)
	}
}

func memorySize(d device.PhysicalDeviceInfo) string {
	heaps := "heaps"
	if len(d.MemoryHeaps) == 1 {
		heaps = "heap"
	}
	return fmt.Sprintf("%s in %d %s", units.BytesSize(float64(d.Memory)), len(d.MemoryHeaps), heaps)
}

// Table renders a condensed report as a box table
func (r *Report) Table() string {
	table := tablewriter.CreateTable()
	table.UTF8Box()
	table.AddTitle(strings.ToUpper(r.Tool) + " " + r.Version)
	table.AddRow("Platform", r.Platform.String())

	if !r.Loader.Found {
		table.AddRow("Loader", "not found")
		return table.Render()
	}
	table.AddRow("Loader", r.Loader.Library)
	loaderVersion := r.Loader.Version.String()
	if r.Loader.Error != "" {
		loaderVersion += " (query failed)"
	}
	table.AddRow("Loader version", loaderVersion)
	sdk := r.SDKPath
	if sdk == "" {
		sdk = "not set"
	}
	table.AddRow("VULKAN_SDK", sdk)
	table.AddRow("Layers", fmt.Sprintf("%d available, %d manifests", len(r.Layers), len(r.Manifests)))

	table.AddSeparator()
	if !r.Instance.Created {
		table.AddRow("Instance", string(r.Instance.Problem))
		return table.Render()
	}
	table.AddRow("Instance", "API "+r.Instance.APIVersion.String())
	for _, d := range r.PhysicalDevices {
		table.AddSeparator()
		table.AddRow("Device", d.Name)
		table.AddRow("Type", d.Type)
		table.AddRow("Vendor", device.VendorName(d.VendorID))
		table.AddRow("API version", d.APIVersion.String())
		table.AddRow("Driver version", device.FormatDriverVersion(d.VendorID, d.DriverVersion, r.Platform.OS))
		table.AddRow("Memory", memorySize(d))
	}
	return table.Render()
}

// JSON renders the report as indented JSON
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
