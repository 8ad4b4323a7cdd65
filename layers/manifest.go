package layers

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/devblok/vkstatus/core"
)

// ErrManifestFormat is returned for JSON that is not a layer manifest
var ErrManifestFormat = errors.New("not a vulkan layer manifest")

// Manifest is one layer declared by a manifest file. A file using
// the "layers" array declares several.
type Manifest struct {
	Path                  string
	FileFormatVersion     string
	Name                  string
	Type                  string
	LibraryPath           string   `json:",omitempty"`
	ComponentLayers       []string `json:",omitempty"`
	APIVersion            core.Version
	ImplementationVersion string
	Description           string
	Implicit              bool
}

// Kind is "implicit" or "explicit"
func (m Manifest) Kind() string {
	if m.Implicit {
		return "implicit"
	}
	return "explicit"
}

type manifestFile struct {
	FileFormatVersion string          `json:"file_format_version"`
	Layer             *manifestLayer  `json:"layer"`
	Layers            []manifestLayer `json:"layers"`
}

type manifestLayer struct {
	Name                  string          `json:"name"`
	Type                  string          `json:"type"`
	LibraryPath           string          `json:"library_path"`
	ComponentLayers       []string        `json:"component_layers"`
	APIVersion            string          `json:"api_version"`
	ImplementationVersion json.RawMessage `json:"implementation_version"`
	Description           string          `json:"description"`
}

// ParseManifest decodes a layer manifest. The path is only recorded.
func ParseManifest(path string, data []byte, implicit bool) ([]Manifest, error) {
	var file manifestFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(ErrManifestFormat, err.Error())
	}
	if file.FileFormatVersion == "" {
		return nil, errors.Wrap(ErrManifestFormat, "missing file_format_version")
	}

	entries := file.Layers
	if file.Layer != nil {
		entries = append([]manifestLayer{*file.Layer}, entries...)
	}
	if len(entries) == 0 {
		return nil, errors.Wrap(ErrManifestFormat, "no layer declared")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "" {
			return nil, errors.Wrap(ErrManifestFormat, "layer without a name")
		}
		if entry.LibraryPath == "" && len(entry.ComponentLayers) == 0 {
			return nil, errors.Wrapf(ErrManifestFormat, "%s: no library_path", entry.Name)
		}
		apiVersion, err := core.ParseVersion(entry.APIVersion)
		if err != nil {
			return nil, errors.Wrapf(ErrManifestFormat, "%s: api_version: %s", entry.Name, err)
		}
		manifests = append(manifests, Manifest{
			Path:                  path,
			FileFormatVersion:     file.FileFormatVersion,
			Name:                  entry.Name,
			Type:                  entry.Type,
			LibraryPath:           entry.LibraryPath,
			ComponentLayers:       entry.ComponentLayers,
			APIVersion:            apiVersion,
			ImplementationVersion: strings.Trim(string(entry.ImplementationVersion), `"`),
			Description:           entry.Description,
			Implicit:              implicit,
		})
	}
	return manifests, nil
}
