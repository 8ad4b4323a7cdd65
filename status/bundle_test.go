package status_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/layers"
	"github.com/devblok/vkstatus/status"
	"github.com/devblok/vkstatus/utility/kar"
)

func TestWriteBundle(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	manifest := filepath.Join(dir, "VkLayer_test.json")
	c.Assert(ioutil.WriteFile(manifest, []byte(`{"file_format_version": "1.0.0"}`), 0644), qt.IsNil)

	r := status.Generate(status.Sources{
		Loader:      workingLoader(),
		Environment: testEnvironment,
		Layers: layers.Result{
			// two layers declared by the same file
			Manifests: []layers.Manifest{
				{Path: manifest, Name: "VK_LAYER_A"},
				{Path: manifest, Name: "VK_LAYER_B"},
			},
			Invalid: []layers.InvalidManifest{{Path: filepath.Join(dir, "gone.json"), Error: "removed"}},
		},
	}, core.DefaultConfiguration().Report)

	var buf bytes.Buffer
	n, err := status.WriteBundle(&buf, r)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(buf.Len()))

	archive, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)
	c.Assert(archive.Names(), qt.ContentEquals, []string{
		status.BundleText,
		status.BundleJSON,
		"manifests/00-VkLayer_test.json",
	})
	c.Assert(strings.HasPrefix(archive.Header().Author, status.ToolName), qt.IsTrue)

	text, err := archive.ReadAll(status.BundleText)
	c.Assert(err, qt.IsNil)
	c.Assert(string(text), qt.Equals, r.Text())

	copied, err := archive.ReadAll("manifests/00-VkLayer_test.json")
	c.Assert(err, qt.IsNil)
	c.Assert(string(copied), qt.Equals, `{"file_format_version": "1.0.0"}`)
}
