package status_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/status"
)

const testManifest = `{
	"file_format_version": "1.2.0",
	"layer": {
		"name": "VK_LAYER_TEST_collector",
		"type": "GLOBAL",
		"library_path": "./libVkLayer_test.so",
		"api_version": "1.3.250",
		"implementation_version": "1",
		"description": "collector test layer"
	}
}`

func TestCollector(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()
	c.Assert(ioutil.WriteFile(filepath.Join(dir, "test.json"), []byte(testManifest), 0644), qt.IsNil)
	t.Setenv("VULKAN_SDK", "/opt/vulkan-sdk")

	fake := workingLoader()
	var opened int
	var sdkPath string

	cfg := core.DefaultConfiguration()
	cfg.Layers.UserPaths = []string{dir}
	collector := status.NewCollector(cfg)
	collector.OpenLoader = func(_ core.LoaderConfiguration, sdk string) (device.Loader, error) {
		opened++
		sdkPath = sdk
		return fake, nil
	}

	for i := 0; i < 2; i++ {
		r, err := collector.Collect()
		c.Assert(err, qt.IsNil)
		c.Assert(r.Loader.Found, qt.IsTrue)
		c.Assert(r.SDKPath, qt.Equals, "/opt/vulkan-sdk")
		c.Assert(r.LayerPaths.Configured, qt.DeepEquals, []string{dir})

		var found bool
		for _, m := range r.Manifests {
			if m.Name == "VK_LAYER_TEST_collector" {
				found = true
			}
		}
		c.Assert(found, qt.IsTrue)
	}
	c.Assert(opened, qt.Equals, 1)
	c.Assert(sdkPath, qt.Equals, "/opt/vulkan-sdk")
	c.Assert(fake.instance.destroyed, qt.Equals, 2)

	c.Assert(collector.Close(), qt.IsNil)
	c.Assert(fake.closed, qt.Equals, 1)
	c.Assert(collector.Close(), qt.IsNil)
	c.Assert(fake.closed, qt.Equals, 1)
}

func TestCollectorRetriesLoader(t *testing.T) {
	c := qt.New(t)
	var opened int
	collector := status.NewCollector(core.DefaultConfiguration())
	collector.OpenLoader = func(core.LoaderConfiguration, string) (device.Loader, error) {
		opened++
		return nil, device.ErrLoaderNotFound
	}

	for i := 0; i < 2; i++ {
		r, err := collector.Collect()
		c.Assert(err, qt.IsNil)
		c.Assert(r.Loader.Found, qt.IsFalse)
		c.Assert(r.Loader.Error, qt.Equals, device.ErrLoaderNotFound.Error())
	}
	c.Assert(opened, qt.Equals, 2)
}

func TestCollectorEnvironmentError(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration()
	cfg.Environment.Files = []string{filepath.Join(t.TempDir(), "missing.env")}
	collector := status.NewCollector(cfg)

	_, err := collector.Collect()
	c.Assert(err, qt.ErrorMatches, "environment: .*")
}

func TestCollectorLogsScanOnce(t *testing.T) {
	c := qt.New(t)
	hook := test.NewGlobal()
	defer hook.Reset()
	level := log.GetLevel()
	log.SetLevel(log.DebugLevel)
	defer log.SetLevel(level)

	collector := status.NewCollector(core.DefaultConfiguration())
	collector.OpenLoader = func(core.LoaderConfiguration, string) (device.Loader, error) {
		return workingLoader(), nil
	}
	_, err := collector.Collect()
	c.Assert(err, qt.IsNil)

	var scanned int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "layer manifests scanned" {
			scanned++
		}
	}
	c.Assert(scanned, qt.Equals, 1)
}
