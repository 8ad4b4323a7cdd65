package status

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/environment"
	"github.com/devblok/vkstatus/layers"
)

// OpenLoaderFunc opens the Vulkan loader
type OpenLoaderFunc func(cfg core.LoaderConfiguration, sdkPath string) (device.Loader, error)

// Collector gathers the sources of a report. The loader is opened on
// the first successful collection and kept until Close.
type Collector struct {
	Configuration          core.Configuration
	PresentationExtensions []string
	OpenLoader             OpenLoaderFunc

	mutex  sync.Mutex
	loader device.Loader
}

// NewCollector creates a Collector that opens the system loader
func NewCollector(cfg core.Configuration) *Collector {
	return &Collector{
		Configuration: cfg,
		OpenLoader:    device.NewVulkanLoader,
	}
}

// Collect loads the environment, scans manifests and generates a report.
// Only environment errors fail; everything else ends up in the report.
func (c *Collector) Collect() (*Report, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	env, err := environment.Load(c.Configuration.Environment)
	if err != nil {
		return nil, errors.Wrap(err, "environment")
	}

	userPaths := c.Configuration.Layers.UserPaths
	scan := layers.Scan(layers.SearchPaths(env, userPaths))

	src := Sources{
		Environment:            env,
		UserLayerPaths:         userPaths,
		Layers:                 scan,
		PresentationExtensions: c.PresentationExtensions,
	}

	if c.loader == nil {
		c.loader, src.LoaderError = c.OpenLoader(c.Configuration.Loader, env.SDKPath)
	}
	src.Loader = c.loader

	return Generate(src, c.Configuration.Report), nil
}

// Close releases the loader
func (c *Collector) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.loader == nil {
		return nil
	}
	err := c.loader.Close()
	c.loader = nil
	return err
}
