package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xlab/closer"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/device"
	"github.com/devblok/vkstatus/status"
)

func init() {
	runtime.LockOSThread()
}

type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(value string) error {
	*l = append(*l, value)
	return nil
}

var (
	configuration = core.DefaultConfiguration()

	format      = flag.String("format", "text", "Output format: text, table or json")
	apiVersion  = flag.String("api", configuration.Report.APIVersion.String(), "Highest Vulkan API version to create the instance with")
	portability = flag.Bool("portability", configuration.Report.Portability, "Enumerate portability devices when the loader supports it")
	details     = flag.Bool("details", false, "List device extensions and layers")
	interval    = flag.Duration("interval", 0, "Refresh the report periodically, printing it when it changes")
	bundle      = flag.String("bundle", "", "Write a kar bundle with the report and the layer manifests")
	useSDL      = flag.Bool("sdl", false, "Load Vulkan through SDL and list the presentation extensions")
	verbose     = flag.Bool("v", false, "Debug logging")

	envFiles     listFlag
	layerPaths   listFlag
	libraryPaths listFlag
)

func init() {
	flag.Var(&envFiles, "env", "Dotenv file applied before querying, repeatable")
	flag.Var(&layerPaths, "layers", "User-defined layer location, repeatable")
	flag.Var(&libraryPaths, "library", "Vulkan loader library to try first, repeatable")
}

// openLoader opens the Vulkan loader for the collector
var openLoader status.OpenLoaderFunc = device.NewVulkanLoader

func main() {
	flag.Parse()
	defer closer.Close()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(os.Stdout); err != nil {
		log.Error(err)
		closer.Exit(1)
	}
}

// run prints the report, and keeps printing it on change when
// refreshing. The loader and SDL are released when it returns.
func run(w io.Writer) error {
	if err := configure(); err != nil {
		return err
	}

	collector := status.NewCollector(configuration)
	collector.OpenLoader = openLoader
	if *useSDL {
		procAddr, extensions, cleanup, err := sdlVulkan()
		if err != nil {
			return err
		}
		defer cleanup()
		configuration.Loader.ProcAddr = procAddr
		configuration.Loader.ProcAddrOrigin = "SDL"
		collector.Configuration = configuration
		collector.PresentationExtensions = extensions
	}
	release := func() {
		if err := collector.Close(); err != nil {
			log.WithError(err).Warn("closing the vulkan loader")
		}
	}
	defer release()
	// interrupted while refreshing
	closer.Bind(release)

	report, err := collector.Collect()
	if err != nil {
		return err
	}
	last, err := render(report)
	if err != nil {
		return err
	}
	fmt.Fprint(w, last)

	if *bundle != "" {
		if err := writeBundle(*bundle, report); err != nil {
			return err
		}
	}

	time := core.NewTime(configuration.Time)
	defer time.Stop()
	if !time.Refreshing() {
		return nil
	}

	log.WithField("interval", time.Interval()).Info("watching for changes")
	for range time.RefreshTicker() {
		report, err := collector.Collect()
		if err != nil {
			log.WithError(err).Error("report")
			continue
		}
		out, err := render(report)
		if err != nil {
			log.WithError(err).Error("render")
			continue
		}
		if out != last {
			fmt.Fprint(w, "\n"+out)
			last = out
		}
	}
	return nil
}

func configure() error {
	version, err := core.ParseVersion(*apiVersion)
	if err != nil {
		return err
	}
	switch *format {
	case "text", "table", "json":
	default:
		return errors.Errorf("unknown format %q", *format)
	}

	configuration.Time.RefreshInterval = *interval
	configuration.Loader.LibraryPaths = libraryPaths
	configuration.Environment.Files = envFiles
	configuration.Layers.UserPaths = layerPaths
	configuration.Report.APIVersion = version
	configuration.Report.Portability = *portability
	configuration.Report.DeviceDetails = *details
	return nil
}

func render(report *status.Report) (string, error) {
	switch *format {
	case "table":
		return report.Table() + "\n", nil
	case "json":
		js, err := report.JSON()
		if err != nil {
			return "", err
		}
		return string(js) + "\n", nil
	}
	return report.Text(), nil
}

func writeBundle(path string, report *status.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := status.WriteBundle(f, report)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": path, "size": n}).Info("bundle written")
	return nil
}
