// Package environment snapshots the process environment the Vulkan
// loader reads its configuration from.
package environment

import (
	"os"
	"runtime"
	"sort"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/core"
)

// Variables the Vulkan loader reads, in report order
var LoaderVariables = []string{
	"VK_LAYER_PATH",
	"VK_ADD_LAYER_PATH",
	"VK_INSTANCE_LAYERS",
	"VK_LOADER_LAYERS_ENABLE",
	"VK_LOADER_LAYERS_DISABLE",
	"VK_LOADER_DEBUG",
	"VK_ICD_FILENAMES",
	"VK_DRIVER_FILES",
	"VK_ADD_DRIVER_FILES",
	"VK_LOADER_DRIVERS_SELECT",
	"VK_LOADER_DRIVERS_DISABLE",
}

const sdkVariable = "VULKAN_SDK"

// StartupDotenv is the file envy loads over the process environment
// when the program starts, before anything else runs
const StartupDotenv = ".env"

// startupDotenv is what StartupDotenv held at startup, nil without one
var startupDotenv = readStartupDotenv(StartupDotenv)

func readStartupDotenv(path string) *Dotenv {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil
	}
	d := &Dotenv{
		Path:      path,
		Overrides: true,
		Variables: sortedKeys(values),
	}
	log.WithFields(log.Fields{
		"file":      d.Path,
		"variables": d.Variables,
	}).Warn("startup dotenv file overrides the process environment")
	return d
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Dotenv is a dotenv file applied to the process environment
type Dotenv struct {
	Path string

	// Overrides is set when the file replaced variables already set
	Overrides bool

	// Variables the file set
	Variables []string
}

// Variable is one environment variable
type Variable struct {
	Name  string
	Value string
}

// Platform describes the running system
type Platform struct {
	OS      string
	Arch    string
	Kernel  string
	Release string
}

func (p Platform) String() string {
	if p.Kernel == "" {
		return p.OS + "/" + p.Arch
	}
	return p.Kernel + " " + p.Release + " (" + p.OS + "/" + p.Arch + ")"
}

// Environment is the Vulkan related part of the process environment
type Environment struct {
	SDKPath      string
	Variables    []Variable
	LayerPath    []string
	AddLayerPath []string
	Platform     Platform

	// Dotenv files applied, the startup one first
	Dotenv []Dotenv

	// Lookup returns any variable, needed for XDG and HOME lookups
	Lookup func(string) string `json:"-"`
}

// Load applies the configured dotenv files and takes the snapshot.
// Configured dotenv values never override a variable already set to a
// non empty value; the startup .env did override them and is listed
// first. A missing dotenv file is an error.
func Load(cfg core.EnvironmentConfiguration) (Environment, error) {
	envy.Reload()

	var applied []Dotenv
	if startupDotenv != nil {
		applied = append(applied, *startupDotenv)
	}

	for _, file := range cfg.Files {
		values, err := godotenv.Read(file)
		if err != nil {
			return Environment{}, errors.Wrapf(err, "dotenv file %s", file)
		}
		dotenv := Dotenv{Path: file}
		for _, key := range sortedKeys(values) {
			if current, set := os.LookupEnv(key); set && current != "" {
				log.WithField("variable", key).Debug("dotenv value ignored, already set")
				continue
			}
			if err := envy.MustSet(key, values[key]); err != nil {
				return Environment{}, errors.Wrapf(err, "setting %s", key)
			}
			dotenv.Variables = append(dotenv.Variables, key)
		}
		applied = append(applied, dotenv)
		log.WithField("file", file).Debug("dotenv file applied")
	}

	lookup := func(key string) string {
		return envy.Get(key, "")
	}
	env := Environment{
		SDKPath:      lookup(sdkVariable),
		LayerPath:    core.SplitPathList(lookup("VK_LAYER_PATH"), os.PathListSeparator),
		AddLayerPath: core.SplitPathList(lookup("VK_ADD_LAYER_PATH"), os.PathListSeparator),
		Platform:     platform(),
		Dotenv:       applied,
		Lookup:       lookup,
	}
	for _, name := range LoaderVariables {
		if value := lookup(name); value != "" {
			env.Variables = append(env.Variables, Variable{Name: name, Value: value})
		}
	}
	return env, nil
}

func platform() Platform {
	p := Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	kernel, release, err := uname()
	if err != nil {
		log.WithError(err).Debug("platform version unavailable")
		return p
	}
	p.Kernel, p.Release = kernel, release
	return p
}
