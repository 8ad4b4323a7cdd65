package main

import (
	"os"

	"github.com/gotk3/gotk3/gtk"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/core"
	"github.com/devblok/vkstatus/status"
)

func init() {
	gtk.Init(&os.Args)
}

func main() {
	collector := status.NewCollector(core.DefaultConfiguration())
	os.Exit(run(collector))
}

func run(collector *status.Collector) int {
	defer func() {
		if err := collector.Close(); err != nil {
			log.WithError(err).Warn("closing the vulkan loader")
		}
	}()

	app, err := buildInterface(collector)
	if err != nil {
		log.Error(err)
		return 1
	}
	return app.Run(os.Args)
}
