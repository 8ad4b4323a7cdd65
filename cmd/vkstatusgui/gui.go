package main

import (
	"github.com/gobuffalo/packr"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/status"
)

// Global variables for GTK and resources
var (
	Builder         *gtk.Builder
	StaticResources packr.Box
)

func init() {
	StaticResources = packr.NewBox("./resources")
}

func buildInterface(collector *status.Collector) (*gtk.Application, error) {
	app, err := gtk.ApplicationNew("org.devblok.vkstatus", glib.APPLICATION_FLAGS_NONE)
	if err != nil {
		return nil, err
	}

	app.Connect("startup", func() {
		log.Info("Application starting")
	})

	app.Connect("activate", func() {
		log.Info("Application activating")

		win, view, err := loadWindow()
		if err != nil {
			log.Fatal(err)
		}

		refresh := func() {
			view.SetText(reportText(collector))
		}
		if obj, err := Builder.GetObject("refreshButton"); err != nil {
			log.Error(err)
		} else if button, ok := obj.(*gtk.Button); ok {
			button.Connect("clicked", refresh)
		}
		refresh()

		win.SetDefaultSize(720, 600)
		win.ShowAll()
		app.AddWindow(win)
	})

	app.Connect("shutdown", func() {
		log.Info("Application shutting down")
	})
	return app, nil
}

func loadWindow() (*gtk.Window, *gtk.TextBuffer, error) {
	resource, err := StaticResources.FindString("vkstatus.glade")
	if err != nil {
		return nil, nil, err
	}

	builder, err := gtk.BuilderNew()
	if err != nil {
		return nil, nil, err
	}
	if err := builder.AddFromString(resource); err != nil {
		return nil, nil, err
	}
	Builder = builder

	obj, err := builder.GetObject("mainWindow")
	if err != nil {
		return nil, nil, err
	}
	win, ok := obj.(*gtk.Window)
	if !ok {
		return nil, nil, errors.New("failed to cast Object from builder to Window")
	}

	obj, err = builder.GetObject("statusView")
	if err != nil {
		return nil, nil, err
	}
	view, ok := obj.(*gtk.TextView)
	if !ok {
		return nil, nil, errors.New("failed to cast Object from builder to TextView")
	}
	buffer, err := view.GetBuffer()
	if err != nil {
		return nil, nil, err
	}
	return win, buffer, nil
}

func reportText(collector *status.Collector) string {
	report, err := collector.Collect()
	if err != nil {
		log.WithError(err).Error("report")
		return err.Error()
	}
	return report.Text()
}
