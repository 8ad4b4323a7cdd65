package status

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkstatus/utility/kar"
)

// Names of the report files inside a bundle
const (
	BundleText      = "status.txt"
	BundleJSON      = "status.json"
	BundleManifests = "manifests/"
)

// WriteBundle writes a kar archive holding the report as text and
// JSON, and a copy of every layer manifest it lists. Manifests that
// cannot be read anymore are skipped.
func WriteBundle(w io.Writer, r *Report) (int64, error) {
	builder, err := kar.NewBuilder(kar.Header{
		Author:      r.Tool + " " + r.Version,
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	if err != nil {
		return 0, errors.Wrap(err, "bundle")
	}
	defer builder.Close()

	if err := builder.Add(BundleText, strings.NewReader(r.Text())); err != nil {
		return 0, errors.Wrap(err, "bundle text")
	}
	js, err := r.JSON()
	if err != nil {
		return 0, errors.Wrap(err, "bundle json")
	}
	if err := builder.Add(BundleJSON, bytes.NewReader(js)); err != nil {
		return 0, errors.Wrap(err, "bundle json")
	}

	for i, path := range manifestFiles(r) {
		if err := addFile(builder, fmt.Sprintf("%s%02d-%s", BundleManifests, i, filepath.Base(path)), path); err != nil {
			log.WithError(err).WithField("path", path).Warn("manifest left out of bundle")
		}
	}
	return builder.WriteTo(w)
}

// manifestFiles lists each manifest file once, a file may declare several layers
func manifestFiles(r *Report) []string {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, m := range r.Manifests {
		add(m.Path)
	}
	for _, m := range r.InvalidManifests {
		add(m.Path)
	}
	return files
}

func addFile(builder *kar.Builder, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return builder.Add(name, f)
}
