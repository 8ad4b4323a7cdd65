// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/devblok/vkstatus/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil {
		currentUserName = u.Username
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	list            = flag.String("l", "", "List the files of the given archive")
	extract         = flag.String("e", "", "Extract the given archive")
	compress        = flag.String("c", "", "Compress the given file/folder")
	dstFile         = flag.String("f", "out.kar", "Destination file when compressing, directory when extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	var ops int
	for _, op := range []string{*list, *extract, *compress} {
		if op != "" {
			ops++
		}
	}
	if ops > 1 {
		log.Fatal("only one operation at a time")
	}

	var err error
	switch {
	case *list != "":
		err = listFiles(*list, os.Stdout)
	case *extract != "":
		err = extractFiles(*extract, *dstFile)
	case *compress != "":
		err = compressFiles(*compress, *dstFile)
	default:
		flag.PrintDefaults()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openArchive(path string) (*kar.Archive, io.Closer, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	archive, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, nil, errors.Wrap(err, path)
	}
	return archive, r, nil
}

func listFiles(path string, w io.Writer) error {
	archive, closer, err := openArchive(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	header := archive.Header()
	fmt.Fprintf(w, "%s by %s, %s, version %d\n", path, header.Author,
		time.Unix(header.DateCreated, 0).Format(time.RFC3339), header.Version)
	for _, entry := range header.Index {
		fmt.Fprintf(w, "%10d %10d %s\n", entry.Size, entry.CompressedSize, entry.Name)
	}
	return nil
}

func extractFiles(path, dst string) error {
	if dst == "out.kar" {
		dst = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	archive, closer, err := openArchive(path)
	if err != nil {
		return err
	}
	defer closer.Close()

	for _, name := range archive.Names() {
		target := filepath.Join(dst, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
			return errors.Errorf("%s escapes the destination directory", name)
		}
		if err := extractFile(archive, name, target); err != nil {
			return err
		}
		log.WithField("file", target).Info("extracted")
	}
	return nil
}

func extractFile(archive *kar.Archive, name, target string) error {
	r, err := archive.Open(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	return err
}

func compressFiles(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	var filesToCompress []string
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		filesToCompress = append(filesToCompress, path)
		return nil
	})
	if err != nil {
		return err
	}

	name := *author
	if name == "" {
		name = currentUserName
	}
	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      name,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	for _, ftc := range filesToCompress {
		if err := addFile(karBuilder, src, ftc); err != nil {
			return err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	n, err := karBuilder.WriteTo(out)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"file": dst, "files": len(filesToCompress), "size": n}).Info("archive written")
	return nil
}

func addFile(b *kar.Builder, root, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	name, err := filepath.Rel(root, path)
	if err != nil || name == "." {
		name = filepath.Base(path)
	}
	return b.Add(filepath.ToSlash(name), f)
}
