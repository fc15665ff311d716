package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"

	"bildesk/pkg/tags"
)

var exifDate = "2006:01:02 15:04:05"

func read(path string, et *exiftool.Exiftool, sep string) (Image, error) {
	i := Image{}
	fis := et.ExtractMetadata(path)
	if len(fis) == 0 {
		return i, fmt.Errorf("no metadata entry for %q", path)
	}
	fi := fis[0]
	var err error

	if fi.Err != nil {
		return i, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v\n", k, v)
	}

	i.Make, err = fi.GetString("Make")
	if err != nil {
		klog.V(1).Infof("unable to get make for %s: %v", path, err)
	}

	i.Model, err = fi.GetString("Model")
	if err != nil {
		klog.V(1).Infof("unable to get model for %s: %v", path, err)
	}

	i.LensMake, _ = fi.GetString("LensMake")
	i.LensModel, _ = fi.GetString("LensModel")

	i.Height, err = fi.GetInt("ImageHeight")
	if err != nil {
		return i, fmt.Errorf("get ImageHeight: %w", err)
	}

	i.Width, err = fi.GetInt("ImageWidth")
	if err != nil {
		return i, fmt.Errorf("get ImageWidth: %w", err)
	}

	i.ISO, err = fi.GetInt("ISO")
	if err != nil {
		klog.V(1).Infof("unable to get ISO for %s: %v", path, err)
	}

	i.Aperture, err = fi.GetFloat("ApertureValue")
	if err != nil {
		klog.V(1).Infof("unable to get aperture for %s: %v", path, err)
	}

	i.Speed, err = fi.GetString("ShutterSpeed")
	if err != nil {
		klog.V(1).Infof("unable to get shutter speed for %s: %v", path, err)
	}

	i.FocalLength, err = fi.GetString("FocalLength")
	if err != nil {
		klog.V(1).Infof("unable to get focal length for %s: %v", path, err)
	}
	i.FocalLength = strings.ReplaceAll(i.FocalLength, ".0", "")

	// The three tag fields are merged into one hierarchical model rather
	// than read individually.
	i.TagPaths, err = tags.Normalize(tags.RawFields{
		HierarchicalSubject: fi.Fields[tags.FieldHierarchicalSubject],
		Subject:             fi.Fields[tags.FieldSubject],
		Keywords:            fi.Fields[tags.FieldKeywords],
	}, sep)
	if err != nil {
		return i, fmt.Errorf("normalize tags: %w", err)
	}

	i.Description, _ = fi.GetString("ImageDescription")

	i.Title, err = fi.GetString("Headline")
	if err != nil {
		klog.V(2).Infof("unable to get headline: %v", err)
	}

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", path, err)
		return i, nil
	}

	i.Taken, err = time.Parse(exifDate, ds)
	if err != nil {
		return i, fmt.Errorf("parse time %q: %w", ds, err)
	}

	return i, nil
}

// Find walks root for images and reads their metadata, reconciling tag
// fields with sep.
func Find(root string, sep string) ([]*Image, error) {
	found := []*Image{}

	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	defer et.Close()

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}

			if !isImage(path) {
				return nil
			}

			klog.V(1).Infof("found %s", path)
			i, err := read(path, et, sep)
			if err != nil {
				klog.Errorf("read failure: %v", err)
				return err
			}

			i.InPath = path
			i.RelPath, err = filepath.Rel(root, path)
			if err != nil {
				return err
			}
			i.BasePath = urlSafePath(filepath.Base(path))
			i.Hier = strings.Split(i.RelPath, string(filepath.Separator))

			fi, err := os.Stat(path)
			if err != nil {
				klog.Errorf("stat failure: %v", err)
				return err
			}
			i.ModTime = fi.ModTime()

			found = append(found, &i)
			return nil
		},
	})

	return found, err
}

func isImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
