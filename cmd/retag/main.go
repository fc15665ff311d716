// retag adds, removes or renames a hierarchical tag across image files.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"bildesk/pkg/config"
	"bildesk/pkg/exif"
	"bildesk/pkg/library"
	"bildesk/pkg/tags"
)

var (
	configPath = flag.String("config", "", "path to config file")
	addTag     = flag.String("add", "", "tag path to add")
	removeTag  = flag.String("remove", "", "tag path to remove")
	renameTag  = flag.String("rename", "", "tag rename as old=new")
	dryRun     = flag.Bool("n", false, "dry-run mode, don't write tags")
	workers    = flag.Int("workers", 4, "parallel writes (one per file at most)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := config.Load(*configPath)
	if err != nil {
		klog.Exitf("config: %v", err)
	}

	files := flag.Args()
	if len(files) == 0 {
		klog.Exitf("no files given. Usage: retag -add A%sB file.jpg [file2.jpg ...]", c.Separator)
	}

	edit, err := parseEdit(c.Separator)
	if err != nil {
		klog.Exitf("%v", err)
	}

	if *dryRun {
		klog.Infof("dry-run: would apply %s %s to %d files", edit.Op, edit.Path, len(files))
		return
	}

	et, err := exif.NewTool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer et.Close()

	res := library.Retag(context.Background(), et, files, edit, c.Separator, *workers)

	klog.Infof("updated %d, skipped %d, failed %d",
		len(res.Updated), len(res.Skipped), len(res.Failures))
	for path, ferr := range res.Failures {
		klog.Errorf("  %s: %v", path, ferr)
	}
	if len(res.Failures) > 0 {
		klog.Exitf("retag finished with failures")
	}
}

func parseEdit(sep string) (library.Edit, error) {
	switch {
	case *addTag != "":
		return library.Edit{Op: library.OpAdd, Path: tags.Parse(*addTag, sep)}, nil
	case *removeTag != "":
		return library.Edit{Op: library.OpRemove, Path: tags.Parse(*removeTag, sep)}, nil
	case *renameTag != "":
		old, updated, ok := strings.Cut(*renameTag, "=")
		if !ok || old == "" || updated == "" {
			return library.Edit{}, fmt.Errorf("-rename wants old=new, got %q", *renameTag)
		}
		return library.Edit{
			Op:      library.OpRename,
			Path:    tags.Parse(old, sep),
			NewPath: tags.Parse(updated, sep),
		}, nil
	}
	return library.Edit{}, fmt.Errorf("one of -add, -remove or -rename is required")
}
