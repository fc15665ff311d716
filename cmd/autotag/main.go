// autotag adds AI-suggested tags to images that have none.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"google.golang.org/genai"
	"k8s.io/klog/v2"

	"bildesk/pkg/config"
	"bildesk/pkg/exif"
	"bildesk/pkg/library"
	"bildesk/pkg/tags"
)

var (
	configPath = flag.String("config", "", "path to config file")
	dryRun     = flag.Bool("n", false, "dry-run mode, don't tag things")
	overwrite  = flag.Bool("o", false, "also tag images that already have tags")
	outDir     = flag.String("out", "", "output directory for thumbnails and cache")
	model      = flag.String("model", "gemini-2.5-flash", "model to use for suggestions")
	maxTags    = flag.Int("max", 5, "maximum suggested tags per image")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if len(flag.Args()) == 0 {
		klog.Exitf("no input directories. Usage: %s -out <output_dir> <input_dir> [input_dir2 ...]", os.Args[0])
	}

	c, err := config.Load(*configPath)
	if err != nil {
		klog.Exitf("config: %v", err)
	}
	c.InDirs = flag.Args()
	if *outDir != "" {
		c.OutDir = *outDir
	}
	c.Thumbnails = map[string]config.ThumbOpts{
		"Album": {Y: 350, Quality: 80},
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GOOGLE_AI_API_KEY"),
	})
	if err != nil {
		klog.Exitf("genai client: %v", err)
	}

	as, err := library.Collect(&c)
	if err != nil {
		klog.Exitf("unable to collect: %v", err)
	}
	klog.Infof("found %d albums", len(as.Albums))

	et, err := exif.NewTool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer func() {
		if err := et.Close(); err != nil {
			klog.Errorf("failed to close exiftool: %v", err)
		}
	}()

	total := 0
	tagged := 0
	for _, a := range as.Albums {
		klog.Infof("processing album: %s with %d images", a.Title, len(a.Images))
		for _, i := range a.Images {
			total++
			if !*overwrite && len(i.TagPaths) > 0 {
				klog.V(1).Infof("%s has tags: %v", i.InPath, i.TagPaths)
				continue
			}

			suggested, err := library.AutoTag(ctx, client, *model, i)
			if err != nil {
				klog.Errorf("autotag %s: %v", i.InPath, err)
				continue
			}
			if len(suggested) > *maxTags {
				suggested = suggested[0:*maxTags]
			}

			set := tags.NewSet(i.TagPaths...)
			changed := false
			for _, name := range suggested {
				if set.Add(tags.Path{name}) {
					changed = true
				}
			}
			if !changed {
				continue
			}

			fv, err := tags.Serialize(set.Paths(), c.Separator)
			if errors.Is(err, tags.ErrNoWrite) {
				continue
			}
			if err != nil {
				klog.Errorf("serialize tags for %s: %v", i.InPath, err)
				continue
			}

			klog.Infof("adding tags to %s: %v", i.InPath, suggested)
			if *dryRun {
				continue
			}
			if err := et.WriteFields(i.InPath, fv); err != nil {
				klog.Errorf("failed to write metadata for %s: %v", i.InPath, err)
				continue
			}
			tagged++
		}
	}

	klog.Infof("autotag completed: tagged %d of %d images", tagged, total)
}
