// bildesk scans photo directories into a tagged catalog and serves the
// gallery API for the UI.
package main

import (
	"context"
	"flag"
	"net/http"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"k8s.io/klog/v2"

	"bildesk/pkg/config"
	"bildesk/pkg/exif"
	"bildesk/pkg/library"
	"bildesk/pkg/server"
	"bildesk/pkg/store"
	"bildesk/pkg/watch"
)

var (
	configPath  = flag.String("config", "", "path to config file")
	inDirs      = flag.String("in", "", "comma-separated input directories (overrides config)")
	outDir      = flag.String("out", "", "output directory for gallery files (overrides config)")
	listenFlag  = flag.Bool("listen", false, "serve the gallery API via HTTP")
	addr        = flag.String("addr", "", "host:port to bind to in listen mode (overrides config)")
	watchFlag   = flag.Bool("watch", false, "watch input directories and rescan on change")
	title       = flag.String("title", "", "title of photo collection (overrides config)")
	description = flag.String("description", "", "description of photo collection (overrides config)")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c, err := config.Load(*configPath)
	if err != nil {
		klog.Exitf("config: %v", err)
	}
	if *inDirs != "" {
		c.InDirs = strings.Split(*inDirs, ",")
	}
	if *outDir != "" {
		c.OutDir = *outDir
	}
	if *addr != "" {
		c.Listen = *addr
	}
	if *title != "" {
		c.Collection = *title
	}
	if *description != "" {
		c.Description = *description
	}

	if len(c.InDirs) == 0 {
		klog.Exitf("no input directories: pass --in or set in_dirs in the config")
	}

	st, err := store.Open(c.DBPath)
	if err != nil {
		klog.Exitf("open catalog: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	a, err := library.Collect(&c)
	if err != nil {
		klog.Exitf("collect failed: %v", err)
	}
	if err := syncCatalog(ctx, st, a, c.Separator); err != nil {
		klog.Exitf("catalog sync failed: %v", err)
	}

	if !*listenFlag && !*watchFlag {
		klog.Infof("cataloged %d images across %d albums", len(a.Images), len(a.Albums))
		return
	}

	et, err := exif.NewTool()
	if err != nil {
		klog.Exitf("exiftool: %v", err)
	}
	defer et.Close()

	srv := server.New(&c, st, et)
	srv.SetAssembly(a)

	rescan := func() {
		a, err := library.Collect(&c)
		if err != nil {
			klog.Errorf("rescan failed: %v", err)
			return
		}
		if err := syncCatalog(ctx, st, a, c.Separator); err != nil {
			klog.Errorf("catalog sync failed: %v", err)
			return
		}
		srv.SetAssembly(a)
	}

	var wg sync.WaitGroup
	if *watchFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch.Watch(ctx, c.InDirs, rescan); err != nil {
				klog.Errorf("watch: %v", err)
			}
		}()
	}

	if *listenFlag {
		wg.Add(1)
		go func() {
			defer wg.Done()
			klog.Infof("Listening on %s...", c.Listen)
			if err := http.ListenAndServe(c.Listen, srv.Handler()); err != nil {
				klog.Exitf("listen failed: %v", err)
			}
		}()
	}

	wg.Wait()
}

func syncCatalog(ctx context.Context, st *store.Store, a *library.Assembly, sep string) error {
	keep := make([]string, 0, len(a.Images))
	for _, rec := range library.Records(a.Images, sep) {
		if err := st.Upsert(ctx, rec); err != nil {
			return err
		}
		keep = append(keep, rec.Path)
	}

	pruned, err := st.Prune(ctx, keep)
	if err != nil {
		return err
	}
	if pruned > 0 {
		klog.Infof("pruned %d vanished images from catalog", pruned)
	}
	return nil
}
