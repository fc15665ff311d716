// Package library scans image directories, reconciles each file's tag
// metadata into hierarchical tag paths, and assembles the results into
// albums for the catalog and the gallery.
package library

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"bildesk/pkg/config"
	"bildesk/pkg/store"
)

var favLeaf = "fav"

var recentLimit = 60

// An Assembly is an assembled collection of images.
type Assembly struct {
	Images    []*Image
	Albums    []*Album
	TagAlbums []*Album
	Favorites []*Album
	Recent    *Album
}

// Collect scans every input directory and assembles albums: one per source
// directory, one per hierarchical tag path, favorites, and a recent stream.
func Collect(c *config.Config) (*Assembly, error) {
	outDir := c.OutDir

	is := []*Image{}
	for _, inDir := range c.InDirs {
		klog.Infof("collect: %s -> %s", inDir, outDir)
		found, err := Find(inDir, c.Separator)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", inDir, err)
		}
		is = append(is, found...)
	}

	albums := map[string]*Album{}
	tagAlbums := map[string]*Album{}
	favs := map[string]*Album{}

	for _, i := range is {
		klog.V(1).Infof("assemble image: %s tags=%v", i.InPath, i.TagPaths)
		var err error
		i.Resize, err = thumbnails(*i, outDir, c.Thumbnails)
		if err != nil {
			return nil, fmt.Errorf("thumbnails: %w", err)
		}

		rd := filepath.Dir(i.RelPath)
		i.OutPath = filepath.Join(outDir, i.RelPath)

		if albums[rd] == nil {
			albums[rd] = &Album{
				InPath:  rd,
				OutPath: filepath.Join(outDir, rd),
				Images:  []*Image{},
				Title:   filepath.Base(rd),
				Hier:    strings.Split(rd, string(filepath.Separator)),
			}
		}
		albums[rd].Images = append(albums[rd].Images, i)

		for _, p := range i.TagPaths {
			key := p.Join(c.Separator)
			if tagAlbums[key] == nil {
				hier := append([]string{"tags"}, p...)
				tagAlbums[key] = &Album{
					InPath:  rd,
					OutPath: filepath.Join(outDir, urlSafePath(filepath.Join(hier...))),
					Images:  []*Image{},
					Title:   p.Leaf(),
					Hier:    hier,
				}
			}
			tagAlbums[key].Images = append(tagAlbums[key].Images, i)

			if p.Leaf() != favLeaf {
				continue
			}
			if favs["all"] == nil {
				favs["all"] = &Album{
					InPath:  rd,
					OutPath: filepath.Join(outDir, "favorites"),
					Images:  []*Image{},
					Title:   "Favorites",
					Hier:    []string{"favorites"},
				}
			}
			favs["all"].Images = append(favs["all"].Images, i)
		}
	}

	as := sortedAlbums(albums)
	ts := sortedAlbums(tagAlbums)

	fs := []*Album{}
	for _, f := range favs {
		if len(f.Images) > 1 {
			fs = append(fs, f)
		}
	}

	recentImages := append([]*Image{}, is...)
	sort.Slice(recentImages, func(i, j int) bool {
		return recentImages[i].Taken.After(recentImages[j].Taken)
	})
	if len(recentImages) > recentLimit {
		recentImages = recentImages[0:recentLimit]
	}
	recent := &Album{Title: "Recent", Images: recentImages, OutPath: outDir}

	return &Assembly{
		Images:    is,
		Albums:    as,
		TagAlbums: ts,
		Favorites: fs,
		Recent:    recent,
	}, nil
}

func sortedAlbums(m map[string]*Album) []*Album {
	out := []*Album{}
	for _, a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OutPath < out[j].OutPath
	})
	return out
}

// Records shapes an assembly's images into catalog records, with tag paths
// joined by sep.
func Records(is []*Image, sep string) []store.Record {
	out := make([]store.Record, 0, len(is))
	for _, i := range is {
		tps := make([]string, 0, len(i.TagPaths))
		for _, p := range i.TagPaths {
			tps = append(tps, p.Join(sep))
		}
		out = append(out, store.Record{
			Path:        i.InPath,
			RelPath:     i.RelPath,
			Title:       i.Title,
			Description: i.Description,
			Width:       i.Width,
			Height:      i.Height,
			Taken:       i.Taken,
			ModTime:     i.ModTime,
			TagPaths:    tps,
		})
	}
	return out
}

// TagTree groups a set of images by every tag path they carry.
func TagTree(is []*Image, sep string) map[string][]*Image {
	out := map[string][]*Image{}
	for _, i := range is {
		for _, p := range i.TagPaths {
			key := p.Join(sep)
			out[key] = append(out[key], i)
		}
	}
	return out
}
