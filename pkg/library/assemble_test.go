package library_test

import (
	"reflect"
	"testing"
	"time"

	"bildesk/pkg/library"
	"bildesk/pkg/tags"
)

func TestRecords(t *testing.T) {
	taken := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	is := []*library.Image{
		{
			InPath:   "/p/a.jpg",
			RelPath:  "a.jpg",
			Title:    "A",
			Width:    100,
			Height:   50,
			Taken:    taken,
			TagPaths: []tags.Path{{"Body", "Hand"}, {"Foot"}},
		},
	}

	recs := library.Records(is, "|")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	want := []string{"Body|Hand", "Foot"}
	if !reflect.DeepEqual(recs[0].TagPaths, want) {
		t.Fatalf("tag paths = %v, want %v", recs[0].TagPaths, want)
	}
	if recs[0].Path != "/p/a.jpg" || !recs[0].Taken.Equal(taken) {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestTagTree(t *testing.T) {
	a := &library.Image{InPath: "/p/a.jpg", TagPaths: []tags.Path{{"A"}, {"A", "B"}}}
	b := &library.Image{InPath: "/p/b.jpg", TagPaths: []tags.Path{{"A"}}}

	tree := library.TagTree([]*library.Image{a, b}, "|")
	if len(tree["A"]) != 2 {
		t.Fatalf("tree[A] has %d images, want 2", len(tree["A"]))
	}
	if len(tree["A|B"]) != 1 || tree["A|B"][0] != a {
		t.Fatalf("tree[A|B] = %v", tree["A|B"])
	}
}

func TestImageHasTagAndLeaves(t *testing.T) {
	i := &library.Image{TagPaths: []tags.Path{{"Body", "Hand"}, {"Foot"}}}
	if !i.HasTag(tags.Path{"Body", "Hand"}) {
		t.Fatal("expected HasTag to match exact path")
	}
	if i.HasTag(tags.Path{"Hand"}) {
		t.Fatal("leaf alone must not match a deeper path")
	}
	if got, want := i.Leaves(), []string{"Hand", "Foot"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Leaves = %v, want %v", got, want)
	}
}
