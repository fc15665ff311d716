package library_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"bildesk/pkg/exif"
	"bildesk/pkg/library"
	"bildesk/pkg/tags"
)

// fakeClient is an in-memory exif.Client: field values per path, with
// optional per-path read failures.
type fakeClient struct {
	mu     sync.Mutex
	fields map[string]tags.RawFields
	broken map[string]bool
	writes map[string]tags.FieldValues
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		fields: map[string]tags.RawFields{},
		broken: map[string]bool{},
		writes: map[string]tags.FieldValues{},
	}
}

func (f *fakeClient) ReadFields(path string) (tags.RawFields, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.broken[path] {
		return tags.RawFields{}, exif.ErrPartialRead
	}
	return f.fields[path], nil
}

func (f *fakeClient) WriteFields(path string, fv tags.FieldValues) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes[path] = fv
	f.fields[path] = tags.RawFields{
		HierarchicalSubject: fv.HierarchicalSubject,
		Subject:             fv.Subject,
		Keywords:            fv.Keywords,
	}
	return nil
}

func (f *fakeClient) Close() error { return nil }

func TestRetagAdd(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{HierarchicalSubject: []any{"Body|Hand"}}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg"},
		library.Edit{Op: library.OpAdd, Path: tags.Path{"Foot"}}, "|", 2)

	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	if !reflect.DeepEqual(res.Updated, []string{"/p/a.jpg"}) {
		t.Fatalf("updated = %v", res.Updated)
	}
	fv := c.writes["/p/a.jpg"]
	want := []string{"Body|Hand", "Foot"}
	if !reflect.DeepEqual(fv.HierarchicalSubject, want) {
		t.Fatalf("written HierarchicalSubject = %v, want %v", fv.HierarchicalSubject, want)
	}
}

func TestRetagAddAlreadyPresentSkips(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{HierarchicalSubject: []any{"Foot"}}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg"},
		library.Edit{Op: library.OpAdd, Path: tags.Path{"Foot"}}, "|", 1)

	if len(res.Updated) != 0 {
		t.Fatalf("expected no updates, got %v", res.Updated)
	}
	if !reflect.DeepEqual(res.Skipped, []string{"/p/a.jpg"}) {
		t.Fatalf("skipped = %v", res.Skipped)
	}
	if _, wrote := c.writes["/p/a.jpg"]; wrote {
		t.Fatal("no write should be issued for a no-op edit")
	}
}

func TestRetagRenameIsOneWrite(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{HierarchicalSubject: []any{"A", "Other"}}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg"},
		library.Edit{Op: library.OpRename, Path: tags.Path{"A"}, NewPath: tags.Path{"B", "A"}}, "|", 1)

	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	fv := c.writes["/p/a.jpg"]
	want := []string{"Other", "B|A"}
	if !reflect.DeepEqual(fv.HierarchicalSubject, want) {
		t.Fatalf("written HierarchicalSubject = %v, want %v", fv.HierarchicalSubject, want)
	}
}

func TestRetagFailureDoesNotAbortSiblings(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/ok.jpg"] = tags.RawFields{Subject: []any{"Red"}}
	c.broken["/p/bad.jpg"] = true

	res := library.Retag(context.Background(), c, []string{"/p/bad.jpg", "/p/ok.jpg"},
		library.Edit{Op: library.OpAdd, Path: tags.Path{"Blue"}}, "|", 1)

	if !errors.Is(res.Failures["/p/bad.jpg"], exif.ErrPartialRead) {
		t.Fatalf("expected partial-read failure for bad file, got %v", res.Failures["/p/bad.jpg"])
	}
	if !reflect.DeepEqual(res.Updated, []string{"/p/ok.jpg"}) {
		t.Fatalf("updated = %v, want the healthy sibling", res.Updated)
	}
}

func TestRetagRemoveLastTagSkipsWrite(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{Subject: []any{"Only"}}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg"},
		library.Edit{Op: library.OpRemove, Path: tags.Path{"Only"}}, "|", 1)

	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	if _, wrote := c.writes["/p/a.jpg"]; wrote {
		t.Fatal("an empty resulting tag set must not trigger a destructive write")
	}
	if !reflect.DeepEqual(res.Skipped, []string{"/p/a.jpg"}) {
		t.Fatalf("skipped = %v", res.Skipped)
	}
}

func TestRetagDeduplicatesBatchPaths(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg", "/p/a.jpg"},
		library.Edit{Op: library.OpAdd, Path: tags.Path{"X"}}, "|", 4)

	if got := len(res.Updated) + len(res.Skipped); got != 1 {
		t.Fatalf("expected the duplicate path to be processed once, got %d results", got)
	}
}

func TestRetagUnknownOp(t *testing.T) {
	c := newFakeClient()
	c.fields["/p/a.jpg"] = tags.RawFields{}

	res := library.Retag(context.Background(), c, []string{"/p/a.jpg"},
		library.Edit{Op: "explode", Path: tags.Path{"X"}}, "|", 1)

	if !errors.Is(res.Failures["/p/a.jpg"], tags.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", res.Failures["/p/a.jpg"])
	}
}
