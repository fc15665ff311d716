package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"k8s.io/klog/v2"

	"bildesk/pkg/exif"
	"bildesk/pkg/tags"
)

// EditOp identifies a tag edit kind.
type EditOp string

const (
	OpAdd    EditOp = "add"
	OpRemove EditOp = "remove"
	OpRename EditOp = "rename"
)

// Edit is one tag-path edit to apply across files.
type Edit struct {
	Op      EditOp
	Path    tags.Path
	NewPath tags.Path // rename target, unused otherwise
}

func (e Edit) apply(s *tags.Set) (bool, error) {
	switch e.Op {
	case OpAdd:
		return s.Add(e.Path), nil
	case OpRemove:
		return s.Remove(e.Path), nil
	case OpRename:
		if len(e.NewPath) == 0 {
			return false, fmt.Errorf("%w: rename needs a target path", tags.ErrInvalidInput)
		}
		return s.Replace(e.Path, e.NewPath), nil
	default:
		return false, fmt.Errorf("%w: unknown edit op %q", tags.ErrInvalidInput, e.Op)
	}
}

// RetagResult reports what a batch edit did per file.
type RetagResult struct {
	Updated  []string
	Skipped  []string
	Failures map[string]error
}

// defaultRetagWorkers bounds batch parallelism; each worker still issues at
// most one write per file, and no file appears twice in a batch.
const defaultRetagWorkers = 4

// Retag applies one edit to every listed file. Files are independent: a
// failure is recorded and the rest of the batch continues. Each changed
// file gets exactly one write carrying its full resulting tag set, so a
// rename is never observable as remove-without-add.
func Retag(ctx context.Context, c exif.Client, files []string, e Edit, sep string, workers int) *RetagResult {
	if workers <= 0 {
		workers = defaultRetagWorkers
	}

	res := &RetagResult{Failures: map[string]error{}}
	var mu sync.Mutex

	jobs := make(chan string)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				updated, err := retagOne(c, path, e, sep)
				mu.Lock()
				switch {
				case err != nil:
					klog.Errorf("retag %s: %v", path, err)
					res.Failures[path] = err
				case updated:
					res.Updated = append(res.Updated, path)
				default:
					res.Skipped = append(res.Skipped, path)
				}
				mu.Unlock()
			}
		}()
	}

	seen := map[string]bool{}
	for _, path := range files {
		if seen[path] {
			continue
		}
		seen[path] = true

		select {
		case <-ctx.Done():
			mu.Lock()
			res.Failures[path] = ctx.Err()
			mu.Unlock()
			continue
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	return res
}

func retagOne(c exif.Client, path string, e Edit, sep string) (bool, error) {
	raw, err := c.ReadFields(path)
	if err != nil {
		// A file whose tags cannot be determined is not safe to
		// overwrite; fail it and leave the rest of the batch alone.
		return false, err
	}

	paths, err := tags.Normalize(raw, sep)
	if err != nil {
		return false, err
	}

	set := tags.NewSet(paths...)
	changed, err := e.apply(set)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	fv, err := tags.Serialize(set.Paths(), sep)
	if errors.Is(err, tags.ErrNoWrite) {
		// Removing the last tag leaves nothing to serialize. An empty
		// overwrite would clear fields we never modeled, so skip it.
		klog.Warningf("retag %s: resulting tag set is empty, skipping write", path)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := c.WriteFields(path, fv); err != nil {
		return false, err
	}
	return true, nil
}
