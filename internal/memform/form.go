package memform

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"formctl/internal/model"
)

// Form holds one form in memory and implements the engine's repository and
// mutator collaborators. Batches apply atomically.
type Form struct {
	mu sync.Mutex

	id      string
	info    model.FormInfo
	items   []model.Item
	nextID  int
	rev     int
	fetches int
	applies int

	// OnApply, when set, observes every committed state. Used to persist
	// fixture files.
	OnApply func(info model.FormInfo, items []model.Item) error
}

func New(formID string, info model.FormInfo, items []model.Item) *Form {
	return &Form{id: formID, info: info, items: slices.Clone(items), nextID: len(items) + 1}
}

func (f *Form) Fetch(ctx context.Context, formID string) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkID(formID); err != nil {
		return model.Snapshot{}, err
	}
	f.fetches++
	return model.Snapshot{
		FormID:     f.id,
		Info:       f.info,
		RevisionID: fmt.Sprintf("rev-%d", f.rev),
		Items:      slices.Clone(f.items),
	}, nil
}

func (f *Form) Apply(ctx context.Context, formID string, b model.Batch) (model.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return model.BatchResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkID(formID); err != nil {
		return model.BatchResult{}, err
	}
	f.applies++

	next := f.nextID
	items, info, replies, err := Apply(f.items, f.info, b.Ops, func() string {
		id := fmt.Sprintf("item-%04d", next)
		next++
		return id
	})
	if err != nil {
		return model.BatchResult{}, err
	}
	if f.OnApply != nil {
		if err := f.OnApply(info, items); err != nil {
			return model.BatchResult{}, fmt.Errorf("persist form: %w", err)
		}
	}
	f.items, f.info, f.nextID = items, info, next
	f.rev++
	return model.BatchResult{Replies: replies, RevisionID: fmt.Sprintf("rev-%d", f.rev)}, nil
}

func (f *Form) checkID(formID string) error {
	if f.id != "" && formID != f.id {
		return &model.RemoteFailureError{OpIndex: -1, Status: 404, Message: fmt.Sprintf("form %s not found", formID)}
	}
	return nil
}

// Items returns a copy of the current content.
func (f *Form) Items() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

func (f *Form) Info() model.FormInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

// Calls reports how many fetches and applies have been served.
func (f *Form) Calls() (fetches, applies int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches, f.applies
}
