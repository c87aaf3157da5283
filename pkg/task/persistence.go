package task

import (
	"context"
	"errors"

	"tableflip.dev/portal/pkg/store"
)

// Persistence loads and saves the whole collection.
type Persistence interface {
	Load(ctx context.Context) ([]Task, error)
	Save(ctx context.Context, tasks []Task) error
}

// SharedSlot is the slot used when tasks are not scoped to a user.
const SharedSlot = "tasks"

// SlotFor returns the slot name for uid. An empty uid maps to the shared
// slot.
func SlotFor(uid string, shared bool) string {
	if shared || uid == "" {
		return SharedSlot
	}
	return SharedSlot + "." + uid
}

// SlotPersistence keeps the collection as a JSON array in one slot.
type SlotPersistence struct {
	Slots store.Slots
	Key   string
}

// NewSlotPersistence returns persistence over slot key of s.
func NewSlotPersistence(s store.Slots, key string) *SlotPersistence {
	return &SlotPersistence{Slots: s, Key: key}
}

func (p *SlotPersistence) Load(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := store.ReadJSON(p.Slots, p.Key, &tasks); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Task{}, nil
		}
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

func (p *SlotPersistence) Save(ctx context.Context, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	return store.WriteJSON(p.Slots, p.Key, tasks)
}
