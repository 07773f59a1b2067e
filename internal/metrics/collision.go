package metrics

import "dexbench/internal/model"

// CollisionTracker counts newly-appearing contact pairs, split into
// environment collisions and self-collisions. A pair increments its
// counter on the first step it is observed; while continuously present it
// contributes nothing further, and it counts again after disappearing and
// reappearing. Only the previous step's set is retained for the diff.
type CollisionTracker struct {
	previous  map[string]struct{}
	envCount  int
	selfCount int
}

func NewCollisionTracker() *CollisionTracker {
	return &CollisionTracker{previous: make(map[string]struct{})}
}

// Update consumes the full current-step contact set.
func (t *CollisionTracker) Update(contacts []model.ContactPair) {
	current := make(map[string]struct{}, len(contacts))
	for _, pair := range contacts {
		key := pair.Key()
		if _, dup := current[key]; dup {
			continue
		}
		current[key] = struct{}{}
		if _, held := t.previous[key]; held {
			continue
		}
		if pair.Self {
			t.selfCount++
		} else {
			t.envCount++
		}
	}
	t.previous = current
}

func (t *CollisionTracker) EnvCount() int {
	return t.envCount
}

func (t *CollisionTracker) SelfCount() int {
	return t.selfCount
}
