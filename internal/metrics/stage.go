package metrics

// StageTracker holds the monotonic "stage reached" flags of one episode.
// A stage flag, once true, never resets to false within the episode.
type StageTracker struct {
	reached  map[int]bool
	maxIndex int
}

func NewStageTracker() *StageTracker {
	return &StageTracker{reached: make(map[int]bool)}
}

// Mark registers stage index and sets its flag. Setting reached=false is
// accepted only while the stage was never true; a true flag is never
// unset (idempotent monotonic write).
func (t *StageTracker) Mark(index int, reached bool) error {
	if index <= 0 {
		return usagef("stage index must be a positive integer, got %d", index)
	}
	if index > t.maxIndex {
		t.maxIndex = index
	}
	if t.reached[index] {
		return nil
	}
	t.reached[index] = reached
	return nil
}

// Reached reports the flag for one stage index.
func (t *StageTracker) Reached(index int) bool {
	return t.reached[index]
}

// Progress is reached-count over the highest registered index, or 0 when
// no stage has been registered.
func (t *StageTracker) Progress() float64 {
	if t.maxIndex == 0 {
		return 0
	}
	count := 0
	for _, ok := range t.reached {
		if ok {
			count++
		}
	}
	return float64(count) / float64(t.maxIndex)
}
