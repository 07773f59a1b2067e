package metrics

import "dexbench/internal/model"

// SlipDetector counts grasp-loss events per tracked object. Holding state
// is compared on a fixed frame window; a held-to-not-held transition
// between sampled frames counts as a slip unless an explicit release
// command was issued for that object in the interval.
type SlipDetector struct {
	objects []string
	window  int
	release func(model.GripperCommand) bool

	steps         int
	baselined     map[string]bool
	lastHeld      map[string]bool
	releasedSince map[string]bool
	perObject     map[string]int
	total         int
}

func NewSlipDetector(objects []string, window int, release func(model.GripperCommand) bool) *SlipDetector {
	if release == nil {
		release = defaultReleaseCommand
	}
	tracked := append([]string(nil), objects...)
	return &SlipDetector{
		objects:       tracked,
		window:        window,
		release:       release,
		baselined:     make(map[string]bool, len(tracked)),
		lastHeld:      make(map[string]bool, len(tracked)),
		releasedSince: make(map[string]bool, len(tracked)),
		perObject:     make(map[string]int, len(tracked)),
	}
}

// Sample consumes one step's holding state and gripper commands. Only
// every window-th call compares holding state; the calls in between just
// note release commands so a commanded open is never miscounted as a slip.
func (d *SlipDetector) Sample(held map[string]bool, commands map[string]model.GripperCommand) error {
	for _, object := range d.objects {
		if d.release(commands[object]) {
			d.releasedSince[object] = true
		}
	}

	d.steps++
	if d.steps%d.window != 0 {
		return nil
	}

	for _, object := range d.objects {
		holding, ok := held[object]
		if !ok {
			return shapef("tracked object %q missing from holding map", object)
		}
		if d.baselined[object] && d.lastHeld[object] && !holding && !d.releasedSince[object] {
			d.perObject[object]++
			d.total++
		}
		d.baselined[object] = true
		d.lastHeld[object] = holding
		d.releasedSince[object] = false
	}
	return nil
}

// Total is the slip count across all tracked objects.
func (d *SlipDetector) Total() int {
	return d.total
}

// PerObject returns a copy of the per-object slip counts. Every tracked
// object is present, objects never sampled included (with zero events).
func (d *SlipDetector) PerObject() map[string]int {
	out := make(map[string]int, len(d.objects))
	for _, object := range d.objects {
		out[object] = d.perObject[object]
	}
	return out
}
