package metrics

import (
	"errors"
	"testing"

	"dexbench/internal/model"
)

func TestSlipDetectorContinuouslyHeldNeverSlips(t *testing.T) {
	detector := NewSlipDetector([]string{"cube"}, 5, nil)
	for i := 0; i < 200; i++ {
		if err := detector.Sample(map[string]bool{"cube": true}, nil); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 0 {
		t.Fatalf("continuously held object slipped %d times", detector.Total())
	}
}

func TestSlipDetectorCountsGraspLoss(t *testing.T) {
	detector := NewSlipDetector([]string{"cube"}, 5, nil)
	held := true
	for i := 0; i < 20; i++ {
		if i == 7 {
			held = false
		}
		if err := detector.Sample(map[string]bool{"cube": held}, nil); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 1 {
		t.Fatalf("expected exactly one slip, got %d", detector.Total())
	}
	if got := detector.PerObject()["cube"]; got != 1 {
		t.Fatalf("expected per-object slip 1, got %d", got)
	}
}

func TestSlipDetectorReleaseCommandIsNotASlip(t *testing.T) {
	detector := NewSlipDetector([]string{"cube"}, 5, nil)
	held := true
	for i := 0; i < 20; i++ {
		commands := map[string]model.GripperCommand{}
		if i == 7 {
			commands["cube"] = model.GripperOpen
			held = false
		}
		if err := detector.Sample(map[string]bool{"cube": held}, commands); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 0 {
		t.Fatalf("commanded release counted as slip: %d", detector.Total())
	}
}

func TestSlipDetectorCustomReleasePredicate(t *testing.T) {
	release := func(cmd model.GripperCommand) bool { return cmd == "widen" }
	detector := NewSlipDetector([]string{"cube"}, 5, release)
	held := true
	for i := 0; i < 20; i++ {
		commands := map[string]model.GripperCommand{}
		if i == 7 {
			commands["cube"] = "widen"
			held = false
		}
		if err := detector.Sample(map[string]bool{"cube": held}, commands); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 0 {
		t.Fatalf("custom release command counted as slip: %d", detector.Total())
	}
}

func TestSlipDetectorFirstSampleIsBaselineOnly(t *testing.T) {
	detector := NewSlipDetector([]string{"cube"}, 2, nil)
	// Not held at the very first sampled frame: no prior state, no event.
	for i := 0; i < 4; i++ {
		if err := detector.Sample(map[string]bool{"cube": false}, nil); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 0 {
		t.Fatalf("baseline sample produced slip events: %d", detector.Total())
	}
}

func TestSlipDetectorWindowNeverReached(t *testing.T) {
	detector := NewSlipDetector([]string{"cube"}, 20, nil)
	for i := 0; i < 19; i++ {
		if err := detector.Sample(map[string]bool{"cube": i < 5}, nil); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	if detector.Total() != 0 {
		t.Fatalf("unsampled episode produced slips: %d", detector.Total())
	}
	if got := detector.PerObject()["cube"]; got != 0 {
		t.Fatalf("expected zero per-object count, got %d", got)
	}
}

func TestSlipDetectorMissingObjectKey(t *testing.T) {
	detector := NewSlipDetector([]string{"cube", "tray"}, 1, nil)
	err := detector.Sample(map[string]bool{"cube": true}, nil)
	if !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected data shape error, got %v", err)
	}
}

func TestSlipDetectorCountIsPerObject(t *testing.T) {
	detector := NewSlipDetector([]string{"cube", "tray"}, 2, nil)
	states := map[string]bool{"cube": true, "tray": true}
	for i := 0; i < 10; i++ {
		if i == 5 {
			states["cube"] = false
		}
		if err := detector.Sample(states, nil); err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
	}
	per := detector.PerObject()
	if per["cube"] != 1 || per["tray"] != 0 {
		t.Fatalf("unexpected per-object counts: %+v", per)
	}
	if detector.Total() != 1 {
		t.Fatalf("expected total 1, got %d", detector.Total())
	}
}
