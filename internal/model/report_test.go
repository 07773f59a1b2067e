package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSideValueScalarShape(t *testing.T) {
	v := NewSideValue([]Side{SideRight}, map[Side]float64{SideRight: 0.3})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "0.3" {
		t.Fatalf("single-arm value must serialize as a bare scalar, got %s", data)
	}
}

func TestSideValueBimanualShape(t *testing.T) {
	v := NewSideValue([]Side{SideLeft, SideRight}, map[Side]float64{
		SideLeft:  0.1,
		SideRight: 0.2,
	})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"left":0.1`) || !strings.Contains(string(data), `"right":0.2`) {
		t.Fatalf("bimanual value must serialize as a side map, got %s", data)
	}
	if v.Sum() != 0.1+0.2 {
		t.Fatalf("expected sum 0.3, got %f", v.Sum())
	}
	if _, ok := v.Scalar(); ok {
		t.Fatal("bimanual value must not expose a scalar")
	}
}

func TestSideValueRoundTrip(t *testing.T) {
	v := NewSideValue([]Side{SideLeft, SideRight}, map[Side]float64{
		SideLeft:  1.5,
		SideRight: 2.5,
	})
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SideValue
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got, _ := decoded.Value(SideLeft); got != 1.5 {
		t.Fatalf("expected left 1.5, got %f", got)
	}
	if got, _ := decoded.Value(SideRight); got != 2.5 {
		t.Fatalf("expected right 2.5, got %f", got)
	}
}

func TestNamedScalarShapes(t *testing.T) {
	data, err := json.Marshal(Scalar(0.05))
	if err != nil {
		t.Fatalf("marshal scalar: %v", err)
	}
	if string(data) != "0.05" {
		t.Fatalf("expected bare scalar, got %s", data)
	}

	data, err = json.Marshal(Named(map[string]float64{"cube": 0.01}))
	if err != nil {
		t.Fatalf("marshal named: %v", err)
	}
	if string(data) != `{"cube":0.01}` {
		t.Fatalf("expected name map, got %s", data)
	}

	var decoded NamedScalar
	if err := json.Unmarshal([]byte(`{"cube":0.01}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	values, ok := decoded.Values()
	if !ok || values["cube"] != 0.01 {
		t.Fatalf("expected named values, got %+v", decoded)
	}
}

func TestContactPairKeyUnordered(t *testing.T) {
	a := ContactPair{BodyA: "table", BodyB: "gripper_left"}
	b := ContactPair{BodyA: "gripper_left", BodyB: "table"}
	if a.Key() != b.Key() {
		t.Fatalf("contact pair key must be order independent: %q vs %q", a.Key(), b.Key())
	}
}

func TestReportOmitsUntrackedFields(t *testing.T) {
	data, err := json.Marshal(Report{Success: 1, CompletionTime: 2.5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{"slip_count", "env_collision_count", "cartesian_path_length", "vel_sync_diff"} {
		if strings.Contains(string(data), field) {
			t.Fatalf("untracked field %s must be absent, got %s", field, data)
		}
	}
	for _, field := range []string{"success", "completion_time", "subtask_progress"} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("field %s must always be present, got %s", field, data)
		}
	}
}
