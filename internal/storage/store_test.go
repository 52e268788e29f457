package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/mmwave/internal/dynamo"
	"github.com/san-kum/mmwave/internal/transition"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{1.0, 0.0, 0, 0},
			{0.9, 0.0, 0.1, 1e-12},
		},
		Controls: []dynamo.Control{
			{6.283e6},
			{6.283e6},
		},
		Times: []float64{0.0, 1e-9},
		Metrics: map[string]float64{
			"population": 0.1,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Model: "neumann", Dt: 1e-9, Duration: 1e-9, Integrator: "rk4", Levels: 2}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(runID) != 36 {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "neumann" || meta.Levels != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["population"] != 0.1 {
		t.Errorf("expected population 0.1, got %f", meta.Metrics["population"])
	}
	if meta.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 records, got %d states, %d times", len(states), len(times))
	}
	if len(states[1]) != 4 {
		t.Errorf("control columns leaked into state: %v", states[1])
	}
	if times[1] != 1e-9 || states[1][3] != 1e-12 {
		t.Errorf("precision lost: t=%g x3=%g", times[1], states[1][3])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", runs, err)
	}

	for _, model := range []string{"lossy", "duo"} {
		if _, err := st.Save(RunMetadata{Model: model}, sampleResult()); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.SaveLookup("cs47d", testSnapshot(t)); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("runs not sorted newest first")
	}

	if err := st.Delete(runs[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(runs[0].ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.Delete("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	pops := [][]float64{{1, 0}, {0.9, 0.1}}
	data := NewExport(RunMetadata{ID: "abc", Model: "neumann"}, sampleResult(), pops)

	var buf bytes.Buffer
	if err := data.Write(&buf); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["id"] != "abc" || decoded["steps"] != 2.0 {
		t.Errorf("unexpected export %v", decoded)
	}
	if _, ok := decoded["populations"]; !ok {
		t.Error("populations missing")
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatal(err)
	}
}

func testSnapshot(t *testing.T) *transition.Snapshot {
	t.Helper()
	powers := []float64{0, 0.25, 0.5, 0.75, 1}
	rabi := make([]float64, len(powers))
	for i, p := range powers {
		rabi[i] = 1e8 * math.Sqrt(p)
	}
	lk, err := transition.NewLookup(powers, rabi)
	if err != nil {
		t.Fatal(err)
	}
	return &transition.Snapshot{Atom: "Cs", Params: transition.DefaultParams(), Probe: lk, Couple: lk}
}

func TestLookupRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.LoadLookup("cs47d"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}

	snap := testSnapshot(t)
	if err := st.SaveLookup("cs47d", snap); err != nil {
		t.Fatal(err)
	}
	got, err := st.LoadLookup("cs47d")
	if err != nil {
		t.Fatal(err)
	}
	if got.Atom != "Cs" || got.Params != snap.Params {
		t.Errorf("snapshot header changed: %+v", got)
	}
	if len(got.Probe.Powers) != 5 || got.Couple.Rabi[4] != 1e8 {
		t.Errorf("lookup tables changed: %+v", got.Probe)
	}
}
