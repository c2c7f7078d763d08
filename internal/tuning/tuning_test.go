package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults_Validate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	data := `
tick_rate_hz: 10
default_segment_length: 5
max_points_recorded: 100
seam_search_budget_ms: 250
parallelism: 4
`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tune, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tune.TickRateHz != 10 || tune.DefaultSegmentLength != 5 ||
		tune.MaxPointsRecorded != 100 || tune.SeamSearchBudgetMs != 250 ||
		tune.Parallelism != 4 {
		t.Fatalf("loaded = %+v", tune)
	}
}

func TestLoad_Invalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("tick_rate_hz: -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected a validation error")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate_RejectsBadFields(t *testing.T) {
	cases := []func(*Tuning){
		func(tu *Tuning) { tu.TickRateHz = 0 },
		func(tu *Tuning) { tu.DefaultSegmentLength = -1 },
		func(tu *Tuning) { tu.MaxPointsRecorded = 0 },
		func(tu *Tuning) { tu.SeamSearchBudgetMs = 0 },
		func(tu *Tuning) { tu.Parallelism = -2 },
	}
	for i, mutate := range cases {
		tu := Defaults()
		mutate(&tu)
		if err := tu.Validate(); err == nil {
			t.Fatalf("case %d: expected an error", i)
		}
	}
}
