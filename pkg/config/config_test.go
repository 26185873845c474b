package config

import "testing"

func TestLoadFromReaderAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(`
input:
  edges_file: edges.csv
  graph_file: graph.csv
  district: metro
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Input.EdgesFile != "edges.csv" || cfg.Input.District != "metro" {
		t.Errorf("unexpected input config: %+v", cfg.Input)
	}
	if cfg.Algorithm.SPMethod != "HYBRID" {
		t.Errorf("expected default sp_method HYBRID, got %q", cfg.Algorithm.SPMethod)
	}
	if cfg.Algorithm.HybridRes != 10 || cfg.Algorithm.PartitionRes != 7 {
		t.Errorf("expected default resolutions 10/7, got %d/%d", cfg.Algorithm.HybridRes, cfg.Algorithm.PartitionRes)
	}
	if cfg.Parallel.WorkersPhase1 != 4 || cfg.Parallel.WorkersPhase4 != 4 {
		t.Errorf("expected default worker counts of 4, got %d/%d", cfg.Parallel.WorkersPhase1, cfg.Parallel.WorkersPhase4)
	}
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(`
algorithm:
  sp_method: PURE
  hybrid_res: 12
parallel:
  workers_phase1: 8
duckdb:
  fresh_start: true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Algorithm.SPMethod != "PURE" || cfg.Algorithm.HybridRes != 12 {
		t.Errorf("expected overridden algorithm config, got %+v", cfg.Algorithm)
	}
	if cfg.Parallel.WorkersPhase1 != 8 {
		t.Errorf("expected overridden workers_phase1=8, got %d", cfg.Parallel.WorkersPhase1)
	}
	if cfg.Parallel.WorkersPhase4 != 4 {
		t.Errorf("expected workers_phase4 to keep its default, got %d", cfg.Parallel.WorkersPhase4)
	}
	if !cfg.DuckDB.FreshStart {
		t.Error("expected duckdb.fresh_start to be overridden to true")
	}
}

func TestValidateRejectsUnknownSPMethod(t *testing.T) {
	_, err := LoadFromReader("yaml", []byte(`algorithm: {sp_method: QUANTUM}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized sp_method")
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	_, err := LoadFromReader("yaml", []byte(`parallel: {workers_phase1: 0}`))
	if err == nil {
		t.Fatal("expected an error for a zero worker count")
	}
}

func TestContractConfigProjectsFields(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(`
algorithm:
  partition_res: 6
  hybrid_res: 9
parallel:
  workers_phase1: 3
  workers_phase4: 5
duckdb:
  fresh_start: true
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cc := cfg.ContractConfig("/tmp/run1")
	if cc.PartitionRes != 6 || cc.HybridRes != 9 {
		t.Errorf("unexpected resolutions: %+v", cc)
	}
	if cc.WorkersPhase1 != 3 || cc.WorkersPhase4 != 5 {
		t.Errorf("unexpected worker counts: %+v", cc)
	}
	if cc.RunDir != "/tmp/run1" {
		t.Errorf("expected run dir to be threaded through, got %q", cc.RunDir)
	}
	if !cc.FreshStart {
		t.Error("expected fresh start to carry over")
	}
}
