package listack

import(
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestParseAlignmentMethod(t *testing.T) {
	for name, want := range map[string]AlignmentMethod{
		"peak_pixel": PeakPixel,
		"centroid":   Centroid,
		"xcorr":      CrossCorrelation,
	} {
		got, err := ParseAlignmentMethod(name)
		if err != nil || got != want {
			t.Fatalf("%s: got %v, %v", name, got, err)
		}
		if got.String() != name {
			t.Fatalf("%v renders as '%s'", got, got.String())
		}
	}

	if _, err := ParseAlignmentMethod("drizzle"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseExecMode(t *testing.T) {
	if m, err := ParseExecMode("parallel"); err != nil || m != Parallel {
		t.Fatalf("got %v, %v", m, err)
	}
	if _, err := ParseExecMode("threads"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFinalizeRejectsBadValues(t *testing.T) {
	cfg := NewConfig()
	cfg.SelectionFrac = 0.0
	if err := cfg.Finalize(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("fsr=0: expected ErrInvalidConfig, got %v", err)
	}

	cfg = NewConfig()
	cfg.SelectionFrac = 1.5
	if err := cfg.Finalize(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("fsr>1: expected ErrInvalidConfig, got %v", err)
	}

	cfg = NewConfig()
	cfg.CorrMargin = -1
	if err := cfg.Finalize(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("negative margin: expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	yaml := []byte("method: peak_pixel\nmode: parallel\nselectionfrac: 0.75\n")
	filename := filepath.Join(t.TempDir(), "li.yaml")
	if err := ioutil.WriteFile(filename, yaml, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(filename)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Method != "peak_pixel" || cfg.Mode != "parallel" || cfg.SelectionFrac != 0.75 {
		t.Fatalf("parsed config wrong: %+v", cfg)
	}
	// Defaults survive for fields the file doesn't mention
	if cfg.CorrMargin != 25 {
		t.Fatalf("CorrMargin default lost: %d", cfg.CorrMargin)
	}
}
