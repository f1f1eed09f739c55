package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/chainsim/internal/config"
)

func TestDominantFrequency(t *testing.T) {
	dt := 0.01
	series := make([]float64, 1024)
	for i := range series {
		series[i] = math.Sin(2 * math.Pi * 2.0 * float64(i) * dt)
	}

	freq, power := DominantFrequency(series, dt)
	if math.Abs(freq-2.0) > 0.1 {
		t.Errorf("expected ~2Hz, got %f", freq)
	}
	if power <= 0 {
		t.Error("expected positive power")
	}
}

func TestDominantFrequency_Short(t *testing.T) {
	if f, p := DominantFrequency([]float64{1}, 0.01); f != 0 || p != 0 {
		t.Errorf("expected zero for single sample, got %f %f", f, p)
	}
}

func TestPowerSpectrum_Length(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 64))
	if len(ps) != 32 {
		t.Errorf("expected 32 bins, got %d", len(ps))
	}
}

func TestLyapunovExponent(t *testing.T) {
	cfg := config.GetPreset("rope")
	cfg.Duration = 1

	lambda, err := LyapunovExponent(cfg, 1e-3)
	if err != nil {
		t.Fatalf("lyapunov: %v", err)
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		t.Errorf("expected finite exponent, got %f", lambda)
	}
}

func TestLyapunovExponent_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spacing = 0
	if _, err := LyapunovExponent(cfg, 1e-3); err == nil {
		t.Error("expected error")
	}
}
