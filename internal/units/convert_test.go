package units

import (
	"errors"
	"math"
	"testing"
)

func TestWavelengthFrequencyRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		wavelength float64
	}{
		{"probe 456nm", 455.5e-9},
		{"coupler 1064nm", 1064e-9},
		{"tweezer", 1069.79e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Wavelength2Freq(tt.wavelength)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			back, err := Freq2Wavelength(f)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(back-tt.wavelength)/tt.wavelength > 1e-12 {
				t.Errorf("round trip mismatch: got %g, want %g", back, tt.wavelength)
			}
		})
	}
}

func TestWavelength2Freq(t *testing.T) {
	f, err := Wavelength2Freq(1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-299792458e6) > 1 {
		t.Errorf("expected 2.99792458e14 Hz, got %g", f)
	}
}

func TestWavelength2AngularFreq(t *testing.T) {
	w, err := Wavelength2AngularFreq(1e-6)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := Wavelength2Freq(1e-6)
	if math.Abs(w-2*math.Pi*f) > 1e-3 {
		t.Errorf("angular frequency %g inconsistent with %g", w, f)
	}
}

func TestPower2Field(t *testing.T) {
	// 1 W into a 1 mm waist: I0 = 2/(π·1e-6) W/m².
	e, err := Power2Field(1, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	intensity := 2 / (math.Pi * 1e-6)
	want := math.Sqrt(2 * intensity / (SpeedOfLight * Epsilon0))
	if math.Abs(e-want)/want > 1e-12 {
		t.Errorf("field %g, want %g", e, want)
	}

	// field scales as sqrt(P)
	e4, _ := Power2Field(4, 1e-3)
	if math.Abs(e4/e-2) > 1e-12 {
		t.Errorf("expected field to double for 4x power, ratio %g", e4/e)
	}
}

func TestNonPositiveInputs(t *testing.T) {
	if _, err := Wavelength2Freq(0); !errors.Is(err, ErrNonPositive) {
		t.Errorf("expected ErrNonPositive, got %v", err)
	}
	if _, err := Freq2Wavelength(-1); !errors.Is(err, ErrNonPositive) {
		t.Errorf("expected ErrNonPositive, got %v", err)
	}
	if _, err := Power2Field(1, 0); !errors.Is(err, ErrNonPositive) {
		t.Errorf("expected ErrNonPositive, got %v", err)
	}
}

func TestInvCmToHz(t *testing.T) {
	// 1 cm^-1 = 29.9792458 GHz
	if got := InvCmToHz(1); math.Abs(got-29.9792458e9) > 1 {
		t.Errorf("got %g", got)
	}
}
