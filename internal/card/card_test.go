package card

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestGenerator(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := NewGenerator(DefaultIssuerID, rand.NewSource(seed))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestChecksumFixedVectors(t *testing.T) {
	tests := []struct {
		base string
		want int
	}{
		// odd positions 4,0,0,0,3,5,7,9 -> 8,0,0,0,6,1,5,9 = 29; even = 20; S = 49
		{base: "400000023456789", want: 1},
		// S = 8
		{base: "400000000000000", want: 2},
		// S = 10, already a multiple of 10
		{base: "400000000000100", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			if got := Checksum(tt.base); got != tt.want {
				t.Fatalf("Checksum(%s)=%d want=%d", tt.base, got, tt.want)
			}
			if !Valid(tt.base + string(rune('0'+tt.want))) {
				t.Fatalf("%s%d should be valid", tt.base, tt.want)
			}
		})
	}
}

func TestGeneratedNumbersAreValid(t *testing.T) {
	g := newTestGenerator(t, 42)
	for i := 0; i < 1000; i++ {
		n := g.Number()
		if len(n) != NumberLength {
			t.Fatalf("len(%s)=%d want=%d", n, len(n), NumberLength)
		}
		if n[:IssuerLength] != DefaultIssuerID {
			t.Fatalf("%s does not start with issuer %s", n, DefaultIssuerID)
		}
		if !allDigits(n) {
			t.Fatalf("%s has non-digit characters", n)
		}
		if !Valid(n) {
			t.Fatalf("generated number %s failed validation", n)
		}
	}
}

func TestValidRejectsSingleDigitMutation(t *testing.T) {
	g := newTestGenerator(t, 7)
	for i := 0; i < 50; i++ {
		n := g.Number()
		for pos := 0; pos < NumberLength; pos++ {
			for d := byte('0'); d <= '9'; d++ {
				if n[pos] == d {
					continue
				}
				mutated := []byte(n)
				mutated[pos] = d
				// a single changed digit always shifts the weighted sum by a
				// non-multiple of 10, so the checksum never survives it
				if Valid(string(mutated)) {
					t.Fatalf("mutation %s of %s passed validation", mutated, n)
				}
			}
		}
	}
}

func TestValidIndependentOfIssuer(t *testing.T) {
	for _, n := range []string{
		"4000000234567891",
		"5500000000000004",
		"3000000000000004",
		"0000000000000000",
	} {
		if !Valid(n) {
			t.Errorf("Valid(%s)=false want=true", n)
		}
	}
}

func TestValidRejectsMalformed(t *testing.T) {
	for _, n := range []string{
		"",
		"400000023456789",
		"40000002345678910",
		"400000023456789a",
		"4000-00234567891",
		" 4000000234567891",
	} {
		if Valid(n) {
			t.Errorf("Valid(%q)=true want=false", n)
		}
	}
}

func TestPIN(t *testing.T) {
	g := newTestGenerator(t, 1)
	for i := 0; i < 200; i++ {
		pin := g.PIN()
		if len(pin) != PINLength || !allDigits(pin) {
			t.Fatalf("bad pin %q", pin)
		}
	}
}

func TestNewGeneratorRejectsBadIssuer(t *testing.T) {
	for _, issuer := range []string{"", "40000", "4000000", "40000a"} {
		if _, err := NewGenerator(issuer, nil); !errors.Is(err, ErrInvalidIssuer) {
			t.Errorf("issuer %q: want ErrInvalidIssuer, got %v", issuer, err)
		}
	}
}

func TestGeneratorIsDeterministicForSeed(t *testing.T) {
	a := newTestGenerator(t, 99)
	b := newTestGenerator(t, 99)
	if a.Number() != b.Number() {
		t.Fatal("same seed should produce the same first number")
	}
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := newTestGenerator(t, 3)
	done := make(chan string, 64)
	for i := 0; i < 64; i++ {
		go func() { done <- g.Number() }()
	}
	for i := 0; i < 64; i++ {
		if n := <-done; !Valid(n) {
			t.Fatalf("concurrently generated %s is invalid", n)
		}
	}
}
