package card

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// ============================================================================
// Card number generator
// ============================================================================
//
// Layout (16 digits):
//
//	400000 - 123456789 - 7
//	|        |           |
//	|        |           +-- checksum digit
//	|        +-- account identifier, 9 random digits
//	+-- issuer identifier (BIN), fixed per bank
//
// Checksum: walk the first 15 digits from position 1, double every digit at
// an odd position (minus 9 when the result exceeds 9), sum everything. The
// checksum digit tops the sum up to the next multiple of 10.
//
// ============================================================================

const (
	DefaultIssuerID = "400000"

	IssuerLength     = 6
	IdentifierLength = 9
	NumberLength     = IssuerLength + IdentifierLength + 1
	PINLength        = 4
)

var ErrInvalidIssuer = errors.New("issuer id must be 6 decimal digits")

// Generator mints card numbers and PINs for one issuer.
type Generator struct {
	issuer string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator for issuer. A nil src falls back to a
// time-seeded source.
func NewGenerator(issuer string, src rand.Source) (*Generator, error) {
	if len(issuer) != IssuerLength || !allDigits(issuer) {
		return nil, ErrInvalidIssuer
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{
		issuer: issuer,
		rnd:    rand.New(src),
	}, nil
}

func (g *Generator) Issuer() string {
	return g.issuer
}

// Number returns a fresh 16-digit card number that passes Valid.
func (g *Generator) Number() string {
	base := g.issuer + g.digits(IdentifierLength)
	return base + string(rune('0'+Checksum(base)))
}

// PIN returns 4 random digits. PINs are not unique across cards.
func (g *Generator) PIN() string {
	return g.digits(PINLength)
}

func (g *Generator) digits(n int) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + g.rnd.Intn(10)))
	}
	return b.String()
}

// Checksum computes the check digit for a base number made of digits only.
// The caller guarantees base is all digits.
func Checksum(base string) int {
	sum := weightedSum(base)
	return (sum+9)/10*10 - sum
}

// Valid reports whether number is 16 digits whose last digit is the checksum
// of the first 15. The issuer prefix is not checked.
func Valid(number string) bool {
	if len(number) != NumberLength || !allDigits(number) {
		return false
	}
	last := int(number[NumberLength-1] - '0')
	return (weightedSum(number[:NumberLength-1])+last)%10 == 0
}

// weightedSum doubles digits at odd 1-based positions (folding values above 9)
// and sums all digits.
func weightedSum(digits string) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
