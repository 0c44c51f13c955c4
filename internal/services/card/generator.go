package card

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	numberLength = 16
	// DefaultBIN is the issuer prefix used when none is configured.
	DefaultBIN = "421234"
)

// RandomGenerator produces Luhn-valid card numbers under a fixed BIN,
// formatted in groups of four (4212-3456-7890-1234), and CVVs in [100, 999].
type RandomGenerator struct {
	bin string
}

// NewRandomGenerator validates bin and returns a generator for it.
func NewRandomGenerator(bin string) (*RandomGenerator, error) {
	if err := ValidateBIN(bin); err != nil {
		return nil, err
	}
	return &RandomGenerator{bin: bin}, nil
}

func (g *RandomGenerator) CardNumber() (string, error) {
	digits, err := randomDigits(numberLength - 1 - len(g.bin))
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body := g.bin + digits
	return FormatNumber(body + luhnCheckDigit(body)), nil
}

func (g *RandomGenerator) CVV() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return 0, fmt.Errorf("rand: %w", err)
	}
	return int(n.Int64()) + 100, nil
}

// randomDigits returns count uniformly distributed decimal digits. Bytes
// of 250 and above are rejected so that b%10 is unbiased.
func randomDigits(count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	const threshold = 250
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 32)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + buf[i]%10)
			}
		}
	}
	return sb.String(), nil
}

func luhnCheckDigit(body string) string {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return string(rune('0' + (10-sum%10)%10))
}

// ValidateNumber checks digits, length and the Luhn check digit of a
// number with or without group separators.
func ValidateNumber(number string) error {
	digits := strings.ReplaceAll(number, "-", "")
	if len(digits) != numberLength {
		return fmt.Errorf("card number must have %d digits (got %d)", numberLength, len(digits))
	}
	if !isDigits(digits) {
		return fmt.Errorf("card number must contain digits only")
	}
	body := digits[:len(digits)-1]
	if digits[len(digits)-1] != luhnCheckDigit(body)[0] {
		return fmt.Errorf("invalid luhn check digit")
	}
	return nil
}

// FormatNumber groups digits in blocks of four separated by dashes.
func FormatNumber(digits string) string {
	var sb strings.Builder
	for i := 0; i < len(digits); i++ {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

func ValidateBIN(bin string) error {
	if bin == "" {
		return fmt.Errorf("bin is required")
	}
	if !isDigits(bin) {
		return fmt.Errorf("bin must contain digits only")
	}
	switch len(bin) {
	case 6, 8, 9:
		return nil
	default:
		return fmt.Errorf("bin must be 6, 8, or 9 digits")
	}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
