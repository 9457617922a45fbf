/**
 * @description
 * Card credential generation. Digits come from crypto/rand so PANs and CVVs
 * are not guessable from one another or from issue time.
 */
package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	panLength = 16
	cvvLength = 3
)

// Generator produces card credentials.
type Generator interface {
	GeneratePAN() (string, error)
	GenerateCVV() (string, error)
}

// CardNumberGenerator draws each digit independently from a CSPRNG.
type CardNumberGenerator struct{}

// NewCardNumberGenerator creates a new CardNumberGenerator.
func NewCardNumberGenerator() *CardNumberGenerator {
	return &CardNumberGenerator{}
}

// GeneratePAN returns a 16-digit primary account number.
func (g *CardNumberGenerator) GeneratePAN() (string, error) {
	return randomDigits(panLength)
}

// GenerateCVV returns a 3-digit card verification value.
func (g *CardNumberGenerator) GenerateCVV() (string, error) {
	return randomDigits(cvvLength)
}

func randomDigits(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		digit, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to draw random digit: %w", err)
		}
		sb.WriteString(digit.String())
	}
	return sb.String(), nil
}
