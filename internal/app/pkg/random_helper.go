package pkg

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
)

// ValidationCodeAlphabet omits I, O, 0 and 1 so codes survive being read aloud.
const ValidationCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ValidationCodeLength = 5

const DefaultValidationCodePrefix = "CW"

// RandomSource is the only way randomness enters prize selection, captions and codes.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.IntN(n)
}

// NewRandomSource returns a goroutine-safe PCG source seeded from crypto/rand.
func NewRandomSource() RandomSource {
	return NewLockedSource(rand.New(rand.NewPCG(cryptoSeed(), cryptoSeed())))
}

// NewLockedSource makes any source safe to share between requests.
func NewLockedSource(rnd *rand.Rand) RandomSource {
	return &lockedSource{rnd: rnd}
}

func cryptoSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}

// GenerateValidationCode builds PREFIX-XXXXX with each position drawn independently.
// Uniqueness is the caller's job.
func GenerateValidationCode(src RandomSource, prefix string) string {
	if prefix == "" {
		prefix = DefaultValidationCodePrefix
	}

	var b strings.Builder
	b.Grow(len(prefix) + 1 + ValidationCodeLength)
	b.WriteString(prefix)
	b.WriteByte('-')
	for i := 0; i < ValidationCodeLength; i++ {
		b.WriteByte(ValidationCodeAlphabet[src.IntN(len(ValidationCodeAlphabet))])
	}
	return b.String()
}

// NormalizeValidationCode accepts what staff type at the desk.
func NormalizeValidationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeValidationCodePrefix upper-cases a configured prefix and rejects
// characters that lookups could not match or that the alphabet leaves out.
func NormalizeValidationCodePrefix(prefix string) (string, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return DefaultValidationCodePrefix, nil
	}
	for _, r := range prefix {
		if !strings.ContainsRune(ValidationCodeAlphabet, r) {
			return "", fmt.Errorf("validation code prefix %q contains %q, allowed characters are %s", prefix, r, ValidationCodeAlphabet)
		}
	}
	return prefix, nil
}

// RandomElement picks one element of a non-empty slice.
func RandomElement[T any](src RandomSource, items []T) T {
	return items[src.IntN(len(items))]
}
