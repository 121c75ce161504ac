// Package shortcode turns sequential identifiers into fixed-length,
// non-sequential-looking base62 short codes.
package shortcode

import (
	"errors"
	"fmt"
)

const (
	// Alphabet contains all characters a short code may consist of.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// CodeLength is the length of every generated short code.
	CodeLength = 7

	// DefaultModulusBits sizes the default scramble space at 2^40 (~1.1 trillion codes).
	DefaultModulusBits = 40
	// DefaultMultiplier is the default odd multiplier applied when scrambling.
	DefaultMultiplier = 36779219

	// 62^7 ≈ 3.5×10^12; 2^41 is the largest power of two below it,
	// so larger moduli would truncate during encoding.
	maxModulusBits = 41

	base = uint64(len(Alphabet))
)

// ErrSeqOutOfRange is returned when a sequence number at or beyond the scramble
// modulus is passed in. Callers reduce modulo the modulus first, so hitting this
// indicates a caller bug rather than an exhausted code space.
var ErrSeqOutOfRange = errors.New("sequence number outside scramble range")

// Generator maps sequence numbers to short codes via an invertible
// modular multiplication. It is stateless and safe for concurrent use.
type Generator struct {
	modulus    uint64
	multiplier uint64
}

// New creates a Generator with a 2^modulusBits scramble space.
// The multiplier must be odd so that it is invertible modulo a power of two,
// which makes the scramble a bijection on [0, modulus).
func New(modulusBits uint, multiplier uint64) (*Generator, error) {
	const op = "shortcode.New"

	if modulusBits < 1 || modulusBits > maxModulusBits {
		return nil, fmt.Errorf("%s: modulus bits must be in [1, %d], got %d", op, maxModulusBits, modulusBits)
	}
	if multiplier%2 == 0 {
		return nil, fmt.Errorf("%s: multiplier must be odd, got %d", op, multiplier)
	}

	return &Generator{
		modulus:    1 << modulusBits,
		multiplier: multiplier,
	}, nil
}

// Modulus returns the size of the scramble space. It is the hard ceiling on
// the number of live codes the generator can serve.
func (g *Generator) Modulus() uint64 {
	return g.modulus
}

// Scramble maps seq to a non-obviously-ordered identifier in [0, modulus).
// Distinct inputs map to distinct outputs.
func (g *Generator) Scramble(seq uint64) (uint64, error) {
	const op = "shortcode.Generator.Scramble"

	if seq >= g.modulus {
		return 0, fmt.Errorf("%s: %w", op, ErrSeqOutOfRange)
	}

	// The multiplication may wrap around uint64, which is harmless: the
	// modulus divides 2^64, so the wrapped product is still exact mod modulus.
	return seq * g.multiplier % g.modulus, nil
}

// Code scrambles seq and encodes the result as a fixed-length base62 string.
func (g *Generator) Code(seq uint64) (string, error) {
	const op = "shortcode.Generator.Code"

	scrambled, err := g.Scramble(seq)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return encode(scrambled), nil
}

// encode writes id as exactly CodeLength base62 digits, most significant
// first, left-padded with the alphabet's zero symbol. id is always below
// 62^CodeLength here because the modulus is capped, so nothing truncates.
func encode(id uint64) string {
	var buf [CodeLength]byte
	for i := CodeLength - 1; i >= 0; i-- {
		buf[i] = Alphabet[id%base]
		id /= base
	}
	return string(buf[:])
}
