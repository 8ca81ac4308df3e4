package encoding

import (
	"errors"
	"strings"
)

var (
	ErrInvalidAlphabet = errors.New("alphabet must contain at least 2 unique characters")
	ErrInvalidInput    = errors.New("input contains invalid characters")
	ErrNegativeNumber  = errors.New("cannot encode negative numbers")
)

// minEncodedLength pads short codes so links look uniform.
const minEncodedLength = 4

// BaseNEncoder converts non-negative integers to and from short strings
// over a custom alphabet.
type BaseNEncoder struct {
	alphabet string
	base     int64
	charMap  map[rune]int64
}

// NewBaseNEncoder creates an encoder over the given alphabet. The alphabet
// must have at least two characters and no duplicates.
func NewBaseNEncoder(alphabet string) (*BaseNEncoder, error) {
	if len(alphabet) < 2 {
		return nil, ErrInvalidAlphabet
	}

	charMap := make(map[rune]int64, len(alphabet))
	for i, char := range alphabet {
		if _, dup := charMap[char]; dup {
			return nil, ErrInvalidAlphabet
		}
		charMap[char] = int64(i)
	}

	return &BaseNEncoder{
		alphabet: alphabet,
		base:     int64(len(alphabet)),
		charMap:  charMap,
	}, nil
}

// Encode converts a non-negative integer to a base-N string, left-padded
// with the alphabet's first character to the minimum length.
func (e *BaseNEncoder) Encode(num int64) (string, error) {
	if num < 0 {
		return "", ErrNegativeNumber
	}

	digits := make([]byte, 0, minEncodedLength)
	for num > 0 {
		digits = append(digits, e.alphabet[num%e.base])
		num /= e.base
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	encoded := string(digits)
	if len(encoded) < minEncodedLength {
		encoded = strings.Repeat(string(e.alphabet[0]), minEncodedLength-len(encoded)) + encoded
	}
	return encoded, nil
}

// Decode converts a base-N string back to an integer. Leading padding
// characters are stripped first.
func (e *BaseNEncoder) Decode(encoded string) (int64, error) {
	if encoded == "" {
		return 0, ErrInvalidInput
	}

	encoded = strings.TrimLeft(encoded, string(e.alphabet[0]))
	if encoded == "" {
		return 0, nil
	}

	var num int64
	for _, char := range encoded {
		idx, ok := e.charMap[char]
		if !ok {
			return 0, ErrInvalidInput
		}
		num = num*e.base + idx
	}
	return num, nil
}
