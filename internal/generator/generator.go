// Package generator implements the password generator and strength estimator.
// Both are pure and safe for concurrent use.
package generator

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
)

// WordList is the phonetic alphabet used for word parts, one entry per letter.
var WordList = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliet", "kilo", "lima", "mango", "nectar", "omega", "papa",
	"quartz", "romeo", "sierra", "tango", "ultra", "vector", "whiskey", "xray",
	"yankee", "zulu",
}

// SpecialChars is the set a special part is drawn from.
const SpecialChars = `!@#$%^&*()-_=+[]{}|;:'",.<>?/`

// Bounds for number parts, inclusive.
const (
	numberMin = 10
	numberMax = 9999
)

// Options is the composition policy for a generated password.
// Length counts parts, not characters: word parts are multi-character and
// number parts are variable width, so output length in characters varies.
type Options struct {
	Length         int  `json:"length"`
	IncludeSpecial bool `json:"includeSpecial"`
	IncludeNumbers bool `json:"includeNumbers"`
}

type partKind int

const (
	kindWord partKind = iota
	kindSpecial
	kindNumber
)

// Generate produces a randomized password from the composition policy.
// A Length of 0 yields the empty string. With both flags off every part
// is a word.
func Generate(opts Options) string {
	kinds := []partKind{kindWord}
	if opts.IncludeSpecial {
		kinds = append(kinds, kindSpecial)
	}
	if opts.IncludeNumbers {
		kinds = append(kinds, kindNumber)
	}

	parts := make([]string, 0, opts.Length)
	for i := 0; i < opts.Length; i++ {
		switch kinds[randInt(len(kinds))] {
		case kindWord:
			parts = append(parts, WordList[randInt(len(WordList))])
		case kindSpecial:
			parts = append(parts, string(SpecialChars[randInt(len(SpecialChars))]))
		case kindNumber:
			parts = append(parts, strconv.Itoa(RandomNumber()))
		}
	}

	// Fisher-Yates shuffle, last-to-first.
	for i := len(parts) - 1; i > 0; i-- {
		j := randInt(i + 1)
		parts[i], parts[j] = parts[j], parts[i]
	}

	return strings.Join(parts, "")
}

// RandomNumber returns a uniform random integer in [10, 9999].
func RandomNumber() int {
	return numberMin + randInt(numberMax-numberMin+1)
}

// randInt returns a uniform random integer in [0, n).
func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform RNG is broken; a password
		// generator must not degrade to something predictable.
		panic(err)
	}
	return int(v.Int64())
}
