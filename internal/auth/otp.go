package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// One-time codes are four digits in [CodeMin, CodeMax]; the range excludes a
// leading zero so the code survives numeric round-trips in client code.
const (
	CodeMin = 1000
	CodeMax = 9999
)

// CodeTTL is the fixed validity window applied when a challenge is persisted.
// Expiry is enforced at verification time by the component consulting the
// challenge store, not here.
const CodeTTL = 5 * time.Minute

var codeRange = big.NewInt(CodeMax - CodeMin + 1)

// GenerateCode draws a code uniformly from the declared range using the
// crypto randomness source. crypto/rand.Int is range-limited, so there is no
// modulo bias toward any digit.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+CodeMin, 10), nil
}

// ValidCodeFormat reports whether code is exactly four ASCII digits whose
// numeric value falls in the declared range. Used to reject malformed client
// input before any store round-trip is attempted.
func ValidCodeFormat(code string) bool {
	if len(code) != 4 {
		return false
	}
	value := int64(0)
	for i := 0; i < len(code); i++ {
		ch := code[i]
		if ch < '0' || ch > '9' {
			return false
		}
		value = value*10 + int64(ch-'0')
	}
	return value >= CodeMin && value <= CodeMax
}
