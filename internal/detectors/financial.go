package detectors

import (
	"crypto/sha256"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/qualys/dspm/internal/core"
)

// FinancialDetector finds security identifiers (CUSIP/ISIN/SEDOL),
// SWIFT/BIC bank codes, and cryptocurrency addresses (Bitcoin base58/
// bech32, Ethereum with EIP-55 checksum). Tier PATTERN.
type FinancialDetector struct {
	cusip    *regexp.Regexp
	isin     *regexp.Regexp
	sedol    *regexp.Regexp
	swift    *regexp.Regexp
	btcBase58 *regexp.Regexp
	btcBech32 *regexp.Regexp
	eth      *regexp.Regexp
}

func NewFinancialDetector() *FinancialDetector {
	return &FinancialDetector{
		cusip:     regexp.MustCompile(`\b[0-9A-Z]{8}[0-9]\b`),
		isin:      regexp.MustCompile(`\b[A-Z]{2}[0-9A-Z]{9}[0-9]\b`),
		sedol:     regexp.MustCompile(`\b[0-9B-DF-HJ-NP-TV-Z]{6}[0-9]\b`),
		swift:     regexp.MustCompile(`\b[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`),
		btcBase58: regexp.MustCompile(`\b[13][a-km-zA-HJ-NP-Z1-9]{25,34}\b`),
		btcBech32: regexp.MustCompile(`\bbc1[a-z0-9]{25,62}\b`),
		eth:       regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`),
	}
}

func (d *FinancialDetector) Name() string    { return "financial" }
func (d *FinancialDetector) Tier() core.Tier { return core.TierPattern }

func (d *FinancialDetector) Detect(text string) []core.Span {
	var spans []core.Span

	for _, m := range d.cusip.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		if validateCUSIP(candidate) {
			spans = append(spans, newSpan(text, m[0], m[1], "CUSIP", d.Name(), core.ConfidenceHigh, d.Tier()))
		}
	}

	for _, m := range d.isin.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		if validateISIN(candidate) {
			spans = append(spans, newSpan(text, m[0], m[1], "ISIN", d.Name(), core.ConfidenceHigh, d.Tier()))
		}
	}

	for _, m := range d.sedol.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		if validateSEDOL(candidate) {
			spans = append(spans, newSpan(text, m[0], m[1], "SEDOL", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
		}
	}

	for _, m := range d.swift.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		if len(candidate) == 8 || len(candidate) == 11 {
			spans = append(spans, newSpan(text, m[0], m[1], "SWIFT_BIC", d.Name(), core.ConfidenceMedium, d.Tier()))
		}
	}

	for _, m := range d.btcBase58.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		if validateBase58Checksum(candidate) {
			spans = append(spans, newSpan(text, m[0], m[1], "BITCOIN_ADDRESS", d.Name(), core.ConfidenceVeryHigh, d.Tier()))
		}
	}

	for _, m := range d.btcBech32.FindAllStringIndex(text, -1) {
		spans = append(spans, newSpan(text, m[0], m[1], "BITCOIN_ADDRESS", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
	}

	for _, m := range d.eth.FindAllStringIndex(text, -1) {
		candidate := text[m[0]:m[1]]
		conf := core.ConfidenceMedium
		if hasMixedCase(candidate[2:]) {
			if validateEIP55(candidate) {
				conf = core.ConfidenceVeryHigh
			} else {
				continue // mixed-case checksum present but wrong: not a real address
			}
		}
		spans = append(spans, newSpan(text, m[0], m[1], "ETHEREUM_ADDRESS", d.Name(), conf, d.Tier()))
	}

	return spans
}

// validateCUSIP applies the standard 9-char mod-10 Luhn-style check over
// the transliterated (letters -> 10-35, '*' -> 36, '@' -> 37, '#' -> 38)
// value, doubling every second digit from the left.
func validateCUSIP(cusip string) bool {
	if len(cusip) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 8; i++ {
		v := cusipCharValue(cusip[i])
		if v < 0 {
			return false
		}
		if i%2 == 1 {
			v *= 2
		}
		sum += v/10 + v%10
	}
	check := (10 - sum%10) % 10
	return int(cusip[8]-'0') == check
}

func cusipCharValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c == '*':
		return 36
	case c == '@':
		return 37
	case c == '#':
		return 38
	}
	return -1
}

// validateISIN checks the 2-letter country prefix + 9-char NSIN + 1
// check digit using the Luhn algorithm over the fully transliterated
// (letter -> two digits) numeric string.
func validateISIN(isin string) bool {
	if len(isin) != 12 {
		return false
	}
	var numeric strings.Builder
	for i := 0; i < 11; i++ {
		c := isin[i]
		if c >= 'A' && c <= 'Z' {
			numeric.WriteString(itoa(int(c-'A') + 10))
		} else if c >= '0' && c <= '9' {
			numeric.WriteByte(c)
		} else {
			return false
		}
	}
	digits := numeric.String()
	sum := 0
	alt := true
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if alt {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alt = !alt
	}
	check := (10 - sum%10) % 10
	return int(isin[11]-'0') == check
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

var sedolWeights = []int{1, 3, 1, 7, 3, 9}

// validateSEDOL applies the weighted [1,3,1,7,3,9] check over the first
// six characters, mod 10.
func validateSEDOL(sedol string) bool {
	if len(sedol) != 7 {
		return false
	}
	sum := 0
	for i := 0; i < 6; i++ {
		v := cusipCharValue(sedol[i])
		if v < 0 {
			return false
		}
		sum += v * sedolWeights[i]
	}
	check := (10 - sum%10) % 10
	return int(sedol[6]-'0') == check
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// validateBase58Checksum decodes a base58check address and verifies the
// trailing 4-byte double-SHA256 checksum, per the P2PKH/P2SH address format.
func validateBase58Checksum(addr string) bool {
	if len(addr) < 26 || len(addr) > 35 {
		return false
	}
	decoded := decodeBase58(addr)
	if decoded == nil || len(decoded) < 5 {
		return false
	}
	payload, checksum := decoded[:len(decoded)-4], decoded[len(decoded)-4:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	for i := 0; i < 4; i++ {
		if second[i] != checksum[i] {
			return false
		}
	}
	return true
}

func decodeBase58(s string) []byte {
	result := make([]byte, 0, len(s))
	for _, c := range s {
		idx := strings.IndexRune(base58Alphabet, c)
		if idx < 0 {
			return nil
		}
		carry := idx
		for i := 0; i < len(result); i++ {
			carry += int(result[i]) * 58
			result[i] = byte(carry & 0xff)
			carry >>= 8
		}
		for carry > 0 {
			result = append(result, byte(carry&0xff))
			carry >>= 8
		}
	}
	// leading '1' characters encode leading zero bytes
	for _, c := range s {
		if c != '1' {
			break
		}
		result = append(result, 0)
	}
	// result accumulated little-endian; reverse to big-endian
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

func hasMixedCase(s string) bool {
	hasUpper, hasLower := false, false
	for _, c := range s {
		if c >= 'A' && c <= 'F' {
			hasUpper = true
		}
		if c >= 'a' && c <= 'f' {
			hasLower = true
		}
	}
	return hasUpper && hasLower
}

// validateEIP55 verifies the EIP-55 mixed-case checksum: each hex digit
// of the lowercased address is uppercased iff the corresponding nibble of
// keccak256(lowercased address) is >= 8.
func validateEIP55(addr string) bool {
	if len(addr) != 42 {
		return false
	}
	lower := strings.ToLower(addr[2:])
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(lower))
	sum := hash.Sum(nil)

	for i, c := range lower {
		if c < '0' || c > '9' {
			hashByte := sum[i/2]
			var nibble byte
			if i%2 == 0 {
				nibble = hashByte >> 4
			} else {
				nibble = hashByte & 0xf
			}
			upper := nibble >= 8
			isUpper := addr[2+i] >= 'A' && addr[2+i] <= 'F'
			if upper != isUpper {
				return false
			}
		}
	}
	return true
}
