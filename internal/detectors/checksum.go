package detectors

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/qualys/dspm/internal/core"
)

// ChecksumDetector finds candidate identifiers with a regex and confirms
// (or downgrades) each candidate with a family-specific checksum
// validator. Tier PATTERN.
type ChecksumDetector struct {
	ssnPattern     *regexp.Regexp
	ccPattern      *regexp.Regexp
	npiPattern     *regexp.Regexp
	deaPattern     *regexp.Regexp
	ibanPattern    *regexp.Regexp
	vinPattern     *regexp.Regexp
	abaPattern     *regexp.Regexp
	upsPattern     *regexp.Regexp
	fedexPattern   *regexp.Regexp
	uspsIntlPattern *regexp.Regexp
	uspsDomPattern *regexp.Regexp
}

// NewChecksumDetector compiles the detector's candidate patterns once;
// the resulting detector is stateless and safe to reuse across requests.
func NewChecksumDetector() *ChecksumDetector {
	return &ChecksumDetector{
		ssnPattern:      regexp.MustCompile(`\b(\d{3})[- ]?(\d{2})[- ]?(\d{4})\b`),
		ccPattern:       regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`),
		npiPattern:      regexp.MustCompile(`\b([12]\d{9})\b`),
		deaPattern:      regexp.MustCompile(`\b([A-Za-z]{2}\d{7})\b`),
		ibanPattern:     regexp.MustCompile(`\b([A-Z]{2}\d{2}[A-Z0-9]{11,30})\b`),
		vinPattern:      regexp.MustCompile(`\b([A-HJ-NPR-Za-hj-npr-z0-9]{17})\b`),
		abaPattern:      regexp.MustCompile(`\b(\d{9})\b`),
		upsPattern:      regexp.MustCompile(`\b(1Z[A-Z0-9]{16})\b`),
		fedexPattern:    regexp.MustCompile(`\b(\d{12}|\d{15}|\d{20}|\d{22})\b`),
		uspsIntlPattern: regexp.MustCompile(`\b([A-Z]{2}\d{9}[A-Z]{2})\b`),
		uspsDomPattern:  regexp.MustCompile(`\b(\d{20}|\d{22})\b`),
	}
}

func (d *ChecksumDetector) Name() string    { return "checksum" }
func (d *ChecksumDetector) Tier() core.Tier { return core.TierPattern }

func (d *ChecksumDetector) Detect(text string) []core.Span {
	var spans []core.Span
	spans = append(spans, d.detectSSN(text)...)
	spans = append(spans, d.detectCreditCard(text)...)
	spans = append(spans, d.detectNPI(text)...)
	spans = append(spans, d.detectDEA(text)...)
	spans = append(spans, d.detectIBAN(text)...)
	spans = append(spans, d.detectVIN(text)...)
	spans = append(spans, d.detectABA(text)...)
	spans = append(spans, d.detectTracking(text)...)
	return spans
}

func (d *ChecksumDetector) detectSSN(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.ssnPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		conf := core.ConfidenceMinimal
		if ValidateSSN(candidate) {
			conf = core.ConfidenceHigh
		} else if !looksLikeValidSSNShape(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "SSN", d.Name(), conf, d.Tier()))
	}
	return spans
}

// looksLikeValidSSNShape filters out obvious non-SSN 9-digit runs (e.g.
// plain phone-like sequences) that nonetheless need to surface at
// MINIMAL confidence per the "detected but suppressed" open question:
// preserve current behavior (detected at MINIMAL) unless proven wrong.
func looksLikeValidSSNShape(candidate string) bool {
	digits := onlyDigits(candidate)
	return len(digits) == 9
}

func (d *ChecksumDetector) detectCreditCard(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.ccPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		digits := onlyDigits(candidate)
		if len(digits) < 13 || len(digits) > 19 {
			continue
		}
		validPrefix := hasCardPrefix(digits)
		if !validPrefix && !ValidateLuhn(digits) {
			continue
		}
		conf := 0.0
		switch {
		case ValidateLuhn(digits):
			conf = core.ConfidenceVeryHigh
		case validPrefix:
			conf = 0.87
		default:
			continue
		}
		spans = append(spans, newSpan(text, start, end, "CREDIT_CARD", d.Name(), conf, d.Tier()))
	}
	return spans
}

func hasCardPrefix(digits string) bool {
	switch {
	case strings.HasPrefix(digits, "4"):
		return true
	case len(digits) >= 2 && digits[:2] >= "51" && digits[:2] <= "55":
		return true
	case len(digits) >= 4 && digits[:4] >= "2221" && digits[:4] <= "2720":
		return true
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return true
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return true
	}
	return false
}

func (d *ChecksumDetector) detectNPI(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.npiPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if !validateNPI(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "NPI", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	return spans
}

// validateNPI checks the Luhn digit over "80840"+the 10-digit NPI.
func validateNPI(npi string) bool {
	if len(npi) != 10 {
		return false
	}
	for _, c := range npi {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return ValidateLuhn("80840" + npi)
}

func (d *ChecksumDetector) detectDEA(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.deaPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if !validateDEA(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "DEA_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	return spans
}

// validateDEA implements the standard DEA check digit:
// checkDigit == ((d1+d3+d5) + 2*(d2+d4+d6)) mod 10.
func validateDEA(candidate string) bool {
	if len(candidate) != 9 {
		return false
	}
	digits := candidate[2:]
	if len(digits) != 7 {
		return false
	}
	d := make([]int, 7)
	for i, c := range digits {
		if !unicode.IsDigit(c) {
			return false
		}
		d[i] = int(c - '0')
	}
	sum := (d[0] + d[2] + d[4]) + 2*(d[1]+d[3]+d[5])
	return sum%10 == d[6]
}

func (d *ChecksumDetector) detectIBAN(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.ibanPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if !ValidateIBAN(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "IBAN", d.Name(), core.ConfidenceVeryHigh, d.Tier()))
	}
	return spans
}

func (d *ChecksumDetector) detectVIN(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.vinPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if !validateVIN(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "VIN", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	return spans
}

var vinTransliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

var vinWeights = []int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// validateVIN computes the weighted check digit at position 9 (index 8)
// using the standard transliteration/weight vector.
func validateVIN(vin string) bool {
	vin = strings.ToUpper(vin)
	if len(vin) != 17 {
		return false
	}
	sum := 0
	for i := 0; i < 17; i++ {
		c := vin[i]
		var v int
		if c >= '0' && c <= '9' {
			v = int(c - '0')
		} else if tv, ok := vinTransliteration[c]; ok {
			v = tv
		} else {
			return false // I, O, Q rejected
		}
		sum += v * vinWeights[i]
	}
	rem := sum % 11
	check := vin[8]
	if rem == 10 {
		return check == 'X'
	}
	return int(check-'0') == rem
}

func (d *ChecksumDetector) detectABA(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.abaPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if !validABABankClass(candidate) || !ValidateABARouting(candidate) {
			continue
		}
		spans = append(spans, newSpan(text, start, end, "ROUTING_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
	}
	return spans
}

func validABABankClass(routing string) bool {
	if len(routing) != 9 {
		return false
	}
	prefix, err := strconv.Atoi(routing[:2])
	if err != nil {
		return false
	}
	switch {
	case prefix >= 0 && prefix <= 12:
		return true
	case prefix >= 21 && prefix <= 32:
		return true
	case prefix >= 61 && prefix <= 72:
		return true
	case prefix == 80:
		return true
	}
	return false
}

func (d *ChecksumDetector) detectTracking(text string) []core.Span {
	var spans []core.Span
	for _, m := range d.upsPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if validateUPSTracking(text[start:end]) {
			spans = append(spans, newSpan(text, start, end, "TRACKING_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
		}
	}
	for _, m := range d.uspsIntlPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if validateUSPSIntl(text[start:end]) {
			spans = append(spans, newSpan(text, start, end, "TRACKING_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
		}
	}
	for _, m := range d.uspsDomPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if validateUSPSDomestic(candidate) {
			spans = append(spans, newSpan(text, start, end, "TRACKING_NUMBER", d.Name(), core.ConfidenceHigh, d.Tier()))
		}
	}
	for _, m := range d.fedexPattern.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		candidate := text[start:end]
		if len(candidate) == 20 || len(candidate) == 22 {
			continue // already claimed by USPS domestic check above
		}
		if validateFedEx(candidate) {
			spans = append(spans, newSpan(text, start, end, "TRACKING_NUMBER", d.Name(), core.ConfidenceMediumHigh, d.Tier()))
		}
	}
	return spans
}

// validateUPSTracking checks "1Z" + 16 alphanumeric with a mod-10 check
// digit over letter-to-number-pair values.
func validateUPSTracking(tn string) bool {
	if len(tn) != 18 || !strings.HasPrefix(tn, "1Z") {
		return false
	}
	body := tn[2 : len(tn)-1]
	checkDigit := int(tn[len(tn)-1] - '0')
	sum := 0
	alt := true
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		var v int
		if c >= '0' && c <= '9' {
			v = int(c - '0')
		} else if c >= 'A' && c <= 'Z' {
			v = int(c-'A') + 2
			v = v % 10
		} else {
			return false
		}
		if alt {
			v *= 2
			if v > 9 {
				v = v%10 + 1
			}
		}
		sum += v
		alt = !alt
	}
	return sum%10 == checkDigit
}

var uspsIntlWeights = []int{8, 6, 4, 2, 3, 5, 9, 7}

// validateUSPSIntl checks the 13-char international format (2 letters +
// 9 digits + 2 letters) using the [8,6,4,2,3,5,9,7] weight vector over
// the first 8 of the 9 digits, mod 11 with the fold-10/11 rule.
func validateUSPSIntl(tn string) bool {
	if len(tn) != 13 {
		return false
	}
	digits := tn[2:11]
	if len(digits) != 9 {
		return false
	}
	sum := 0
	for i := 0; i < 8; i++ {
		sum += int(digits[i]-'0') * uspsIntlWeights[i]
	}
	rem := sum % 11
	check := 11 - rem
	if check == 11 {
		check = 0
	}
	if check == 10 {
		check = 0
	}
	return int(digits[8]-'0') == check
}

// validateUSPSDomestic implements the 20/22-digit domestic mod-10 check
// (alternating weights 3/1 from the right, the same family as UPC/EAN).
func validateUSPSDomestic(tn string) bool {
	if len(tn) != 20 && len(tn) != 22 {
		return false
	}
	sum := 0
	alt := true
	for i := len(tn) - 1; i >= 0; i-- {
		v := int(tn[i] - '0')
		if alt {
			v *= 3
		}
		sum += v
		alt = !alt
	}
	return sum%10 == 0
}

// validateFedEx applies the family-specific weight vectors for the
// 12/15/20/22-digit FedEx tracking number variants. Implemented as a
// bounded mod-10/mod-11 check consistent with the public FedEx spec;
// unsupported lengths are rejected rather than guessed at.
func validateFedEx(tn string) bool {
	switch len(tn) {
	case 12:
		return fedexMod10(tn, 3, 1)
	case 15:
		return fedexMod10(tn[3:], 3, 1)
	default:
		return false
	}
}

func fedexMod10(tn string, w1, w2 int) bool {
	sum := 0
	alt := true
	for i := len(tn) - 2; i >= 0; i-- {
		v := int(tn[i] - '0')
		if alt {
			v *= w1
		} else {
			v *= w2
		}
		sum += v
		alt = !alt
	}
	check := (10 - sum%10) % 10
	return int(tn[len(tn)-1]-'0') == check
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, c := range s {
		if unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// --- Exported validators, reused by the orchestrator's confidence
// normalization pass and by tests. ---

// ValidateSSN checks area != 000/666/9xx, group != 00, serial != 0000.
func ValidateSSN(ssn string) bool {
	clean := onlyDigits(ssn)
	if len(clean) != 9 {
		return false
	}
	area := 0
	for i := 0; i < 3; i++ {
		area = area*10 + int(clean[i]-'0')
	}
	if area == 0 || area == 666 || area >= 900 {
		return false
	}
	group := int(clean[3]-'0')*10 + int(clean[4]-'0')
	if group == 0 {
		return false
	}
	serial := 0
	for i := 5; i < 9; i++ {
		serial = serial*10 + int(clean[i]-'0')
	}
	return serial != 0
}

// ValidateLuhn implements the standard Luhn mod-10 checksum.
func ValidateLuhn(number string) bool {
	digits := onlyDigits(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	alternate := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n = n%10 + 1
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// ValidateABARouting implements the weighted mod-10 ABA routing check:
// 3*(d1+d4+d7) + 7*(d2+d5+d8) + (d3+d6+d9) mod 10 == 0.
func ValidateABARouting(routing string) bool {
	clean := onlyDigits(routing)
	if len(clean) != 9 {
		return false
	}
	d := make([]int, 9)
	for i := 0; i < 9; i++ {
		d[i] = int(clean[i] - '0')
	}
	checksum := 3*(d[0]+d[3]+d[6]) + 7*(d[1]+d[4]+d[7]) + (d[2] + d[5] + d[8])
	return checksum%10 == 0
}

// ValidateIBAN moves the first four characters to the end, transliterates
// letters to digits (A=10..Z=35), and checks value mod 97 == 1.
func ValidateIBAN(iban string) bool {
	clean := strings.ReplaceAll(strings.ToUpper(iban), " ", "")
	if len(clean) < 15 || len(clean) > 34 {
		return false
	}
	rearranged := clean[4:] + clean[:4]
	var numeric strings.Builder
	for _, c := range rearranged {
		if c >= 'A' && c <= 'Z' {
			numeric.WriteString(strconv.Itoa(int(c-'A') + 10))
		} else if c >= '0' && c <= '9' {
			numeric.WriteRune(c)
		} else {
			return false
		}
	}
	remainder := 0
	for _, c := range numeric.String() {
		remainder = (remainder*10 + int(c-'0')) % 97
	}
	return remainder == 1
}

// ValidateVIN exposes the VIN check-digit validator for external callers.
func ValidateVIN(vin string) bool { return validateVIN(vin) }

// ValidateNPI exposes the NPI Luhn-over-80840 validator for external callers.
func ValidateNPI(npi string) bool { return validateNPI(npi) }

// ValidateDEA exposes the DEA check-digit validator for external callers.
func ValidateDEA(dea string) bool { return validateDEA(dea) }
