package util

import "strings"

// cnpjWeights1 and cnpjWeights2 are the check-digit weight tables.
var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// NormalizeCNPJ strips formatting punctuation from a CNPJ string.
func NormalizeCNPJ(cnpj string) string {
	var b strings.Builder
	for _, r := range cnpj {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCNPJ verifies the two check digits of a Brazilian company
// registration number. Formatting punctuation is ignored.
func ValidateCNPJ(cnpj string) bool {
	digits := NormalizeCNPJ(cnpj)
	if len(digits) != 14 {
		return false
	}
	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits[:12], cnpjWeights1) != int(digits[12]-'0') {
		return false
	}
	return checkDigit(digits[:13], cnpjWeights2) == int(digits[13]-'0')
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
