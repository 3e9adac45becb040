// Package taxid canonicalizes and checks Brazilian CNPJ identifiers.
package taxid

import "strings"

// Length is the number of digits in a CNPJ.
const Length = 14

// check digit weights, applied left to right over the first 12 and 13 digits.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits returns the ASCII digits of s, in order.
func Digits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Normalize strips everything but digits and left-pads with zeros to 14 digits.
// "12.345.678/0001-95" -> "12345678000195", "123" -> "00000000000123".
// Input without any digit yields "".
func Normalize(s string) string {
	d := Digits(s)
	if d == "" {
		return ""
	}
	if len(d) < Length {
		d = strings.Repeat("0", Length-len(d)) + d
	}
	return d
}

// Format renders a 14-digit CNPJ as 00.000.000/0000-00. Anything else is returned unchanged.
func Format(s string) string {
	d := Digits(s)
	if len(d) != Length {
		return s
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// Valid reports whether s holds exactly 14 digits with matching check digits.
// Sequences of a single repeated digit are rejected.
func Valid(s string) bool {
	d := Digits(s)
	if len(d) != Length || strings.Count(d, d[:1]) == Length {
		return false
	}
	return d[12] == checkDigit(d[:12], firstWeights[:]) && d[13] == checkDigit(d[:13], secondWeights[:])
}

func checkDigit(digits string, weights []int) byte {
	var sum int
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return '0'
	}
	return byte('0' + (11 - r))
}
