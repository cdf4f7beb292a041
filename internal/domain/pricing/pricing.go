// Package pricing derives the display price of a catalog item from its text.
//
// The catalog does not carry prices the app trusts, so every card shows a
// price computed as ten units per title character plus one unit per vowel in
// the description.
package pricing

import (
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

const titleWeight = 10

// Price returns titleLength*10 + vowelCount(description). The title length
// is measured in UTF-16 code units, so characters outside the BMP count twice.
func Price(title, description string) decimal.Decimal {
	n := int64(titleLength(title))*titleWeight + int64(countVowels(description))
	return decimal.NewFromInt(n)
}

func titleLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// CalculatePrice returns Price formatted as a dollar amount with two
// decimals, e.g. "$35.00".
func CalculatePrice(title, description string) string {
	return Format(Price(title, description))
}

// Format renders a price as "$" followed by the amount with two decimals.
func Format(price decimal.Decimal) string {
	return "$" + price.StringFixed(2)
}

// countVowels counts ASCII vowels a, e, i, o, u regardless of case.
func countVowels(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			n++
		}
	}
	return n
}
