package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{name: "empty", title: "", description: "", want: "$0.00"},
		{name: "title and vowels", title: "abc", description: "aeiou", want: "$35.00"},
		{name: "case insensitive vowels", title: "", description: "AeIoU xyz", want: "$5.00"},
		{name: "no vowels", title: "Lamp", description: "rhythm", want: "$40.00"},
		{name: "y is not a vowel", title: "", description: "yyyy", want: "$0.00"},
		{name: "diacritics are not vowels", title: "", description: "éàü", want: "$0.00"},
		{name: "multibyte title counts characters", title: "café", description: "", want: "$40.00"},
		{name: "astral character counts as two units", title: "😀", description: "", want: "$20.00"},
		{name: "mixed BMP and astral title", title: "a😀b", description: "a", want: "$41.00"},
		{
			name:        "fake store backpack",
			title:       "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
			description: "Your perfect pack for everyday use",
			// 53 characters * 10 + 11 vowels
			want: "$541.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculatePrice(tt.title, tt.description))
		})
	}
}

func TestPrice(t *testing.T) {
	got := Price("abc", "aeiou")
	assert.True(t, decimal.NewFromInt(35).Equal(got), "got %s", got)
}

func TestCalculatePrice_Deterministic(t *testing.T) {
	first := CalculatePrice("Mens Cotton Jacket", "great outerwear jackets for Spring")
	for range 10 {
		assert.Equal(t, first, CalculatePrice("Mens Cotton Jacket", "great outerwear jackets for Spring"))
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$12.50", Format(decimal.RequireFromString("12.5")))
	assert.Equal(t, "$0.00", Format(decimal.Zero))
}
