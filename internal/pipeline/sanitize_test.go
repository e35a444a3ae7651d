package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wparames/honeymart/internal/models"
)

func TestSanitizeEmail(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"valid email", "rahul.verma@gmail.com", "rahul.verma@gmail.com", true},
		{"leading digits and dots stripped", "007.rahul.verma@gmail.com", "rahul.verma@gmail.com", true},
		{"leading whitespace stripped", "  priya.sharma@yahoo.com", "priya.sharma@yahoo.com", true},
		{"lowercased", "Amit.KUMAR@Gmail.COM", "amit.kumar@gmail.com", true},
		{"not an email", "not-an-email", "", false},
		{"missing tld dot", "user@localhost", "", false},
		{"one-letter tld", "user@example.c", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			email, ok := SanitizeEmail(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, email)
		})
	}
}

func TestSanitizePassword(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"valid", "Pass123@456", "Pass123@456", true},
		{"trimmed", "  Secret#99  ", "Secret#99", true},
		{"disallowed chars stripped", "abc!de?f", "abcdef", true},
		{"too short", "abc12", "", false},
		{"too long", strings.Repeat("a", 51), "", false},
		{"exactly six", "abcdef", "abcdef", true},
		{"five runes multibyte rejected", "ññ12a", "", false},
		{"six runes multibyte accepted", "ñoñi12", "oi12", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			password, ok := SanitizePassword(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, password)
		})
	}
}

func TestSanitizeRole(t *testing.T) {
	assert.Equal(t, models.RoleAdmin, SanitizeRole("admin"))
	assert.Equal(t, models.RoleAdmin, SanitizeRole("  ADMIN "))
	assert.Equal(t, models.RoleUser, SanitizeRole("user"))
	assert.Equal(t, models.RoleUser, SanitizeRole("superuser"))
	assert.Equal(t, models.RoleUser, SanitizeRole(""))
}

func TestSanitizeProductName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"title cased", "organic turmeric powder", "Organic Turmeric Powder", true},
		{"whitespace collapsed", "  wild   forest\thoney ", "Wild Forest Honey", true},
		{"special chars stripped", "Basmati Rice (5kg)!", "Basmati Rice 5kg", true},
		{"hyphen kept", "whole-wheat atta", "Whole-wheat Atta", true},
		{"too short", "a", "", false},
		{"only special chars", "!!!", "", false},
		{"too long", strings.Repeat("a", 101), "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := SanitizeProductName(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, name)
		})
	}
}

func TestSanitizePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"currency symbol and separators", "₹1,499.50 ", 1499.5, true},
		{"plain integer", "499", 499, true},
		{"rounded to 2 decimals", "12.345", 12.35, true},
		{"negative rejected", "-5", 0, false},
		{"exceeds cap", "200000", 0, false},
		{"zero rejected", "0", 0, false},
		{"not a number", "free", 0, false},
		{"at cap", "100000", 100000, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			price, ok := SanitizePrice(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, price)
		})
	}
}

func TestSanitizeStock(t *testing.T) {
	// Valid values pass through untouched
	assert.Equal(t, 250, SanitizeStock("250"))
	assert.Equal(t, 0, SanitizeStock("0"))
	assert.Equal(t, 10000, SanitizeStock("10000"))

	// Invalid values self-heal to a random in-range quantity, never reject
	for _, input := range []string{"abc", "", "-3", "10001", "99999"} {
		stock := SanitizeStock(input)
		assert.GreaterOrEqual(t, stock, 50, "input %q", input)
		assert.LessOrEqual(t, stock, 500, "input %q", input)
	}
}
