package pipeline

import (
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wparames/honeymart/internal/models"
)

// Sanitizers never panic and never touch external state. Each either returns
// a normalized value with ok=true, or rejects the input with ok=false.
// SanitizeRole and SanitizeStock are the exceptions: they always produce a
// usable value (role falls back to "user", stock self-heals with a random
// in-range quantity).

const (
	MinPrice = 0.0
	MaxPrice = 100000.0
	MinStock = 0
	MaxStock = 10000
)

var (
	emailLeadingJunk = regexp.MustCompile(`^[\d\s.]+`)
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordStrip    = regexp.MustCompile(`[^\w@#$%^&+=]`)
	productNameStrip = regexp.MustCompile(`[^\w\s-]`)
	priceStrip       = regexp.MustCompile(`[^\d.]`)
)

// SanitizeEmail strips leading digits, dots and spaces, lowercases, and
// validates the result against a local@domain.tld shape.
func SanitizeEmail(raw string) (string, bool) {
	email := emailLeadingJunk.ReplaceAllString(strings.TrimSpace(raw), "")
	email = strings.ToLower(email)

	if !emailRegex.MatchString(email) {
		return "", false
	}
	return email, true
}

// SanitizePassword trims, rejects lengths outside [6,50], and strips any
// character outside the allowed charset.
func SanitizePassword(raw string) (string, bool) {
	password := strings.TrimSpace(raw)
	// Bounds count code points, not bytes; generated text can be multibyte
	// before the strip
	if n := utf8.RuneCountInString(password); n < 6 || n > 50 {
		return "", false
	}
	return passwordStrip.ReplaceAllString(password, ""), true
}

// SanitizeRole maps anything that is not exactly "admin" to "user".
func SanitizeRole(raw string) models.Role {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == string(models.RoleAdmin) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// SanitizeProductName trims, collapses internal whitespace, strips characters
// outside [A-Za-z0-9 _-], rejects lengths outside [2,100], and title-cases
// each word.
func SanitizeProductName(raw string) (string, bool) {
	name := strings.Join(strings.Fields(raw), " ")
	name = productNameStrip.ReplaceAllString(name, "")

	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return "", false
	}
	return titleCase(name), true
}

// SanitizePrice strips everything but digits and dots, parses the remainder
// as a decimal, rejects values outside (0, 100000], and rounds to 2 decimals.
func SanitizePrice(raw string) (float64, bool) {
	// A minus sign would be lost in the strip below; negative prices are
	// rejections, not absolute values.
	if strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return 0, false
	}

	cleaned := priceStrip.ReplaceAllString(raw, "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}

	if price <= MinPrice || price > MaxPrice {
		return 0, false
	}
	return math.Round(price*100) / 100, true
}

// SanitizeStock parses an integer stock quantity. Unparsable or out-of-range
// input is replaced with a random quantity in [50,500] rather than rejected:
// stock has no uniqueness or security implication, so the pipeline heals it.
func SanitizeStock(raw string) int {
	stock, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || stock < MinStock || stock > MaxStock {
		return randomStock()
	}
	return stock
}

// randomStock returns a uniformly random quantity in [50,500].
func randomStock() int {
	return 50 + rand.IntN(451)
}

func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
