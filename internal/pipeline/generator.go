package pipeline

import (
	"context"
	"fmt"

	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

// TextGenerator is the external text-generation capability. Responses may be
// arbitrary, malformed or short; nothing about their shape is trusted.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UserRecord is one sanitized synthetic user candidate.
type UserRecord struct {
	Email    string
	Password string
	Role     models.Role
}

// ProductRecord is one sanitized synthetic product candidate.
type ProductRecord struct {
	Name  string
	Price float64
	Stock int
}

// BatchSpec describes one bounded-retry generation run.
//
// Fallback is the terminal policy: when nil, exhausting MaxAttempts is a hard
// failure; when non-nil, the fallback records are returned instead. Users use
// the hard-failure policy (seed accounts cover their absence), products fall
// back to defaults because order synthesis cannot proceed without them.
type BatchSpec[T any] struct {
	Kind        string
	Prompt      string
	FieldCount  int
	Parse       LineParser[T]
	Key         func(T) string
	MinRequired int
	MaxAttempts int
	Fallback    []T
}

// GenerateBatch repeatedly calls gen until one attempt yields at least
// MinRequired valid records or MaxAttempts is exhausted. A generation error
// (including a timeout) counts as a failed attempt.
func GenerateBatch[T any](ctx context.Context, gen TextGenerator, spec BatchSpec[T]) ([]T, error) {
	for attempt := 1; attempt <= spec.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := gen.Generate(ctx, spec.Prompt)
		if err != nil {
			logger.Log.Warn("Generation attempt failed",
				zap.String("kind", spec.Kind),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		records := Extract(text, spec.FieldCount, spec.Parse, spec.Key)
		if len(records) >= spec.MinRequired {
			logger.Log.Info("Generated batch accepted",
				zap.String("kind", spec.Kind),
				zap.Int("attempt", attempt),
				zap.Int("records", len(records)),
			)
			return records, nil
		}

		logger.Log.Warn("Insufficient yield, retrying",
			zap.String("kind", spec.Kind),
			zap.Int("attempt", attempt),
			zap.Int("records", len(records)),
			zap.Int("min_required", spec.MinRequired),
		)
	}

	if spec.Fallback != nil {
		logger.Log.Warn("All generation attempts exhausted, using fallback records",
			zap.String("kind", spec.Kind),
			zap.Int("fallback_count", len(spec.Fallback)),
		)
		return spec.Fallback, nil
	}

	return nil, fmt.Errorf("failed to generate minimum required %s (%d) after %d attempts",
		spec.Kind, spec.MinRequired, spec.MaxAttempts)
}

const userPrompt = `Generate 10 unique Indian user profiles exactly in this format without any numbers or prefixes:
firstname.lastname@domain.com|password|role

Rules:
1. Email: ONLY firstname.lastname@domain.com format (no numbers or prefixes)
2. Password: 8-12 characters with letters, numbers, and special characters
3. Role: exactly 'user' or 'admin' (80% user, 20% admin)
4. NO numbering or prefixes
5. ONE profile per line
6. ONLY the data, no extra text
7. Must generate EXACTLY 10 valid profiles

Example:
rajesh.kumar@gmail.com|Pass123@456|user
priya.sharma@yahoo.com|User789@23|admin`

const productPrompt = `Generate 20 unique Indian realistic grocery products and prices with the following details:
Name|Price
Requirements:
- Name should be realistic and properly formatted
- Price should be between 1 and 100000
- No serial numbers or bullets
- Include product category (e.g., Spices, Grains, etc.)
Example: Organic Turmeric Powder|499`

// ParseUserLine sanitizes an email|password|role candidate.
func ParseUserLine(parts []string) (UserRecord, bool) {
	email, ok := SanitizeEmail(parts[0])
	if !ok {
		return UserRecord{}, false
	}
	password, ok := SanitizePassword(parts[1])
	if !ok {
		return UserRecord{}, false
	}
	return UserRecord{
		Email:    email,
		Password: password,
		Role:     SanitizeRole(parts[2]),
	}, true
}

// ParseProductLine sanitizes a name|price candidate. Stock is not part of the
// generated text; each product gets a random in-range quantity.
func ParseProductLine(parts []string) (ProductRecord, bool) {
	name, ok := SanitizeProductName(parts[0])
	if !ok {
		return ProductRecord{}, false
	}
	price, ok := SanitizePrice(parts[1])
	if !ok {
		return ProductRecord{}, false
	}
	return ProductRecord{
		Name:  name,
		Price: price,
		Stock: randomStock(),
	}, true
}

// UserBatch is the generation spec for synthetic users: minimum yield 5 of a
// requested 10, three attempts, no fallback.
func UserBatch() BatchSpec[UserRecord] {
	return BatchSpec[UserRecord]{
		Kind:        "users",
		Prompt:      userPrompt,
		FieldCount:  3,
		Parse:       ParseUserLine,
		Key:         func(u UserRecord) string { return u.Email },
		MinRequired: 5,
		MaxAttempts: 3,
	}
}

// ProductBatch is the generation spec for synthetic products: minimum yield 5
// of a requested 20, three attempts, default products as fallback.
func ProductBatch() BatchSpec[ProductRecord] {
	return BatchSpec[ProductRecord]{
		Kind:        "products",
		Prompt:      productPrompt,
		FieldCount:  2,
		Parse:       ParseProductLine,
		Key:         func(p ProductRecord) string { return p.Name },
		MinRequired: 5,
		MaxAttempts: 3,
		Fallback:    DefaultProducts(),
	}
}

// DefaultProducts is the fixed catalog used when product generation fails.
func DefaultProducts() []ProductRecord {
	return []ProductRecord{
		{Name: "Organic Honey", Price: 499.00, Stock: 100},
		{Name: "Wild Forest Honey", Price: 599.00, Stock: 100},
		{Name: "Raw Honey", Price: 399.00, Stock: 100},
		{Name: "Premium Forest Honey", Price: 699.00, Stock: 100},
		{Name: "Natural Honey", Price: 449.00, Stock: 100},
	}
}
