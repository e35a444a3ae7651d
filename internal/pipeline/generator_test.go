package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wparames/honeymart/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeGenerator returns its canned responses in order, repeating the last one
// once they run out, and counts how often it was called.
type fakeGenerator struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

const validUserBatch = `rajesh.kumar@gmail.com|Pass123@456|user
priya.sharma@yahoo.com|User789@23|admin
amit.verma@gmail.com|Amit999@12|user
sneha.patel@gmail.com|Sneha77@88|user
vikram.singh@yahoo.com|Vik456@789|user
anita.desai@gmail.com|Anita12@34|user`

func TestGenerateBatchSuccessFirstAttempt(t *testing.T) {
	gen := &fakeGenerator{responses: []string{validUserBatch}}

	records, err := GenerateBatch(context.Background(), gen, UserBatch())

	assert.NoError(t, err)
	assert.Len(t, records, 6)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateBatchRetriesOnLowYield(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"rajesh.kumar@gmail.com|Pass123@456|user",
		"garbage with no structure",
		validUserBatch,
	}}

	records, err := GenerateBatch(context.Background(), gen, UserBatch())

	assert.NoError(t, err)
	assert.Len(t, records, 6)
	assert.Equal(t, 3, gen.calls)
}

func TestGenerateBatchUsersExhaustAttempts(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"nothing usable here"}}

	records, err := GenerateBatch(context.Background(), gen, UserBatch())

	assert.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, gen.calls)
}

func TestGenerateBatchGenerationErrorCountsAsAttempt(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream unavailable")}

	_, err := GenerateBatch(context.Background(), gen, UserBatch())

	assert.Error(t, err)
	assert.Equal(t, 3, gen.calls)
}

func TestGenerateBatchProductsFallBackToDefaults(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"no valid products in this text"}}

	records, err := GenerateBatch(context.Background(), gen, ProductBatch())

	assert.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, DefaultProducts(), records)
}

func TestGenerateBatchProductsSuccessSkipsFallback(t *testing.T) {
	raw := `Organic Turmeric Powder|499
Basmati Rice 5kg|1299
Wild Forest Honey|599
Garam Masala|149
Toor Dal 1kg|189`
	gen := &fakeGenerator{responses: []string{raw}}

	records, err := GenerateBatch(context.Background(), gen, ProductBatch())

	assert.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, "Organic Turmeric Powder", records[0].Name)
	for _, p := range records {
		assert.GreaterOrEqual(t, p.Stock, 50)
		assert.LessOrEqual(t, p.Stock, 500)
	}
}

func TestGenerateBatchCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &fakeGenerator{responses: []string{validUserBatch}}
	_, err := GenerateBatch(ctx, gen, UserBatch())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, gen.calls)
}
