package refresher

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wparames/honeymart/internal/events"
	"github.com/wparames/honeymart/internal/journal"
	"github.com/wparames/honeymart/internal/lock"
	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/pipeline"
	"github.com/wparames/honeymart/internal/utils"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const journalKeep = 500

// tableDeps maps each table to the tables that must already be wiped before
// it (its dependents).
var tableDeps = map[string][]string{
	"order_items": nil,
	"orders":      {"order_items"},
	"products":    {"order_items"},
	"users":       {"orders"},
}

// wipeSequence is the FK-safe delete order: dependents strictly first.
var wipeSequence = []string{"order_items", "orders", "products", "users"}

// seedAccount is a fixed account recreated every cycle independent of the
// synthetic pipeline.
type seedAccount struct {
	Email    string
	Password string
	Role     models.Role
}

var seedAccounts = []seedAccount{
	{Email: "admin@gmail.com", Password: "admin@123", Role: models.RoleAdmin},
	{Email: "wparames421@gmail.com", Password: "parames@123", Role: models.RoleUser},
	{Email: "test@gmail.com", Password: "test@123", Role: models.RoleUser},
}

// Refresher wipes and regenerates the whole dataset on a fixed interval.
// It is the only writer during a cycle: every phase runs under the shared
// write lock so checkouts never observe a half-wiped dataset.
type Refresher struct {
	db        *gorm.DB
	gen       pipeline.TextGenerator
	locker    lock.Locker
	journal   *journal.Journal // optional
	publisher events.Publisher // optional
	interval  time.Duration
}

func New(db *gorm.DB, gen pipeline.TextGenerator, locker lock.Locker,
	jrnl *journal.Journal, publisher events.Publisher, interval time.Duration) *Refresher {
	assertWipeOrder()
	return &Refresher{
		db:        db,
		gen:       gen,
		locker:    locker,
		journal:   jrnl,
		publisher: publisher,
		interval:  interval,
	}
}

// assertWipeOrder panics when wipeSequence would delete a table before its
// dependents. A wrong order here is a programmer error, not a runtime
// condition.
func assertWipeOrder() {
	wiped := make(map[string]bool, len(wipeSequence))
	for _, table := range wipeSequence {
		for _, dependent := range tableDeps[table] {
			if !wiped[dependent] {
				panic(fmt.Sprintf("wipe sequence deletes %q before its dependent %q", table, dependent))
			}
		}
		wiped[table] = true
	}
}

// Run executes refresh cycles until ctx is cancelled. Cancellation takes
// effect between phases, never mid-delete.
func (r *Refresher) Run(ctx context.Context) {
	logger.Log.Info("Refresh loop started", zap.Duration("interval", r.interval))

	for {
		if err := r.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Log.Info("Refresh loop stopped")
				return
			}
			logger.Log.Error("Refresh cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Log.Info("Refresh loop stopped")
			return
		case <-time.After(r.interval):
		}
	}
}

// RefreshOnce runs one full wipe-and-regenerate cycle under the write lock.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	release, err := r.locker.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	start := time.Now()

	users, products, orders, err := r.refresh(ctx)
	entry := journal.CycleEntry{
		StartedAt: start,
		Duration:  time.Since(start).String(),
		Status:    journal.CycleOK,
		Users:     users,
		Products:  products,
		Orders:    orders,
	}
	if err != nil {
		entry.Status = journal.CycleFailed
		entry.Error = err.Error()
	}
	r.record(entry)

	if err != nil {
		return err
	}

	logger.Log.Info("Refresh cycle completed",
		zap.Int("users", users),
		zap.Int("products", products),
		zap.Int("orders", orders),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (r *Refresher) refresh(ctx context.Context) (userCount, productCount, orderCount int, err error) {
	// A cycle entered with a dead context must not destroy anything
	if err = ctx.Err(); err != nil {
		return 0, 0, 0, err
	}

	if err = r.wipe(); err != nil {
		return 0, 0, 0, fmt.Errorf("wipe phase: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return 0, 0, 0, err
	}

	users, err := r.createUsers(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("user phase: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return 0, 0, 0, err
	}

	products, err := r.createProducts(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("product phase: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return 0, 0, 0, err
	}

	orderCount, err = r.createOrders(users, products)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("order phase: %w", err)
	}

	return len(users), len(products), orderCount, nil
}

// wipe deletes all rows in strict dependent-first order, in one transaction.
func (r *Refresher) wipe() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range wipeSequence {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		logger.Log.Info("Cleared existing data")
		return nil
	})
}

// createUsers inserts the fixed seed accounts plus a generated batch.
// User generation has no fallback: exhausting attempts aborts the cycle.
func (r *Refresher) createUsers(ctx context.Context) ([]models.User, error) {
	records, err := pipeline.GenerateBatch(ctx, r.gen, pipeline.UserBatch())
	if err != nil {
		return nil, err
	}

	var created []models.User
	err = r.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range seedAccounts {
			user, err := insertUserIfAbsent(tx, seed.Email, seed.Password, seed.Role)
			if err != nil {
				return err
			}
			if user != nil {
				created = append(created, *user)
			}
		}

		for _, rec := range records {
			user, err := insertUserIfAbsent(tx, rec.Email, rec.Password, rec.Role)
			if err != nil {
				return err
			}
			if user != nil {
				created = append(created, *user)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Created users",
		zap.Int("total", len(created)),
		zap.Int("seed", len(seedAccounts)),
		zap.Int("synthetic", len(records)),
	)
	return created, nil
}

// insertUserIfAbsent creates a user unless the email already exists.
// Returns nil without error when the email is taken.
func insertUserIfAbsent(tx *gorm.DB, email, password string, role models.Role) (*models.User, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Email: email, PasswordHash: hash, Role: role}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// createProducts inserts a generated batch, or the default catalog when
// generation is exhausted (fallback policy lives in the batch spec).
func (r *Refresher) createProducts(ctx context.Context) ([]models.Product, error) {
	records, err := pipeline.GenerateBatch(ctx, r.gen, pipeline.ProductBatch())
	if err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(records))
	err = r.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			product := models.Product{Name: rec.Name, Price: rec.Price, Stock: rec.Stock}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			products = append(products, product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Created products", zap.Int("count", len(products)))
	return products, nil
}

// createOrders synthesizes 1-5 orders per user, each with 1-8 distinct
// products (capped at the catalog size) and quantities in [1,5]. Totals are
// written two-phase: the order is inserted with a zero total to obtain its
// identity, items are inserted with line totals, then the total is updated
// to the sum of the line totals.
func (r *Refresher) createOrders(users []models.User, products []models.Product) (int, error) {
	if len(users) == 0 || len(products) == 0 {
		logger.Log.Warn("No users or products available for order generation")
		return 0, nil
	}

	ordersCreated := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, user := range users {
			numOrders := 1 + rand.IntN(5)
			for range numOrders {
				order := models.Order{
					UserID:      user.ID,
					TotalAmount: 0,
					Status:      models.OrderStatuses[rand.IntN(len(models.OrderStatuses))],
				}
				if err := tx.Create(&order).Error; err != nil {
					return err
				}

				total := 0.0
				for _, product := range sampleProducts(products, 1+rand.IntN(8)) {
					quantity := 1 + rand.IntN(5)
					lineTotal := product.Price * float64(quantity)
					total += lineTotal

					item := models.OrderItem{
						OrderID:   order.ID,
						ProductID: product.ID,
						Quantity:  quantity,
						LineTotal: lineTotal,
					}
					if err := tx.Create(&item).Error; err != nil {
						return err
					}
				}

				if err := tx.Model(&order).Update("total_amount", total).Error; err != nil {
					return err
				}
				ordersCreated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Log.Info("Created orders", zap.Int("count", ordersCreated))
	return ordersCreated, nil
}

// sampleProducts picks n distinct products uniformly, capping n at the
// population size.
func sampleProducts(products []models.Product, n int) []models.Product {
	if n > len(products) {
		n = len(products)
	}

	sampled := make([]models.Product, 0, n)
	for _, i := range rand.Perm(len(products))[:n] {
		sampled = append(sampled, products[i])
	}
	return sampled
}

// record persists the cycle outcome to the journal and announces it on the
// event bus. Both are best-effort: a reporting failure never fails the cycle.
func (r *Refresher) record(entry journal.CycleEntry) {
	if r.journal != nil {
		if err := r.journal.Append(entry); err != nil {
			logger.Log.Error("Failed to append journal entry", zap.Error(err))
		}
		if err := r.journal.Trim(journalKeep); err != nil {
			logger.Log.Error("Failed to trim journal", zap.Error(err))
		}
	}

	if r.publisher != nil {
		event := events.RefreshEvent{
			Status:    string(entry.Status),
			Users:     entry.Users,
			Products:  entry.Products,
			Orders:    entry.Orders,
			Error:     entry.Error,
			Timestamp: time.Now(),
		}
		if err := r.publisher.Publish(event); err != nil {
			logger.Log.Error("Failed to publish refresh event", zap.Error(err))
		}
	}
}
