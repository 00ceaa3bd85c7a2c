// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/discount"
	"github.com/your-org/grocery-backend/internal/domain/inventory"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/product"
	"github.com/your-org/grocery-backend/internal/domain/shipping"
	"github.com/your-org/grocery-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		// User domain
		&user.User{},
		&user.Address{},

		// Catalog
		&product.Category{},
		&product.Product{},

		// Inventory
		&inventory.Stock{},
		&inventory.StockMovement{},

		// Discounts and vouchers
		&discount.Discount{},
		&discount.Voucher{},

		// Shipping
		&shipping.ShippingMethod{},

		// Cart
		&cart.Cart{},
		&cart.CartItem{},

		// Orders
		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
		&order.StatusHistory{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_store_active ON products(store_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Discount indexes
		"CREATE INDEX IF NOT EXISTS idx_discounts_active_window ON discounts(is_active, start_date, end_date)",
		"CREATE INDEX IF NOT EXISTS idx_discounts_product ON discounts(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_vouchers_expired_at ON vouchers(expired_at)",

		// Inventory indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_reference ON stock_movements(reference)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_transaction ON payments(transaction_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_histories_order ON order_status_histories(order_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedShippingMethods(); err != nil {
		return fmt.Errorf("failed to seed shipping methods: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []product.Category{
		{Name: "Fresh Produce", Slug: "fresh-produce", IsActive: true},
		{Name: "Dairy & Eggs", Slug: "dairy-eggs", IsActive: true},
		{Name: "Meat & Seafood", Slug: "meat-seafood", IsActive: true},
		{Name: "Pantry Staples", Slug: "pantry-staples", IsActive: true},
		{Name: "Snacks & Beverages", Slug: "snacks-beverages", IsActive: true},
		{Name: "Household", Slug: "household", IsActive: true},
	}

	for _, category := range categories {
		var existing product.Category
		if err := m.db.Where("slug = ?", category.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := m.db.Create(&category).Error; err != nil {
			return err
		}
		log.Printf("✅ Created category: %s", category.Name)
	}
	return nil
}

func (m *Migration) seedShippingMethods() error {
	methods := []shipping.ShippingMethod{
		{Code: "jne-reg", Name: "JNE Regular", Courier: "jne", Service: "REG", EstimatedDays: "2-3", IsActive: true},
		{Code: "jne-yes", Name: "JNE Next Day", Courier: "jne", Service: "YES", EstimatedDays: "1", IsActive: true},
		{Code: "sicepat-reg", Name: "SiCepat Regular", Courier: "sicepat", Service: "REG", EstimatedDays: "2-4", IsActive: true},
	}

	for _, method := range methods {
		var existing shipping.ShippingMethod
		if err := m.db.Where("code = ?", method.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := m.db.Create(&method).Error; err != nil {
			return err
		}
		log.Printf("✅ Created shipping method: %s", method.Name)
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	if err := m.db.Where("email = ?", "admin@example.com").First(&existing).Error; err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com")
	return nil
}
