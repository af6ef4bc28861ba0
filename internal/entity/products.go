package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"severkey-server/internal/store"
)

// Products is the product collection.
type Products struct {
	col *store.Collection[Product]
}

func NewProducts(opts store.Options) *Products {
	return &Products{col: store.NewCollection[Product]("products", opts)}
}

// EnsureSeed populates an empty collection with the starter plans.
func (s *Products) EnsureSeed() (int, error) {
	return s.col.EnsureSeed(seedProducts)
}

// Create inserts a product with a generated id and creation timestamp.
// Price is in minor currency units and must not be negative.
func (s *Products) Create(name, description string, price int64) (Product, error) {
	if price < 0 {
		return Product{}, fmt.Errorf("price must not be negative, got %d", price)
	}

	p := Product{
		ID:          "prod_" + uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		CreatedAt:   time.Now().UnixMilli(),
	}
	return s.col.Create(p)
}

func (s *Products) Get(id string) (Product, error) { return s.col.Get(id) }
func (s *Products) Exists(id string) bool { return s.col.Exists(id) }
func (s *Products) Delete(id string) bool { return s.col.Delete(id) }
func (s *Products) DeleteMany(ids []string) int { return s.col.DeleteMany(ids) }
func (s *Products) List(cursor string, limit int) store.Page[Product] {
	return s.col.List(cursor, limit)
}

// Collection exposes the underlying store for restore wiring.
func (s *Products) Collection() *store.Collection[Product] { return s.col }
