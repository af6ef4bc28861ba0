package entity

import (
	"strings"

	"github.com/google/uuid"

	"severkey-server/internal/store"
)

// Users is the user collection.
type Users struct {
	col *store.Collection[User]
}

func NewUsers(opts store.Options) *Users {
	return &Users{col: store.NewCollection[User]("users", opts)}
}

// EnsureSeed populates an empty collection with the starter users.
func (s *Users) EnsureSeed() (int, error) {
	return s.col.EnsureSeed(seedUsers)
}

// Create inserts a user with a generated id. The name is trimmed.
func (s *Users) Create(name string) (User, error) {
	u := User{ID: uuid.New().String(), Name: strings.TrimSpace(name)}
	return s.col.Create(u)
}

func (s *Users) Get(id string) (User, error) { return s.col.Get(id) }
func (s *Users) Exists(id string) bool { return s.col.Exists(id) }
func (s *Users) Delete(id string) bool { return s.col.Delete(id) }
func (s *Users) DeleteMany(ids []string) int { return s.col.DeleteMany(ids) }
func (s *Users) List(cursor string, limit int) store.Page[User] { return s.col.List(cursor, limit) }
func (s *Users) Len() int { return s.col.Len() }

// Collection exposes the underlying store for restore wiring.
func (s *Users) Collection() *store.Collection[User] { return s.col }
