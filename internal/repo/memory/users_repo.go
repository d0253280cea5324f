package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/geocoder89/employeehub/internal/domain/user"
)

type UsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]user.User // keyed by lowercased username
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[strings.ToLower(username)]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	_, ok := r.items[strings.ToLower(username)]
	r.mu.RUnlock()

	return ok, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	key := strings.ToLower(username)

	r.mu.Lock()
	defer r.mu.Unlock()

	// uniqueness is checked under the same lock as the insert, mirroring the
	// unique index the postgres store relies on.
	if _, ok := r.items[key]; ok {
		return user.User{}, user.ErrUsernameTaken
	}

	r.nextID++

	u := user.User{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	r.items[key] = u

	return u, nil
}
