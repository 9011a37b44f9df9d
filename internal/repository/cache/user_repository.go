// Package cache provides a read-through cache in front of a UserRepository.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"campus-coffee/internal/domain"
	"campus-coffee/internal/repository"
)

const (
	idPrefix    = "id:"
	loginPrefix = "login:"
)

// UserRepository caches single-user lookups. Every write drops the whole cache so
// that a renamed login never resolves to a stale entry.
//
// A read that started before a write must not refill the cache with the row it
// loaded; gen counts writes and is checked under mu before every fill.
type UserRepository struct {
	next  repository.UserRepository
	store *gocache.Cache

	mu  sync.Mutex
	gen uint64
}

func NewUserRepository(next repository.UserRepository, ttl time.Duration) repository.UserRepository {
	return &UserRepository{
		next:  next,
		store: gocache.New(ttl, 2*ttl),
	}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return r.next.Init(ctx)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	id, err := r.next.Create(ctx, user)
	if err != nil {
		return 0, err
	}
	r.invalidate()
	return id, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.next.Update(ctx, user); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	key := idPrefix + strconv.FormatInt(id, 10)
	if user, ok := r.lookup(key); ok {
		return user, nil
	}
	gen := r.generation()
	user, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.remember(gen, user)
	return cloneUser(user), nil
}

func (r *UserRepository) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	if user, ok := r.lookup(loginPrefix + loginName); ok {
		return user, nil
	}
	gen := r.generation()
	user, err := r.next.GetByLoginName(ctx, loginName)
	if err != nil {
		return nil, err
	}
	r.remember(gen, user)
	return cloneUser(user), nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.next.List(ctx)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

func (r *UserRepository) lookup(key string) (*domain.User, bool) {
	v, ok := r.store.Get(key)
	if !ok {
		return nil, false
	}
	return cloneUser(v.(*domain.User)), true
}

func (r *UserRepository) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

func (r *UserRepository) invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.store.Flush()
}

// remember caches user unless a write has happened since gen was taken.
func (r *UserRepository) remember(gen uint64, user *domain.User) {
	if user.ID == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	stored := cloneUser(user)
	r.store.SetDefault(idPrefix+strconv.FormatInt(*stored.ID, 10), stored)
	r.store.SetDefault(loginPrefix+stored.LoginName, stored)
}

// cloneUser deep-copies the pointer fields so callers cannot mutate cached entries.
func cloneUser(user *domain.User) *domain.User {
	c := *user
	if user.ID != nil {
		id := *user.ID
		c.ID = &id
	}
	if user.CreatedAt != nil {
		t := *user.CreatedAt
		c.CreatedAt = &t
	}
	if user.UpdatedAt != nil {
		t := *user.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
