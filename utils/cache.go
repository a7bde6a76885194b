package utils

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type cacheEntry struct {
	user      *User
	expiresAt time.Time
}

// UserCache is a TTL cache in front of the user store.
type UserCache struct {
	data          map[int64]*cacheEntry
	mutex         sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	done          chan struct{}
	log           zerolog.Logger
}

// Cache is the global user cache. Nil until InitializeCache runs; all cache
// helpers tolerate that so tests and offline mode work.
var Cache *UserCache

// InitializeCache sets up the user cache with the given TTL.
func InitializeCache(ttl time.Duration) {
	Cache = &UserCache{
		data: make(map[int64]*cacheEntry),
		ttl:  ttl,
		done: make(chan struct{}),
		log:  GetLogger("cache"),
	}

	Cache.cleanupTicker = time.NewTicker(5 * time.Minute)
	go Cache.cleanupLoop()
}

// CloseCache stops the cleanup goroutine.
func CloseCache() {
	if Cache != nil && Cache.cleanupTicker != nil {
		Cache.cleanupTicker.Stop()
		close(Cache.done)
	}
}

// Get returns a copy of the cached user, if present and fresh.
func (uc *UserCache) Get(userID int64) (*User, bool) {
	uc.mutex.RLock()
	entry, exists := uc.data[userID]
	uc.mutex.RUnlock()

	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		uc.Delete(userID)
		return nil, false
	}

	userCopy := *entry.user
	return &userCopy, true
}

// Set stores a copy of the user.
func (uc *UserCache) Set(userID int64, user *User) {
	userCopy := *user
	uc.mutex.Lock()
	uc.data[userID] = &cacheEntry{user: &userCopy, expiresAt: time.Now().Add(uc.ttl)}
	uc.mutex.Unlock()
}

// Delete evicts a user.
func (uc *UserCache) Delete(userID int64) {
	uc.mutex.Lock()
	delete(uc.data, userID)
	uc.mutex.Unlock()
}

// Flush drops every cached entry.
func (uc *UserCache) Flush() {
	uc.mutex.Lock()
	uc.data = make(map[int64]*cacheEntry)
	uc.mutex.Unlock()
}

// Size returns the number of cached entries.
func (uc *UserCache) Size() int {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()
	return len(uc.data)
}

func (uc *UserCache) cleanupLoop() {
	for {
		select {
		case <-uc.cleanupTicker.C:
			uc.cleanup()
		case <-uc.done:
			return
		}
	}
}

func (uc *UserCache) cleanup() {
	now := time.Now()
	expired := 0

	uc.mutex.Lock()
	for userID, entry := range uc.data {
		if now.After(entry.expiresAt) {
			delete(uc.data, userID)
			expired++
		}
	}
	uc.mutex.Unlock()

	if expired > 0 {
		uc.log.Debug().Int("evicted", expired).Int("size", uc.Size()).Msg("cache cleanup")
	}
}

// GetCachedUser loads a user from cache, falling back to the store.
func GetCachedUser(userID int64) (*User, error) {
	if Cache != nil {
		if user, found := Cache.Get(userID); found {
			return user, nil
		}
	}

	user, err := GetUser(userID)
	if err != nil {
		return nil, err
	}

	if Cache != nil {
		Cache.Set(userID, user)
	}
	return user, nil
}

// UpdateCachedUser writes through to the store and refreshes the cache.
func UpdateCachedUser(userID int64, updates UserUpdateData) (*User, error) {
	user, err := UpdateUser(userID, updates)
	if err != nil {
		return nil, err
	}

	if Cache != nil {
		Cache.Set(userID, user)
	}
	return user, nil
}

// InvalidateUserCache evicts a user from the cache.
func InvalidateUserCache(userID int64) {
	if Cache != nil {
		Cache.Delete(userID)
	}
}
