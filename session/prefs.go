package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultThemeColor = "#2563eb"

// Prefs are the per-user presentation preferences the clients persist
// between visits. They live next to the sessions in redis, without a TTL.
type Prefs struct {
	ThemeColor string `json:"themeColor"`
	DarkMode   bool   `json:"darkMode"`
}

type PrefsStore struct{ rdb *redis.Client }

func NewPrefsStore(rdb *redis.Client) *PrefsStore { return &PrefsStore{rdb: rdb} }

func prefsKey(uid string) string { return fmt.Sprintf("st:prefs:%s", uid) }

// Get returns the stored preferences, or the defaults for a user who never
// saved any.
func (s *PrefsStore) Get(ctx context.Context, userID string) (Prefs, error) {
	b, err := s.rdb.Get(ctx, prefsKey(userID)).Bytes()
	if err == redis.Nil {
		return Prefs{ThemeColor: defaultThemeColor}, nil
	}
	if err != nil {
		return Prefs{}, err
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

func (s *PrefsStore) Set(ctx context.Context, userID string, p Prefs) error {
	b, _ := json.Marshal(p)
	return s.rdb.Set(ctx, prefsKey(userID), b, 0).Err()
}

func (s *PrefsStore) DeleteForUser(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, prefsKey(userID)).Err()
}
