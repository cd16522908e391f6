package storage

import (
	"context"
	"strconv"
)

// Namespaced prefixes every key of an underlying store. Closing it leaves the
// underlying store open.
type Namespaced struct {
	store  Store
	prefix string
}

func Namespace(store Store, prefix string) *Namespaced {
	return &Namespaced{store: store, prefix: prefix}
}

// ForTelegramUser scopes store to one Telegram user: "tg:<id>:".
func ForTelegramUser(store Store, userID int64) *Namespaced {
	return Namespace(store, "tg:"+strconv.FormatInt(userID, 10)+":")
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.store.Remove(ctx, n.prefix+key)
}

func (n *Namespaced) Close() error { return nil }
