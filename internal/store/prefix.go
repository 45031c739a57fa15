package store

import "context"

// Prefixed scopes every key of kv under prefix, joined with "::".
// Closing the returned KV is a no-op; the parent owns the connection.
func Prefixed(kv KV, prefix string) KV {
	return prefixed{kv: kv, prefix: prefix + "::"}
}

type prefixed struct {
	kv     KV
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Close() error { return nil }
