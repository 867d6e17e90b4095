package cache

// KeyCodec turns a caller key into the key sent to the store.
type KeyCodec interface {
	EncodeKey(key string) string
}

// StringKeyCodec sends keys as plain text, optionally namespaced.
type StringKeyCodec struct {
	Prefix string
}

func (c StringKeyCodec) EncodeKey(key string) string {
	return c.Prefix + key
}

// ValueCodec serializes values together with their type discriminator so
// that Unmarshal returns the same concrete type that was marshaled.
type ValueCodec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}
