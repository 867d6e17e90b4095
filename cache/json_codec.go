package cache

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// valueAPI encodes cached values. It reads the "cache" struct tag instead of
// "json", so fields hidden from API responses with json:"-" are still stored.
var valueAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	TagKey:                 "cache",
}.Froze()

type jsonEnvelope struct {
	Type  string              `json:"@type"`
	Value jsoniter.RawMessage `json:"@value"`
}

// JSONCodec writes {"@type": name, "@value": <json>} documents.
type JSONCodec struct {
	types *TypeRegistry
}

func NewJSONCodec(types *TypeRegistry) *JSONCodec {
	return &JSONCodec{types: types}
}

func (c *JSONCodec) Name() string { return "json" }

func (c *JSONCodec) Marshal(v any) ([]byte, error) {
	name, err := c.types.nameOf(v)
	if err != nil {
		return nil, err
	}
	payload, err := valueAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return jsonAPI.Marshal(jsonEnvelope{Type: name, Value: payload})
}

func (c *JSONCodec) Unmarshal(data []byte) (any, error) {
	var env jsonEnvelope
	if err := jsonAPI.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Type == "" || len(env.Value) == 0 {
		return nil, errors.New("envelope is missing type or value")
	}

	t, err := c.types.newTarget(env.Type)
	if err != nil {
		return nil, err
	}
	if err := valueAPI.Unmarshal(env.Value, t.Dest()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", env.Type, err)
	}
	return t.Value(), nil
}
