package cache

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

type msgpackEnvelope struct {
	Type  string             `msgpack:"t"`
	Value msgpack.RawMessage `msgpack:"v"`
}

// MsgpackCodec is the binary counterpart of JSONCodec. Struct fields are keyed
// by their msgpack tag or Go field name. Decoded times are in UTC.
type MsgpackCodec struct {
	types *TypeRegistry
}

func NewMsgpackCodec(types *TypeRegistry) *MsgpackCodec {
	return &MsgpackCodec{types: types}
}

func (c *MsgpackCodec) Name() string { return "msgpack" }

func (c *MsgpackCodec) Marshal(v any) ([]byte, error) {
	name, err := c.types.nameOf(v)
	if err != nil {
		return nil, err
	}
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return msgpack.Marshal(&msgpackEnvelope{Type: name, Value: payload})
}

func (c *MsgpackCodec) Unmarshal(data []byte) (any, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if env.Type == "" || len(env.Value) == 0 {
		return nil, errors.New("envelope is missing type or value")
	}

	t, err := c.types.newTarget(env.Type)
	if err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(env.Value, t.Dest()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", env.Type, err)
	}
	toUTC(reflect.ValueOf(t.Dest()))
	return t.Value(), nil
}

var timeType = reflect.TypeOf(time.Time{})

// toUTC rewrites every reachable time.Time to UTC. msgpack decodes
// timestamps in the local zone.
func toUTC(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			toUTC(v.Elem())
		}
	case reflect.Struct:
		if v.Type() == timeType {
			if v.CanSet() {
				v.Set(reflect.ValueOf(v.Interface().(time.Time).UTC()))
			}
			return
		}
		for i := 0; i < v.NumField(); i++ {
			if f := v.Field(i); f.CanSet() {
				toUTC(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			toUTC(v.Index(i))
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			elem := reflect.New(v.Type().Elem()).Elem()
			elem.Set(iter.Value())
			toUTC(elem)
			v.SetMapIndex(iter.Key(), elem)
		}
	}
}
