package nodeid

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnkeyableArgument is returned for arguments whose msgpack encoding
// would not identify them: pointers, and structs with fields the encoder
// skips (unexported or tagged `msgpack:"-"`).
var ErrUnkeyableArgument = errors.New("argument cannot be part of a cache key")

var (
	timeType          = reflect.TypeOf(time.Time{})
	customEncoderType = reflect.TypeOf((*msgpack.CustomEncoder)(nil)).Elem()
	marshalerType     = reflect.TypeOf((*msgpack.Marshaler)(nil)).Elem()
)

// checkArgs rejects argument values that two distinct calls could encode
// identically.
func checkArgs(args []any) error {
	for i, arg := range args {
		if err := checkValue(reflect.ValueOf(arg), fmt.Sprintf("argument %d", i)); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(v reflect.Value, path string) error {
	if !v.IsValid() {
		return nil
	}
	t := v.Type()
	if t == timeType || t.Implements(customEncoderType) || t.Implements(marshalerType) {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return fmt.Errorf("%w: %s is a pointer (%s); pass the value instead", ErrUnkeyableArgument, path, t)
	case reflect.Interface:
		return checkValue(v.Elem(), path)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := checkValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			p := fmt.Sprintf("%s[%v]", path, iter.Key())
			if err := checkValue(iter.Key(), p); err != nil {
				return err
			}
			if err := checkValue(iter.Value(), p); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			p := path + "." + f.Name
			if !f.IsExported() {
				return fmt.Errorf("%w: %s is unexported in %s", ErrUnkeyableArgument, p, t)
			}
			if name, _, _ := strings.Cut(f.Tag.Get("msgpack"), ","); name == "-" {
				return fmt.Errorf("%w: %s is excluded from encoding in %s", ErrUnkeyableArgument, p, t)
			}
			if err := checkValue(v.Field(i), p); err != nil {
				return err
			}
		}
	}
	return nil
}
