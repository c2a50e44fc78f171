/*
Package hashing provides 64-bit hash functions for keys of hash-based collections.

Go does not expose the runtime's hash function for arbitrary comparable types, thus
we render keys to bytes and hash those. Keys which compare equal render to equal bytes:
floating point zeros are rendered without their sign, as 0.0 == -0.0. Strings, booleans,
integer, floating point and complex kinds are rendered from their value; types
implementing fmt.Stringer are rendered by their string; structs, arrays, pointers and
interfaces are walked field by field.

XXHash is the default. Murmur3 offers a seedable alternative, e.g. for tests which
need different hash distributions.
*/
package hashing

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Func is a hash function for keys of type K.
type Func[K any] func(K) uint64

// XXHash returns a hash function based on xxHash64.
func XXHash[K any]() Func[K] {
	return Sum64[K]
}

// Sum64 hashes key with xxHash64. It is the default hash function of hash-based
// collections.
func Sum64[K any](key K) uint64 {
	var buf [16]byte
	if b, ok := fixedBytes(any(key), buf[:0]); ok {
		return xxhash.Sum64(b)
	}
	if s, ok := any(key).(fmt.Stringer); ok {
		return xxhash.Sum64String(s.String())
	}
	return xxhash.Sum64(render(any(key)))
}

// Murmur3 returns a hash function based on 64-bit MurmurHash3 with a given seed.
func Murmur3[K any](seed uint32) Func[K] {
	return func(key K) uint64 {
		var buf [16]byte
		if b, ok := fixedBytes(any(key), buf[:0]); ok {
			return murmur3.Sum64WithSeed(b, seed)
		}
		if s, ok := any(key).(fmt.Stringer); ok {
			return murmur3.Sum64WithSeed([]byte(s.String()), seed)
		}
		return murmur3.Sum64WithSeed(render(any(key)), seed)
	}
}

// fixedBytes appends scalar keys to buf. Strings are returned as their bytes.
func fixedBytes(key any, buf []byte) ([]byte, bool) {
	switch k := key.(type) {
	case string:
		return []byte(k), true
	case int:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case int8:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case int16:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case int32:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case int64:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case uint:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case uint8:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case uint16:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case uint32:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case uint64:
		return binary.LittleEndian.AppendUint64(buf, k), true
	case uintptr:
		return binary.LittleEndian.AppendUint64(buf, uint64(k)), true
	case float32:
		return appendFloat(buf, float64(k)), true
	case float64:
		return appendFloat(buf, k), true
	case complex64:
		return appendFloat(appendFloat(buf, float64(real(k))), float64(imag(k))), true
	case complex128:
		return appendFloat(appendFloat(buf, real(k)), imag(k)), true
	case bool:
		if k {
			return append(buf, 1), true
		}
		return append(buf, 0), true
	}
	return nil, false
}

// appendFloat appends the bits of x, with -0 mapped to +0.
func appendFloat(buf []byte, x float64) []byte {
	if x == 0 {
		x = 0
	}
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(x))
}

// render walks composite keys and appends the bytes of every scalar within.
func render(key any) []byte {
	if key == nil {
		return []byte{0}
	}
	return appendValue(make([]byte, 0, 64), reflect.ValueOf(key))
}

func appendValue(buf []byte, v reflect.Value) []byte {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return append(buf, 1)
		}
		return append(buf, 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.LittleEndian.AppendUint64(buf, v.Uint())
	case reflect.Float32, reflect.Float64:
		return appendFloat(buf, v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return appendFloat(appendFloat(buf, real(c)), imag(c))
	case reflect.String:
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.Len()))
		return append(buf, v.String()...)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return binary.LittleEndian.AppendUint64(buf, uint64(v.Pointer()))
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			buf = appendValue(buf, v.Index(i))
		}
		return buf
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			buf = appendValue(buf, v.Field(i))
		}
		return buf
	case reflect.Interface:
		if v.IsNil() {
			return append(buf, 0)
		}
		buf = append(buf, v.Elem().Type().String()...)
		return appendValue(buf, v.Elem())
	}
	return fmt.Appendf(buf, "%#v", v)
}
