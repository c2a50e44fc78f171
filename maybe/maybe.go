/*
Package maybe provides an option type: a value which is either present (Just) or
absent (Nothing).

Lookups in the persistent collections of this module report absent keys as Nothing
rather than as an error. Clients use the comma-ok form

    if v, ok := m.Lookup(key).Get(); ok {
        …
    }

or supply a default with WithDefault.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package maybe

// Maybe holds an optional value of type T.
type Maybe[T any] interface {
	WithDefault(T) T
	Map(func(T) T) Maybe[T]
	Get() (T, bool)
	IsJust() bool
}

type maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps a present value.
func Just[T any](x T) Maybe[T] {
	return maybe[T]{value: x, tag: true}
}

// Nothing denotes an absent value.
func Nothing[T any]() Maybe[T] {
	return maybe[T]{tag: false}
}

// Of converts the comma-ok idiom into a Maybe.
func Of[T any](x T, ok bool) Maybe[T] {
	if ok {
		return Just(x)
	}
	return Nothing[T]()
}

func (m maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

func (m maybe[T]) Map(f func(T) T) Maybe[T] {
	if m.tag {
		return Just(f(m.value))
	}
	return m
}

// Get returns the value, if present, and a flag telling if it is.
func (m maybe[T]) Get() (T, bool) {
	return m.value, m.tag
}

func (m maybe[T]) IsJust() bool {
	return m.tag
}
