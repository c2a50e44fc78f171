package hashing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct{ x, y int }

type name string

func (n name) String() string { return "name:" + string(n) }

func TestXXHashIsDeterministic(t *testing.T) {
	h := XXHash[int]()
	assert.Equal(t, h(42), h(42))
	assert.NotEqual(t, h(42), h(43))
	s := XXHash[string]()
	assert.Equal(t, s("Galaxy"), s("Galaxy"))
	assert.NotEqual(t, s("Galaxy"), s("galaxy"))
}

func TestIntegerKindsHashByValue(t *testing.T) {
	assert.Equal(t, XXHash[int]()(7), XXHash[int64]()(7))
	assert.Equal(t, XXHash[uint32]()(7), XXHash[uint8]()(7))
}

func TestStructKeysFallBackToRendering(t *testing.T) {
	h := XXHash[point]()
	assert.Equal(t, h(point{1, 2}), h(point{1, 2}))
	assert.NotEqual(t, h(point{1, 2}), h(point{2, 1}))
}

func TestStringerKeys(t *testing.T) {
	h := XXHash[name]()
	assert.Equal(t, XXHash[string]()("name:x"), h(name("x")))
}

func TestMurmur3Seeds(t *testing.T) {
	a, b := Murmur3[string](1), Murmur3[string](2)
	assert.Equal(t, a("key"), a("key"))
	assert.NotEqual(t, a("key"), b("key"))
	assert.NotEqual(t, Murmur3[int](0)(1), Murmur3[int](0)(2))
}

type pair [2]float64

type sample struct {
	label string
	x     float64
	c     complex128
}

func TestSignedZerosHashEqual(t *testing.T) {
	negZero := math.Copysign(0, -1)
	assert.True(t, negZero == 0.0)
	for _, seed := range []uint32{0, 7} {
		f64, f32 := Murmur3[float64](seed), Murmur3[float32](seed)
		assert.Equal(t, f64(0), f64(negZero))
		assert.Equal(t, f32(0), f32(float32(negZero)))
	}
	assert.Equal(t, Sum64(0.0), Sum64(negZero))
	assert.Equal(t, XXHash[float32]()(0), XXHash[float32]()(float32(negZero)))
	c := XXHash[complex128]()
	assert.Equal(t, c(0), c(complex(negZero, negZero)))
	assert.Equal(t, XXHash[complex64]()(0), XXHash[complex64]()(complex64(complex(negZero, 0))))
	s := XXHash[sample]()
	assert.Equal(t, s(sample{"a", 0, 0}), s(sample{"a", negZero, complex(0, negZero)}))
	assert.NotEqual(t, s(sample{"a", 1, 0}), s(sample{"a", 0, 1}))
	a := XXHash[any]()
	assert.Equal(t, a(0.0), a(negZero))
	assert.Equal(t, a(nil), a(nil))
}

func TestFloatsHashByValue(t *testing.T) {
	h := XXHash[float64]()
	assert.Equal(t, h(1.5), h(1.5))
	assert.NotEqual(t, h(1.5), h(-1.5))
	p := XXHash[pair]()
	assert.Equal(t, p(pair{0, 1}), p(pair{math.Copysign(0, -1), 1}))
}

func TestXXHashIsSum64(t *testing.T) {
	assert.Equal(t, Sum64("Galaxy"), XXHash[string]()("Galaxy"))
	assert.Equal(t, Sum64(point{1, 2}), XXHash[point]()(point{1, 2}))
}
