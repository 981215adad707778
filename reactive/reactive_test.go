package reactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefGetSet(t *testing.T) {
	r := NewRef(3)
	assert.Equal(t, 3, r.Get())

	r.Set(7)
	assert.Equal(t, 7, r.Get())

	r.Update(func(v int) int { return v * 2 })
	assert.Equal(t, 14, r.Get())
}

func TestRefSubscribeOrder(t *testing.T) {
	r := NewRef("")

	var got []string
	r.Subscribe(func(v string) { got = append(got, "a:"+v) })
	r.Subscribe(func(v string) { got = append(got, "b:"+v) })

	r.Set("x")
	r.Set("y")

	assert.Equal(t, []string{"a:x", "b:x", "a:y", "b:y"}, got)
}

func TestRefUnsubscribe(t *testing.T) {
	r := NewRef(0)

	calls := 0
	unsub := r.Subscribe(func(int) { calls++ })

	r.Set(1)
	unsub()
	r.Set(2)

	assert.Equal(t, 1, calls)
}

func TestDerivedRecomputes(t *testing.T) {
	a := NewRef(2)
	b := NewRef(3)

	sum := Derive(func() int { return a.Get() + b.Get() }, a, b)
	require.Equal(t, 5, sum.Get())

	a.Set(10)
	assert.Equal(t, 13, sum.Get())

	b.Set(1)
	assert.Equal(t, 11, sum.Get())
}

func TestDerivedChains(t *testing.T) {
	n := NewRef(1)
	doubled := Derive(func() int { return n.Get() * 2 }, n)
	quadrupled := Derive(func() int { return doubled.Get() * 2 }, doubled)

	n.Set(5)
	assert.Equal(t, 10, doubled.Get())
	assert.Equal(t, 20, quadrupled.Get())
}

func TestDerivedNotifiesSubscribers(t *testing.T) {
	n := NewRef(0)
	d := Derive(func() int { return n.Get() + 1 }, n)

	var seen []int
	d.Subscribe(func(v int) { seen = append(seen, v) })

	n.Set(1)
	n.Set(2)

	assert.Equal(t, []int{2, 3}, seen)
}

func TestDerivedClose(t *testing.T) {
	n := NewRef(1)
	d := Derive(func() int { return n.Get() }, n)
	d.Close()

	n.Set(99)
	assert.Equal(t, 1, d.Get(), "closed derived should keep its last value")
}
