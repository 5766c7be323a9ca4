package uiparticle

import (
	"math/bits"
	"strconv"
	"strings"
)

// SlotMask is a growable bitset of active slot indices.
type SlotMask struct {
	words []uint64
}

func (m *SlotMask) Set(i int) {
	if i < 0 {
		return
	}
	w := i / 64
	for len(m.words) <= w {
		m.words = append(m.words, 0)
	}
	m.words[w] |= 1 << uint(i%64)
}

func (m *SlotMask) Unset(i int) {
	if i < 0 || i/64 >= len(m.words) {
		return
	}
	m.words[i/64] &^= 1 << uint(i%64)
}

func (m SlotMask) Has(i int) bool {
	if i < 0 || i/64 >= len(m.words) {
		return false
	}
	return m.words[i/64]&(1<<uint(i%64)) != 0
}

// Count is the number of set bits.
func (m SlotMask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

func (m SlotMask) Empty() bool {
	return m.Count() == 0
}

func (m *SlotMask) Reset() {
	clear(m.words)
}

// Indices lists set bits in ascending order.
func (m SlotMask) Indices() []int {
	out := make([]int, 0, m.Count())
	for wi, w := range m.words {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, wi*64+b)
			w &^= 1 << uint(b)
		}
	}
	return out
}

func (m SlotMask) Clone() SlotMask {
	if len(m.words) == 0 {
		return SlotMask{}
	}
	return SlotMask{words: append([]uint64(nil), m.words...)}
}

func (m SlotMask) String() string {
	idx := m.Indices()
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
