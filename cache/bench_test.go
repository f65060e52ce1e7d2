package cache

import (
	"math/rand"
	"testing"
)

// benchmarkMix exercises a get-or-put loop against a warm cache, the way an
// atlas drives it: hot keys hit, cold keys miss and insert (evicting).
func benchmarkMix(b *testing.B, keyspace int) {
	c := New[int, int](Options[int, int]{
		Capacity: 1024,
		Evictor:  EvictorFunc[int, int](func(int, int, EvictReason) {}),
	})
	for i := 0; i < 1024; i++ {
		c.Put(i, i)
	}

	r := rand.New(rand.NewSource(1))
	ks := make([]int, 1<<16)
	for i := range ks {
		ks[i] = r.Intn(keyspace)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := ks[i&(len(ks)-1)]
		if _, ok := c.Get(k); !ok {
			c.Put(k, k)
		}
	}
}

func BenchmarkCache_AllHits(b *testing.B)  { benchmarkMix(b, 1024) }
func BenchmarkCache_HalfMiss(b *testing.B) { benchmarkMix(b, 2048) }
