package xartifact

import (
	"context"
	"fmt"
	"testing"

	"github.com/omeyang/modelkit/pkg/storage/xblob"
	"github.com/omeyang/modelkit/pkg/util/xguard"
)

func newForBench(b *testing.B, opts ...Option) Cache {
	b.Helper()

	g, err := xguard.New()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = g.Close() })

	s, err := xblob.New(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = s.Close() })

	c, err := New(g, s, opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = c.Close() })
	return c
}

func BenchmarkGetOrComputeDiskHit(b *testing.B) {
	c := newForBench(b, WithMemoryTier(false))
	ctx := context.Background()

	compute := func(context.Context) ([]byte, error) { return []byte("blob"), nil }
	if _, err := c.GetOrCompute(ctx, "key", compute); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := c.GetOrCompute(ctx, "key", compute); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetOrComputeMemoryHit(b *testing.B) {
	c := newForBench(b)
	ctx := context.Background()

	compute := func(context.Context) ([]byte, error) { return []byte("blob"), nil }
	if _, err := c.GetOrCompute(ctx, "key", compute); err != nil {
		b.Fatal(err)
	}
	// 预热：确保写入缓冲已落到内存层。
	c.(*cacheImpl).mem.Wait()

	b.ResetTimer()
	for b.Loop() {
		if _, err := c.GetOrCompute(ctx, "key", compute); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetOrComputeParallelKeys(b *testing.B) {
	const numKeys = 100
	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}

	c := newForBench(b, WithMemoryTier(false))
	ctx := context.Background()
	compute := func(context.Context) ([]byte, error) { return []byte("blob"), nil }

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if _, err := c.GetOrCompute(ctx, keys[i%numKeys], compute); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}
