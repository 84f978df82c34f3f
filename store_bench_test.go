package cstore

import "testing"

func BenchmarkContextPutGet(b *testing.B) {
	c := newBareStore().NewContext()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put("bench-key", i)
		if got := c.Get("bench-key"); got != i {
			b.Fatalf("unexpected value %v", got)
		}
	}
}

func BenchmarkEvaluateCachedProgram(b *testing.B) {
	store := newBareStore(WithProgramCache(newMemoryCache()))
	c := store.NewContext()
	c.Put("retries", 3)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Evaluate("retries == 3"); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
