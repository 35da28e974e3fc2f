package xhash

import (
	"bytes"
	"testing"
)

func FuzzSum(f *testing.F) {
	f.Add([]byte(nil))
	f.Add([]byte("model"))
	f.Add([]byte{0x00, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		key := Sum(data)
		if len(key) != 16 {
			t.Fatalf("key length = %d, want 16", len(key))
		}
		if key != SumString(string(data)) {
			t.Fatal("Sum and SumString disagree")
		}
		got, err := SumReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("SumReader: %v", err)
		}
		if got != key {
			t.Fatal("Sum and SumReader disagree")
		}
	})
}

func FuzzJoin(f *testing.F) {
	f.Add("a", "b")
	f.Add("", "")
	f.Add("中文", "key")

	f.Fuzz(func(t *testing.T, a, b string) {
		key := Join(a, b)
		if len(key) != 16 {
			t.Fatalf("key length = %d, want 16", len(key))
		}
		if key != Join(a, b) {
			t.Fatal("Join not deterministic")
		}
		// 长度前缀保证：除非 a 与 b 互换后完全相同，否则顺序敏感。
		if a != b && Join(a, b) == Join(b, a) {
			t.Fatalf("unexpected collision for %q/%q", a, b)
		}
	})
}
