package ringbuf

import "testing"

func TestAddAndToArray(t *testing.T) {
	b := New[int](3)
	b.Add(1)
	b.Add(2)
	got := b.ToArray()
	want := []int{1, 2}
	if len(got) != len(want) {
		t.Fatalf("size = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEvictsOldest(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Add(i)
	}
	if b.Size() != 3 {
		t.Fatalf("size = %d, want 3", b.Size())
	}
	got := b.ToArray()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNeverExceedsCapacity(t *testing.T) {
	b := New[int](4)
	for i := 0; i < 1000; i++ {
		b.Add(i)
		if b.Size() < 0 || b.Size() > b.Cap() {
			t.Fatalf("size %d out of [0, %d]", b.Size(), b.Cap())
		}
	}
}

func TestGetOldestNewest(t *testing.T) {
	b := New[string](2)
	b.Add("a")
	b.Add("b")
	b.Add("c")

	oldest, ok := b.Get(0)
	if !ok || oldest != "b" {
		t.Errorf("oldest = %q, ok=%v; want b, true", oldest, ok)
	}
	newest, ok := b.Get(b.Newest())
	if !ok || newest != "c" {
		t.Errorf("newest = %q, ok=%v; want c, true", newest, ok)
	}
}

func TestLastOnEmpty(t *testing.T) {
	b := New[int](3)
	if _, ok := b.Last(); ok {
		t.Error("Last() on empty buffer should return ok=false")
	}
}

func TestSetLastReplacesNewest(t *testing.T) {
	b := New[int](3)
	b.Add(1)
	b.Add(2)
	if !b.SetLast(20) {
		t.Fatal("SetLast returned false on non-empty buffer")
	}
	got, _ := b.Last()
	if got != 20 {
		t.Errorf("Last() = %d, want 20", got)
	}
	if b.Size() != 2 {
		t.Errorf("SetLast should not change size, got %d", b.Size())
	}
}

func TestSetLastOnEmptyReturnsFalse(t *testing.T) {
	b := New[int](3)
	if b.SetLast(1) {
		t.Error("SetLast on empty buffer should return false")
	}
}

func TestToArrayReturnsSnapshotCopy(t *testing.T) {
	b := New[int](3)
	b.Add(1)
	arr := b.ToArray()
	b.Add(2)
	if len(arr) != 1 || arr[0] != 1 {
		t.Errorf("snapshot mutated after later Add: %v", arr)
	}
}
