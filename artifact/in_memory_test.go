package artifact

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sceneweave/sceneweave/core"
)

// Interface compliance (compile-time assertions)
var _ core.ArtifactStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	store := NewInMemoryStore()
	data := []byte("hello")
	if err := store.Save("run1", "audio/heart.mp3", data); err != nil {
		t.Fatalf("save: %v", err)
	}
	// mutate original slice
	data[0] = 'H'
	out, err := store.Get("run1", "audio/heart.mp3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(out) != "hello" { // should not reflect mutation
		t.Fatalf("expected 'hello', got %q", string(out))
	}
	// mutate returned slice
	out[0] = 'x'
	out2, _ := store.Get("run1", "audio/heart.mp3")
	if string(out2) != "hello" { // original stored should be unchanged
		t.Fatalf("expected isolation, got %q", string(out2))
	}
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	store := NewInMemoryStore()
	if err := store.Save("run1", "audio/a.mp3", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("run1", "audio/b.mp3", []byte("2")); err != nil {
		t.Fatal(err)
	}
	keys, err := store.List("run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if err := store.Delete("run1", "audio/a.mp3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("run1", "audio/a.mp3"); err == nil {
		t.Fatalf("expected error for deleted blob")
	}
	keys, _ = store.List("run1")
	if len(keys) != 1 {
		t.Fatalf("expected 1 key after delete, got %d", len(keys))
	}
}

func TestInMemoryStore_Concurrency(t *testing.T) {
	store := NewInMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := i % 10
			if err := store.Save("run1", fmt.Sprintf("audio/%d.mp3", id), []byte("data")); err != nil {
				t.Errorf("save err: %v", err)
			}
			_, _ = store.List("run1")
		}()
	}
	wg.Wait()
	keys, err := store.List("run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) == 0 {
		t.Fatalf("expected some blobs, got 0")
	}
}
