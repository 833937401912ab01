package fixpoint

import (
	"errors"
	"sync"
	"testing"
)

func TestRunBundleSequentialVisitsEveryName(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	err := RunBundle([]string{"a", "b", "c"}, 1, func(name string) error {
		mu.Lock()
		seen = append(seen, name)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 3 {
		t.Errorf("visited %d names, want 3", len(seen))
	}
}

func TestRunBundleConcurrentVisitsEveryName(t *testing.T) {
	var mu sync.Mutex
	count := 0
	err := RunBundle([]string{"a", "b", "c", "d"}, 2, func(name string) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Errorf("visited %d names, want 4", count)
	}
}

func TestRunBundlePropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := RunBundle([]string{"a", "b"}, 2, func(name string) error {
		if name == "b" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
