package unique

import (
	"sync"
	"testing"
	"time"
)

func TestNewSnowflakeNode_Range(t *testing.T) {
	if _, err := NewSnowflakeNode(-1, nil); err != ErrNodeOutOfRange {
		t.Errorf("expected ErrNodeOutOfRange, got %v", err)
	}
	if _, err := NewSnowflakeNode(1024, nil); err != ErrNodeOutOfRange {
		t.Errorf("expected ErrNodeOutOfRange, got %v", err)
	}
	if _, err := NewSnowflakeNode(1023, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerate_Layout(t *testing.T) {
	at := time.UnixMilli(Epoch + 5000)
	n, _ := NewSnowflakeNode(7, func() time.Time { return at })

	first := n.Generate()
	second := n.Generate()

	if got := first >> timeShift; got != 5000 {
		t.Errorf("timestamp bits = %d, want 5000", got)
	}
	if got := (first >> nodeShift) & nodeMax; got != 7 {
		t.Errorf("node bits = %d, want 7", got)
	}
	if second != first+1 {
		t.Errorf("same millisecond should bump the sequence: %d then %d", first, second)
	}
}

func TestGenerate_ClockBackwards(t *testing.T) {
	ms := Epoch + 10
	n, _ := NewSnowflakeNode(0, func() time.Time { return time.UnixMilli(ms) })

	a := n.Generate()
	ms -= 5
	b := n.Generate()
	if b <= a {
		t.Errorf("ids must keep increasing when the clock goes back: %d then %d", a, b)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	n, _ := NewSnowflakeNode(1, nil)

	const workers, perWorker = 8, 1000
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, workers*perWorker)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, perWorker)
			for i := range ids {
				ids[i] = n.Generate()
			}
			mu.Lock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
}

func TestString(t *testing.T) {
	n, _ := NewSnowflakeNode(0, nil)
	if a, b := n.String(), n.String(); a == "" || a == b {
		t.Errorf("unexpected ids %q %q", a, b)
	}
}
