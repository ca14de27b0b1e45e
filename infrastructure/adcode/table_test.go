package adcode

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazy_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func() (*Table, error) {
		calls.Add(1)
		return fixture(t), nil
	})
	if calls.Load() != 0 {
		t.Fatalf("expected no load before first use")
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Search(t.Context(), "北京"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestLazy_GetByCode(t *testing.T) {
	l := NewLazy(func() (*Table, error) { return fixture(t), nil })
	t.Run("happy path", func(t *testing.T) {
		got, err := l.GetByCode(t.Context(), "330106")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Name != "浙江省杭州市西湖区" {
			t.Fatalf("expected 浙江省杭州市西湖区, got %v", got)
		}
	})
	t.Run("absent is not an error", func(t *testing.T) {
		got, err := l.GetByCode(t.Context(), "999999")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if _, err := l.GetByCode(ctx, "330106"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLazy_StickyError(t *testing.T) {
	var calls atomic.Int32
	cause := &DataSourceError{Source: "adcode.csv", Err: errors.New("gone")}
	l := NewLazy(func() (*Table, error) {
		calls.Add(1)
		return nil, cause
	})
	for range 3 {
		if _, err := l.Search(t.Context(), ""); !errors.Is(err, ErrDataSource) {
			t.Fatalf("expected ErrDataSource, got %v", err)
		}
		if _, err := l.GetByCode(t.Context(), "110000"); !errors.Is(err, ErrDataSource) {
			t.Fatalf("expected ErrDataSource, got %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single load attempt, got %d", got)
	}
}

func TestSource(t *testing.T) {
	t.Run("empty path uses the bundled table", func(t *testing.T) {
		tbl, err := Source("")()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := tbl.Get("330106"); !ok {
			t.Fatalf("expected bundled table")
		}
	})
	t.Run("path", func(t *testing.T) {
		_, err := Source("/nonexistent/adcode.csv")()
		if !errors.Is(err, ErrDataSource) {
			t.Fatalf("expected ErrDataSource, got %v", err)
		}
	})
}

func TestLazy_Match(t *testing.T) {
	l := NewLazy(func() (*Table, error) { return fixture(t), nil })
	got, err := l.Match(t.Context(), "杭州")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Code != "330100" || got.Name != "浙江省杭州市" {
		t.Fatalf("expected 330100 浙江省杭州市, got %v", got)
	}
	got, err = l.Match(t.Context(), "火星")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil, got %v, %v", got, err)
	}
}
