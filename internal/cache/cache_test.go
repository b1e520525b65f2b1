package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(t.TempDir(), time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("bulk|01-01-2024|07-01-2024", []byte("payload")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok := c.Get("bulk|01-01-2024|07-01-2024")
	if !ok || string(data) != "payload" {
		t.Errorf("Get: ok=%v data=%q", ok, data)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(t.TempDir(), 10*time.Millisecond)
	c.Set("k", []byte("v"))

	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestGetOrFetch(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	for i := 0; i < 3; i++ {
		data, err := c.GetOrFetch("k", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch: %v", err)
		}
		if string(data) != "fresh" {
			t.Errorf("data: %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single upstream fetch, got %d", calls)
	}
}

func TestGetOrFetchPropagatesError(t *testing.T) {
	c := New(t.TempDir(), time.Minute)
	want := errors.New("upstream down")
	_, err := c.GetOrFetch("k", func() ([]byte, error) { return nil, want })
	if !errors.Is(err, want) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestKey(t *testing.T) {
	if k := Key("bulk_deals", "01-01-2024", "07-01-2024"); k != "bulk_deals|01-01-2024|07-01-2024" {
		t.Errorf("Key: %q", k)
	}
}
