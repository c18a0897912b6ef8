package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shopping-assistant/models"
)

func TestCacheRoundtrip(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	listings := []*models.RawListing{
		{Title: "ASUS TUF Gaming F15", RawPrice: "₹49,990", Platform: "flipkart",
			URL: "https://www.flipkart.com/asus-tuf-f15"},
	}

	if err := c.Put("flipkart", "gaming laptop", listings); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := c.Get("flipkart", "gaming laptop")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Title != "ASUS TUF Gaming F15" {
		t.Errorf("got %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, ok := c.Get("amazon", "never stored"); ok {
		t.Error("expected cache miss")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Put("amazon", "laptop", []*models.RawListing{{Title: "X"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("amazon", "laptop"); ok {
		t.Error("expired entry must be a miss")
	}
}

func TestCacheKeysAreCaseInsensitive(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Put("Amazon", "Gaming Laptop", []*models.RawListing{{Title: "X"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := c.Get("amazon", "gaming laptop"); !ok {
		t.Error("platform/query keys should be case-insensitive")
	}
}

func TestCacheIgnoresCorruptEntries(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCache(dir, time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Put("amazon", "laptop", []*models.RawListing{{Title: "X"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one cache file, got %d (%v)", len(entries), err)
	}
	if err := os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, ok := c.Get("amazon", "laptop"); ok {
		t.Error("corrupt entry must be a miss, not an error")
	}
}
