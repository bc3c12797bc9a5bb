package tokencache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	entry, err := store.Get(ctx, "warden:token:johndoe")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Fatal("expected miss on empty store")
	}

	put := Entry{AccessToken: "tok-abc", ObtainedAt: time.Now().UTC()}
	if err := store.Put(ctx, "warden:token:johndoe", put, time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entry, err = store.Get(ctx, "warden:token:johndoe")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected hit after Put")
	}
	if entry.AccessToken != "tok-abc" {
		t.Errorf("expected token tok-abc, got %s", entry.AccessToken)
	}
}

func TestMemory_Expiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Put(ctx, "k", Entry{AccessToken: "tok"}, 50*time.Millisecond); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	entry, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_ = store.Put(ctx, "k", Entry{AccessToken: "tok"}, time.Minute)
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	entry, _ := store.Get(ctx, "k")
	if entry != nil {
		t.Fatal("expected miss after delete")
	}

	// deleting a missing key is fine
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_ = store.Put(ctx, "k", Entry{AccessToken: "old"}, time.Minute)
	_ = store.Put(ctx, "k", Entry{AccessToken: "new"}, time.Minute)

	entry, _ := store.Get(ctx, "k")
	if entry == nil || entry.AccessToken != "new" {
		t.Fatalf("expected overwritten token, got %+v", entry)
	}
}

func TestMemory_ZeroTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_ = store.Put(ctx, "k", Entry{AccessToken: "tok"}, 0)

	entry, _ := store.Get(ctx, "k")
	if entry == nil {
		t.Fatal("zero ttl must fall back to the default, not expire immediately")
	}
}
