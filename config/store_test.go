package config

import (
	"context"
	"slices"
	"testing"
)

func TestStoreSetGet(t *testing.T) {
	ctx := context.TODO()
	store, err := NewConfigStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "logger/prefix", "BUFFER"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "logger/level", "INFO"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "loggerx", "other"); err != nil {
		t.Fatal(err)
	}
	if val, err := store.Get(ctx, "LOGGER/PREFIX"); err != nil || val != "BUFFER" {
		t.Errorf("unexpected value %s (%v)", val, err)
	}
	all := store.GetAll(ctx, "logger")
	if len(all) != 2 || all["PREFIX"] != "BUFFER" || all["LEVEL"] != "INFO" {
		t.Errorf("unexpected subtree %v", all)
	}
	if store.GetAll(ctx, "missing") != nil {
		t.Error("expected nil for missing subtree")
	}
	if keys := store.Keys(ctx); !slices.Equal(keys, []string{"LOGGER/LEVEL", "LOGGER/PREFIX", "LOGGERX"}) {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.TODO()
	store, err := NewConfigStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "size", "32"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "size", ""); err != nil {
		t.Fatal(err)
	}
	if store.Has(ctx, "size") {
		t.Error("empty value must delete the key")
	}
	if err := store.Set(ctx, "mode", "QUEUE"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "mode"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "mode"); err == nil {
		t.Error("expected deleted key to be missing")
	}
}

func TestStoreDeleteSubtree(t *testing.T) {
	ctx := context.TODO()
	store, err := NewConfigStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"systems/queue/size", "systems/queue/mode", "systems/queuex", "systems/pool/workers"} {
		if err := store.Set(ctx, key, "1"); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Delete(ctx, "systems/queue"); err != nil {
		t.Fatal(err)
	}
	if keys := store.Keys(ctx); !slices.Equal(keys, []string{"SYSTEMS/POOL/WORKERS", "SYSTEMS/QUEUEX"}) {
		t.Errorf("unexpected keys after delete %v", keys)
	}
	if err := store.Delete(ctx, ""); err == nil {
		t.Error("empty key must not clear the store")
	}
}

func TestStoreCancelledContext(t *testing.T) {
	store, err := NewConfigStore(context.TODO())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(context.TODO(), "key", "value"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	if store.Has(ctx, "key") {
		t.Error("cancelled context must not report keys")
	}
}
