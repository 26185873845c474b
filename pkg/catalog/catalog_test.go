package catalog

import (
	"context"
	"os"
	"testing"
	"time"
)

// Open/Upsert/Get/List/MarkUnloaded all need a live Postgres instance to
// migrate and query against; these tests run only when pointed at one via
// H3ROUTE_CATALOG_TEST_DSN, the same way the rest of this codebase's
// optional integrations degrade to "not configured" rather than failing.
func testDSN(t *testing.T) string {
	dsn := os.Getenv("H3ROUTE_CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("H3ROUTE_CATALOG_TEST_DSN not set, skipping catalog integration test")
	}
	return dsn
}

func TestUpsertThenGet(t *testing.T) {
	dsn := testDSN(t)
	ctx := context.Background()

	cat, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	name := "catalog-test-metro"
	err = cat.Upsert(ctx, Entry{
		Name:          name,
		RunID:         "run-1",
		District:      "metro",
		StorePath:     "/data/metro.bin",
		EdgeCount:     1000,
		ShortcutCount: 4000,
		PartitionRes:  7,
		HybridRes:     10,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entry, err := cat.Get(ctx, name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Status != "loaded" || entry.EdgeCount != 1000 {
		t.Errorf("unexpected entry: %+v", entry)
	}
}

func TestMarkUnloadedSetsStatus(t *testing.T) {
	dsn := testDSN(t)
	ctx := context.Background()

	cat, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	name := "catalog-test-unload"
	if err := cat.Upsert(ctx, Entry{Name: name, District: "metro", PartitionRes: 7, HybridRes: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := cat.MarkUnloaded(ctx, name); err != nil {
		t.Fatalf("mark unloaded: %v", err)
	}

	entry, err := cat.Get(ctx, name)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Status != "unloaded" || entry.UnloadedAt == nil {
		t.Errorf("expected unloaded status with a timestamp, got %+v", entry)
	}
}

func TestMarkUnloadedUnknownNameFails(t *testing.T) {
	dsn := testDSN(t)
	cat, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer cat.Close()

	if err := cat.MarkUnloaded(context.Background(), "does-not-exist-"+time.Now().String()); err == nil {
		t.Error("expected an error marking an unknown dataset unloaded")
	}
}
