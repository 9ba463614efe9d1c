package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/yishak-cs/bites/internal/database"
	"github.com/yishak-cs/bites/internal/models"
)

func setupTestClient(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := database.NewRedisClient(database.Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestScalarWithExpiry(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	if _, ok, err := client.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%t err=%v", ok, err)
	}
	if err := client.SetEx(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("SetEx failed: %v", err)
	}
	if v, ok, err := client.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("expected hit v, got %q ok=%t err=%v", v, ok, err)
	}

	mr.FastForward(time.Minute)
	if _, ok, _ := client.Get(ctx, "k"); ok {
		t.Errorf("expected key to expire")
	}
}

func TestHashAndSortedSet(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	mr.HSet("h", "name", "Test")
	if v, ok, err := client.HGet(ctx, "h", "name"); err != nil || !ok || v != "Test" {
		t.Fatalf("HGet: %q ok=%t err=%v", v, ok, err)
	}
	if _, ok, err := client.HGet(ctx, "h", "missing"); err != nil || ok {
		t.Fatalf("expected missing field, got ok=%t err=%v", ok, err)
	}
	fields, err := client.HGetAll(ctx, "nope")
	if err != nil || len(fields) != 0 {
		t.Fatalf("expected empty hash, got %v err=%v", fields, err)
	}

	for member, score := range map[string]float64{"a": 1, "b": 3, "c": 2} {
		if err := client.ZAdd(ctx, "z", member, score); err != nil {
			t.Fatalf("ZAdd failed: %v", err)
		}
	}
	// Upsert replaces, it never duplicates.
	if err := client.ZAdd(ctx, "z", "a", 4); err != nil {
		t.Fatalf("ZAdd failed: %v", err)
	}

	asc, _ := client.ZRange(ctx, "z", 0, -1, false)
	desc, _ := client.ZRange(ctx, "z", 0, -1, true)
	if want := []string{"c", "b", "a"}; !equal(asc, want) {
		t.Errorf("ascending: expected %v, got %v", want, asc)
	}
	if want := []string{"a", "b", "c"}; !equal(desc, want) {
		t.Errorf("descending: expected %v, got %v", want, desc)
	}
	if score, ok, _ := client.ZScore(ctx, "z", "a"); !ok || score != 4 {
		t.Errorf("expected score 4, got %v ok=%t", score, ok)
	}
}

func TestPipelinedIgnoresMisses(t *testing.T) {
	_, client := setupTestClient(t)
	ctx := context.Background()

	var (
		get  database.StringReply
		push database.IntReply
	)
	err := client.Pipelined(ctx, func(b *database.Batch) {
		get = b.HGet("absent", "field")
		push = b.LPush("l", "x")
	})
	if err != nil {
		t.Fatalf("Pipelined failed: %v", err)
	}
	if get.Err() != nil || get.Val() != "" {
		t.Errorf("a miss must not be reported as an error, got %q %v", get.Val(), get.Err())
	}
	if push.Val() != 1 {
		t.Errorf("expected list length 1, got %d", push.Val())
	}
}

func TestPipelinedReportsEachFailure(t *testing.T) {
	mr, client := setupTestClient(t)
	ctx := context.Background()

	// Given: a scalar where a list is expected
	mr.Set("l", "not a list")

	var (
		push  database.IntReply
		total database.FloatReply
	)
	err := client.Pipelined(ctx, func(b *database.Batch) {
		push = b.LPush("l", "x")
		total = b.HIncrByFloat("h", "total", 2.5)
	})
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(push.Err(), models.ErrStoreUnavailable) {
		t.Errorf("expected push to fail, got %v", push.Err())
	}
	if total.Err() != nil || total.Val() != 2.5 {
		t.Errorf("expected increment to land, got %v %v", total.Val(), total.Err())
	}
}

func TestStoreErrorsAreClassified(t *testing.T) {
	mr, client := setupTestClient(t)
	mr.Close()

	_, err := client.Exists(context.Background(), "k")
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := client.Health(context.Background()); !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from health, got %v", err)
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := database.NewRedisClient(database.Config{Addr: addr}); err == nil {
		t.Fatalf("expected connection error")
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
