package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hotel_listing/internal/adapters/redis"
	"hotel_listing/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	var hv domain.HotelView
	ok, err := c.Get(ctx, "hotel:1", &hv)
	if err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	in := domain.HotelView{ID: 1, Title: "Harbour Inn", Amenities: []string{"spa"}}
	if err := c.Set(ctx, "hotel:1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("listing:hotel:1") {
		t.Fatalf("key should be namespaced")
	}
	if ttl := mr.TTL("listing:hotel:1"); ttl != 60*time.Second {
		t.Fatalf("ttl: %v", ttl)
	}

	ok, err = c.Get(ctx, "hotel:1", &hv)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if hv.Title != "Harbour Inn" || len(hv.Amenities) != 1 {
		t.Fatalf("round trip: %+v", hv)
	}

	if err := c.Del(ctx, "hotel:1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "hotel:1", &hv); ok {
		t.Fatalf("expected miss after del")
	}
}

func TestCache_ExpiresWithTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "draft:abc", map[string]string{"id": "abc"}, 5); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(6 * time.Second)

	var out map[string]string
	if ok, _ := c.Get(ctx, "draft:abc", &out); ok {
		t.Fatalf("value should have expired")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	if err := mr.Set("listing:hotel:2", "{not json"); err != nil {
		t.Fatal(err)
	}
	var hv domain.HotelView
	if ok, err := c.Get(context.Background(), "hotel:2", &hv); ok || err == nil {
		t.Fatalf("corrupt value must surface an error, ok=%v err=%v", ok, err)
	}
}
