package shared_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/shared"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DRAFT_TTL_SECONDS", "60")
	t.Setenv("IMAGE_BACKEND", "Cloudinary")
	t.Setenv("LOCATION_ON_EDIT", "sideways")
	t.Setenv("REDIS_DB", "not-a-number")

	c := shared.Load()
	if c.HTTPAddr != ":9999" || c.DraftTTL != time.Minute {
		t.Fatalf("overrides: %+v", c)
	}
	if c.ImageBackend != "cloudinary" {
		t.Fatalf("backend should be lower-cased, got %q", c.ImageBackend)
	}
	if c.LocationOnEdit != "preserve" {
		t.Fatalf("invalid mode should fall back to preserve, got %q", c.LocationOnEdit)
	}
	if c.RedisDB != 0 || c.MaxUploadBytes != 4<<20 {
		t.Fatalf("defaults: db=%d max=%d", c.RedisDB, c.MaxUploadBytes)
	}
}

func TestLoad_WarnsOnceWithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	shared.Load()
	if n := strings.Count(buf.String(), "JWT_SECRET is empty"); n != 1 {
		t.Fatalf("expected one warning, got %d: %s", n, buf.String())
	}
}
