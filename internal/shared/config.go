package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	DraftTTL    time.Duration

	JWTSecret string
	JWTIssuer string

	ImageBackend     string // cloudinary | http
	ImageAPIBase     string
	ImageAPIKey      string
	ImageAPIRPS      int
	CloudinaryURL    string
	CloudinaryFolder string
	MaxUploadBytes   int64

	LocationOnEdit string // preserve | reset
}

// Load reads the environment. A .env file in the working directory, when
// present, fills in variables that are not already set.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ""),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/listing?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		DraftTTL:         time.Duration(atoi("DRAFT_TTL_SECONDS", 86400)) * time.Second,
		JWTSecret:        env("JWT_SECRET", ""),
		JWTIssuer:        env("JWT_ISSUER", ""),
		ImageBackend:     strings.ToLower(env("IMAGE_BACKEND", "http")),
		ImageAPIBase:     env("IMAGE_API_BASE_URL", "http://localhost:3001/api/uploadthing"),
		ImageAPIKey:      env("IMAGE_API_KEY", ""),
		ImageAPIRPS:      atoi("IMAGE_API_RPS", 5),
		CloudinaryURL:    env("CLOUDINARY_URL", ""),
		CloudinaryFolder: env("CLOUDINARY_FOLDER", "hotels"),
		MaxUploadBytes:   int64(atoi("MAX_UPLOAD_BYTES", 4<<20)),
		LocationOnEdit:   strings.ToLower(env("LOCATION_ON_EDIT", "preserve")),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; every authenticated route will answer 401")
	}
	if c.LocationOnEdit != "preserve" && c.LocationOnEdit != "reset" {
		log.Warn().Str("value", c.LocationOnEdit).Msg("LOCATION_ON_EDIT must be preserve or reset; using preserve")
		c.LocationOnEdit = "preserve"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
