//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_listing/internal/domain"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func pstr(s string) *string { return &s }

// migrationsDir honours MIGRATIONS_DIR and falls back to the repo's migrations/.
func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL and returns a migrated connection.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=listing",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/listing?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_CreateUpdateQuery(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	d := domain.HotelDraft{
		Title:               "Harbour Inn",
		Description:         "Rooms overlooking the old harbour.",
		Image:               "https://x/harbour.png",
		Country:             "CA",
		State:               "ON",
		City:                "Toronto",
		LocationDescription: "Next to the ferry terminal.",
	}
	d.Amenities.Spa = true

	id, err := repo.CreateHotel(ctx, "owner-1", d)
	if err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	got, err := repo.GetHotel(ctx, id)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.OwnerID != "owner-1" || got.Draft != d || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", got)
	}

	d.Title = "Harbour Inn 100% Sea_View"
	d.Amenities.Gym = true
	if err := repo.UpdateHotel(ctx, id, d); err != nil {
		t.Fatalf("UpdateHotel: %v", err)
	}
	// unchanged update is not a miss
	if err := repo.UpdateHotel(ctx, id, d); err != nil {
		t.Fatalf("UpdateHotel (no-op): %v", err)
	}
	if err := repo.UpdateHotel(ctx, id+1000, d); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := repo.CreateHotel(ctx, "owner-2", domain.HotelDraft{
		Title: "Lisbon Loft", Description: "Loft in the old town.", Image: "https://x/l.png",
		Country: "PT", State: "11", City: "Lisbon", LocationDescription: "Above the tram line.",
	}); err != nil {
		t.Fatal(err)
	}

	hits, err := repo.ListHotels(ctx, domain.HotelsQuery{Q: pstr("100%"), Limit: 10})
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(hits) != 1 || hits[0].ID != id || !hits[0].Draft.Amenities.Gym {
		t.Fatalf("search: %+v", hits)
	}

	all, err := repo.ListHotels(ctx, domain.HotelsQuery{Limit: 10})
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: %d err=%v", len(all), err)
	}
	mine, err := repo.ListHotels(ctx, domain.HotelsQuery{OwnerID: pstr("owner-2"), Limit: 10})
	if err != nil || len(mine) != 1 || mine[0].Draft.Country != "PT" {
		t.Fatalf("owner filter: %+v err=%v", mine, err)
	}

	if _, err := repo.GetHotel(ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
