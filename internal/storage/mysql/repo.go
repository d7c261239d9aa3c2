package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"hotel_listing/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// likePattern escapes LIKE wildcards in a user search term.
func likePattern(p *string) any {
	if p == nil {
		return nil
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(*p)) + "%"
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateHotel(ctx context.Context, ownerID string, d domain.HotelDraft) (int64, error) {
	amen, err := json.Marshal(d.Amenities)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		ownerID,
		d.Title,
		d.Description,
		d.Image,
		d.Country,
		d.State,
		d.City,
		d.LocationDescription,
		string(amen),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateHotel(ctx context.Context, id int64, d domain.HotelDraft) error {
	amen, err := json.Marshal(d.Amenities)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, updateHotelSQL,
		d.Title,
		d.Description,
		d.Image,
		d.Country,
		d.State,
		d.City,
		d.LocationDescription,
		string(amen),
		id,
	)
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and an unchanged one
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM hotels WHERE id = ?`, id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(s rowScanner) (domain.HotelRecord, error) {
	var rec domain.HotelRecord
	var amen []byte
	d := &rec.Draft
	if err := s.Scan(
		&rec.ID,
		&rec.OwnerID,
		&d.Title,
		&d.Description,
		&d.Image,
		&d.Country,
		&d.State,
		&d.City,
		&d.LocationDescription,
		&amen,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return domain.HotelRecord{}, err
	}
	if len(amen) > 0 {
		if err := json.Unmarshal(amen, &d.Amenities); err != nil {
			return domain.HotelRecord{}, fmt.Errorf("hotel %d amenities: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelRecord, error) {
	rec, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelRecord{}, domain.ErrNotFound
		}
		return domain.HotelRecord{}, err
	}
	return rec, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.HotelRecord, error) {
	var search *string
	if q.Q != nil && strings.TrimSpace(*q.Q) != "" {
		search = q.Q
	}
	rows, err := r.db.QueryContext(ctx, listHotelsSQL,
		valStr(search), likePattern(search),
		valStr(q.OwnerID), valStr(q.OwnerID),
		valStr(q.Country), valStr(q.Country),
		q.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.HotelRecord{}
	for rows.Next() {
		rec, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
