// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package pin

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/caminoapp/camino/spatial"
	"github.com/caminoapp/camino/utils"
	"github.com/google/uuid"
	"github.com/uber/h3-go/v4"
)

// ErrNotFound is returned when a pin id does not exist.
var ErrNotFound = errors.New("pin not found")

// Repository handles persistence of pins.
type Repository interface {
	// CreateSchema creates the pins table
	CreateSchema() error

	// Save inserts a pin, or updates it if the id already exists. A missing
	// id is assigned on insert.
	Save(p *Pin) error

	// BulkInsert inserts a slice of pins in one transaction
	BulkInsert(pins []*Pin) error

	// Get returns a pin by id, or ErrNotFound
	Get(id string) (*Pin, error)

	// ListInViewport returns pins whose point falls inside the viewport
	ListInViewport(vp spatial.Viewport, limit int) ([]*Pin, error)

	// Search returns pins whose folded title contains the folded query
	Search(query string, limit int) ([]*Pin, error)

	// SetVisited toggles the visited flag of a pin
	SetVisited(id string, visited bool) error

	// Count returns the total number of pins and how many are visited
	Count() (total, visited int, err error)

	// CellCounts returns pin counts grouped by H3 cell at the resolution
	CellCounts(res int) (map[string]int, error)

	// AllSorted returns every pin sorted by id, for stable exports
	AllSorted() ([]*Pin, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlPinRepository struct {
	db *sql.DB
}

// NewRepository creates a DuckDB-backed pin repository.
func NewRepository(db *sql.DB) Repository {
	return &sqlPinRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlPinRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlPinRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE TABLE IF NOT EXISTS pins (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			title_folded VARCHAR NOT NULL,
			point POINT_2D NOT NULL,
			visited BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res1 UBIGINT,
			h3_res2 UBIGINT,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)

	return err
}

const pinColumns = `id, title, point, visited, created_at, updated_at`

func (r *sqlPinRepository) scanPins(rows *sql.Rows) ([]*Pin, error) {
	var pins []*Pin

	for rows.Next() {
		p := &Pin{}
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Point,
			&p.Visited,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}

		pins = append(pins, p)
	}

	return pins, rows.Err()
}

func (r *sqlPinRepository) Save(p *Pin) error {
	if err := p.Validate(); err != nil {
		return err
	}

	p.UpdatedAt = time.Now()

	if p.ID != "" {
		if _, err := r.Get(p.ID); err == nil {
			if err := p.computeH3(); err != nil {
				return err
			}

			_, err := r.db.Exec(`
				UPDATE pins
				SET title = ?, title_folded = ?, point = ST_Point(?, ?),
				    visited = ?, updated_at = ?,
				    h3_res1 = ?, h3_res2 = ?, h3_res3 = ?, h3_res4 = ?,
				    h3_res5 = ?, h3_res6 = ?, h3_res7 = ?, h3_res8 = ?
				WHERE id = ?
			`,
				p.Title,
				utils.LowerASCIIFolding(p.Title),
				p.Point.Lng,
				p.Point.Lat,
				p.Visited,
				p.UpdatedAt,
				p.H3Res1,
				p.H3Res2,
				p.H3Res3,
				p.H3Res4,
				p.H3Res5,
				p.H3Res6,
				p.H3Res7,
				p.H3Res8,
				p.ID,
			)

			return err
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	p.CreatedAt = p.UpdatedAt

	return r.BulkInsert([]*Pin{p})
}

func (r *sqlPinRepository) BulkInsert(pins []*Pin) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pins(
			id,
			title,
			title_folded,
			point,
			visited,
			created_at,
			updated_at,
			h3_res1,
			h3_res2,
			h3_res3,
			h3_res4,
			h3_res5,
			h3_res6,
			h3_res7,
			h3_res8
		)
		VALUES (?, ?, ?, ST_Point(?, ?), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	now := time.Now()

	for _, p := range pins {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}

		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}

		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}

		if err = p.computeH3(); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}

		if _, err = stmt.Exec(
			p.ID,
			p.Title,
			utils.LowerASCIIFolding(p.Title),
			p.Point.Lng,
			p.Point.Lat,
			p.Visited,
			p.CreatedAt,
			p.UpdatedAt,
			p.H3Res1,
			p.H3Res2,
			p.H3Res3,
			p.H3Res4,
			p.H3Res5,
			p.H3Res6,
			p.H3Res7,
			p.H3Res8,
		); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

func (r *sqlPinRepository) Get(id string) (*Pin, error) {
	p := &Pin{}

	err := r.db.QueryRow(`
		SELECT `+pinColumns+`
		FROM pins
		WHERE id = ?
	`, id).Scan(
		&p.ID,
		&p.Title,
		&p.Point,
		&p.Visited,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return p, nil
}

func (r *sqlPinRepository) ListInViewport(vp spatial.Viewport, limit int) ([]*Pin, error) {
	minLat, maxLat, minLng, maxLng := vp.Bounds()

	rows, err := r.db.Query(`
		SELECT `+pinColumns+`
		FROM pins
		WHERE ST_Y(point) BETWEEN ? AND ?
		  AND ST_X(point) BETWEEN ? AND ?
		ORDER BY created_at, id
		LIMIT ?
	`, minLat, maxLat, minLng, maxLng, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPins(rows)
}

func (r *sqlPinRepository) Search(query string, limit int) ([]*Pin, error) {
	folded := utils.LowerASCIIFolding(query)

	rows, err := r.db.Query(`
		SELECT `+pinColumns+`
		FROM pins
		WHERE title_folded LIKE '%' || ? || '%'
		ORDER BY title, id
		LIMIT ?
	`, folded, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPins(rows)
}

func (r *sqlPinRepository) SetVisited(id string, visited bool) error {
	result, err := r.db.Exec(`
		UPDATE pins
		SET visited = ?, updated_at = ?
		WHERE id = ?
	`, visited, time.Now(), id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *sqlPinRepository) Count() (int, int, error) {
	var total, visited int

	err := r.db.QueryRow(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE visited)
		FROM pins
	`).Scan(&total, &visited)
	if err != nil {
		return 0, 0, err
	}

	return total, visited, nil
}

func (r *sqlPinRepository) CellCounts(res int) (map[string]int, error) {
	if res < 1 || res > 8 {
		return nil, fmt.Errorf("h3 resolution must be between 1 and 8 (got %d)", res)
	}

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT h3_res%d, COUNT(*)
		FROM pins
		GROUP BY 1
	`, res))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var cell uint64

		var count int

		if err := rows.Scan(&cell, &count); err != nil {
			return nil, err
		}

		counts[h3.Cell(cell).String()] = count
	}

	return counts, rows.Err()
}

func (r *sqlPinRepository) AllSorted() ([]*Pin, error) {
	rows, err := r.db.Query(`
		SELECT ` + pinColumns + `
		FROM pins
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanPins(rows)
}
