package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"p2p_estate/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type scanner interface {
	Scan(dest ...any) error
}

// scanProperty converts one row into the typed domain shape. Status and
// images are validated here so the core never sees raw column values.
func scanProperty(s scanner) (domain.Property, error) {
	var (
		p         domain.Property
		status    string
		createdAt sql.NullTime
		images    []byte
	)
	if err := s.Scan(
		&p.ID,
		&p.SellerID,
		&p.Title,
		&p.Price,
		&status,
		&createdAt,
		&images,
		&p.FavoriteCount,
		&p.MessageCount,
	); err != nil {
		return domain.Property{}, err
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Property{}, fmt.Errorf("property %d: %w: %w", p.ID, domain.ErrCorruptRecord, err)
	}
	p.Status = st
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time.UTC()
	}
	if p.Images, err = domain.ParseImageList(images); err != nil {
		return domain.Property{}, fmt.Errorf("property %d: %w: %w", p.ID, domain.ErrCorruptRecord, err)
	}
	return p, nil
}

func (r *Repo) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listBySellerSQL, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) ListSellerIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, listSellerIDsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) FindSellerByLogin(ctx context.Context, loginID string) (domain.Seller, error) {
	var (
		s    domain.Seller
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, findSellerByLoginSQL, loginID).Scan(&s.ID, &s.LoginID, &name, &s.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Seller{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Seller{}, err
	}
	if name.Valid {
		n := name.String
		s.DisplayName = &n
	}
	return s, nil
}
