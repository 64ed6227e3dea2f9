package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// CategoryRepo provides CRUD over the 'categorias' table.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = "id, nombre, descripcion, imagen_url"

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var (
		c   model.Category
		img sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &c.Description, &img)
	if err != nil {
		return model.Category{}, err
	}
	if img.Valid {
		c.ImageURL = img.String
	}
	return c, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryCols+" FROM categorias ORDER BY nombre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID returns one category or ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categorias WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Category{}, ErrCategoryNotFound
	}
	return c, err
}

// Create inserts a category and returns it with its generated ID.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categorias (nombre, descripcion, imagen_url) VALUES (?, ?, ?)",
		strings.TrimSpace(c.Name), c.Description, nullable(c.ImageURL))
	if err != nil {
		return model.Category{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Delete removes a category.  Categories still referenced by vehicles
// surface the foreign key violation as ErrConflict.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categorias WHERE id = ?", id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1451") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
