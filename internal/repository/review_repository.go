package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// ErrReviewNotAllowed is returned when the user tries to review a rental
// that is not theirs or has not finished yet.
var ErrReviewNotAllowed = errors.New("only finished rentals can be reviewed")

// ReviewRepo manages vehicle reviews.  A review is tied to one finished
// reservation; each reservation can be reviewed once.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = "id, reserva_id, producto_id, usuario_id, puntuacion, comentario, created_at"

func scanReview(row interface{ Scan(...any) error }) (model.Review, error) {
	var (
		rev     model.Review
		comment sql.NullString
	)
	err := row.Scan(&rev.ID, &rev.ReservationID, &rev.VehicleID, &rev.UserID,
		&rev.Rating, &comment, &rev.CreatedAt)
	if err != nil {
		return model.Review{}, err
	}
	if comment.Valid {
		rev.Comment = comment.String
	}
	return rev, nil
}

// ListByVehicle returns a vehicle's reviews, newest first.
func (r *ReviewRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reviewCols+" FROM reviews WHERE producto_id = ? ORDER BY created_at DESC",
		vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// AverageRating returns the mean rating of a vehicle and the number of
// reviews behind it.  A vehicle without reviews averages zero.
func (r *ReviewRepo) AverageRating(ctx context.Context, vehicleID uint64) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT AVG(puntuacion), COUNT(*) FROM reviews WHERE producto_id = ?",
		vehicleID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, err
	}
	return avg.Float64, count, nil
}

// Create inserts a review after checking the reservation belongs to the
// user and has finished.  A second review of the same reservation yields
// ErrConflict via the unique key on reserva_id.
func (r *ReviewRepo) Create(ctx context.Context, rev model.Review) (model.Review, error) {
	var (
		ownerID uint64
		status  string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT usuario_id, estado FROM reservas WHERE id = ? AND producto_id = ?",
		rev.ReservationID, rev.VehicleID).Scan(&ownerID, &status)
	if err == sql.ErrNoRows {
		return model.Review{}, ErrReviewNotAllowed
	}
	if err != nil {
		return model.Review{}, err
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return model.Review{}, err
	}
	if ownerID != rev.UserID || st != model.StatusFinalized {
		return model.Review{}, ErrReviewNotAllowed
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (reserva_id, producto_id, usuario_id, puntuacion, comentario)
		 VALUES (?, ?, ?, ?, ?)`,
		rev.ReservationID, rev.VehicleID, rev.UserID, rev.Rating, nullable(rev.Comment))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Review{}, ErrConflict
		}
		return model.Review{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Review{}, err
	}
	return scanReview(r.db.QueryRowContext(ctx,
		"SELECT "+reviewCols+" FROM reviews WHERE id = ?", id))
}
