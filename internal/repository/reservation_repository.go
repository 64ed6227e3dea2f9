package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/autorenta/rental-api/internal/booking"
	"github.com/autorenta/rental-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// add-on services.  Date columns are DATE values interpreted in UTC; the
// stored range is half-open, so fecha_fin is the return day and does not
// block another pickup on the same date.  All timestamp fields are
// assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// The repository backs the booking package's interfaces directly.
var (
	_ booking.Store               = (*ReservationRepo)(nil)
	_ booking.AvailabilityChecker = (*ReservationRepo)(nil)
)

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, usuario_id, producto_id, fecha_inicio, fecha_fin, estado, precio_total_cents, codigo_confirmacion, created_at`

// scanReservation reads one row in reservationCols order and normalizes
// the stored status through model.ParseStatus, the single mapping point
// for the mixed status vocabularies found in older data.
func scanReservation(row interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res    model.Reservation
		status string
		code   sql.NullString
	)
	err := row.Scan(&res.ID, &res.UserID, &res.VehicleID, &res.StartDate, &res.EndDate,
		&status, &res.TotalPriceCents, &code, &res.CreatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	st, err := model.ParseStatus(status)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = st
	if code.Valid {
		res.ConfirmationCode = code.String
	}
	return res, nil
}

// overlapExistsTx reports whether a confirmed reservation of the vehicle
// overlaps [start, end) using the half-open convention: a conflict exists
// iff fecha_inicio < end AND fecha_fin > start.
func overlapExistsTx(ctx context.Context, tx *sql.Tx, vehicleID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM reservas
	               WHERE producto_id = ? AND estado = ?
	                 AND fecha_inicio < ? AND fecha_fin > ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, vehicleID, model.StatusConfirmed.String(), end, start).Scan(&exists)
	return exists, err
}

// IsAvailable answers an availability query against live data.  Only
// confirmed reservations block; an unknown vehicle ID trivially matches
// nothing and is therefore reported available.  It satisfies
// booking.AvailabilityChecker.
func (r *ReservationRepo) IsAvailable(ctx context.Context, vehicleID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM reservas
	               WHERE producto_id = ? AND estado = ?
	                 AND fecha_inicio < ? AND fecha_fin > ?)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, vehicleID, model.StatusConfirmed.String(), end, start).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Create inserts a reservation and its selected add-on services inside a
// single transaction.  The vehicle row is locked before the overlap check
// so that two concurrent creates for the same vehicle serialize; the
// client-side availability check is advisory and this is where double
// booking is actually prevented.  On success the stored row is returned
// with its generated ID.  ErrDateConflict is returned when a confirmed
// reservation already overlaps, ErrVehicleNotFound when the vehicle does
// not exist.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation, addonIDs []uint64) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the vehicle row; concurrent creates for the same vehicle queue
	// here until the first transaction commits its reservation.
	var lockedID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM productos WHERE id = ? FOR UPDATE`, res.VehicleID).Scan(&lockedID)
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrVehicleNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}

	if res.Status.Blocks() {
		conflict, err := overlapExistsTx(ctx, tx, res.VehicleID, res.StartDate, res.EndDate)
		if err != nil {
			return model.Reservation{}, err
		}
		if conflict {
			return model.Reservation{}, ErrDateConflict
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservas (usuario_id, producto_id, fecha_inicio, fecha_fin, estado, precio_total_cents, codigo_confirmacion)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.UserID, res.VehicleID, res.StartDate, res.EndDate, res.Status.String(),
		res.TotalPriceCents, res.ConfirmationCode)
	if err != nil {
		return model.Reservation{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.Reservation{}, err
	}
	res.ID = uint64(id)

	for _, aid := range addonIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reserva_servicios (reserva_id, servicio_id) VALUES (?, ?)`,
			res.ID, aid); err != nil {
			return model.Reservation{}, err
		}
	}

	// Query back the full row to populate timestamps and defaults.
	stored, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservas WHERE id = ?`, res.ID))
	if err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	return stored, nil
}

// GetByID returns a single reservation.  sql.ErrNoRows is passed through
// when no row matches.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservas WHERE id = ?`, id))
}

// ListByUser returns all reservations belonging to a user, newest first.
// When none exist an empty slice is returned.  It satisfies the Store
// interface of booking.Session.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservas WHERE usuario_id = ? ORDER BY created_at DESC`, userID)
}

// ListByVehicle returns all reservations for a vehicle, oldest first, for
// building availability calendars.
func (r *ReservationRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservas WHERE producto_id = ? ORDER BY fecha_inicio`, vehicleID)
}

// ListAll returns every reservation, optionally filtered by status,
// newest first.  Used by the admin surface.
func (r *ReservationRepo) ListAll(ctx context.Context, status *model.Status) ([]model.Reservation, error) {
	if status != nil {
		return r.list(ctx, `SELECT `+reservationCols+` FROM reservas WHERE estado = ? ORDER BY created_at DESC`, status.String())
	}
	return r.list(ctx, `SELECT `+reservationCols+` FROM reservas ORDER BY created_at DESC`)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel marks a reservation cancelled on behalf of its owner.  It
// returns sql.ErrNoRows when the reservation does not exist, ErrForbidden
// when it belongs to a different user and ErrConflict when its status
// does not permit cancellation at this time.  The row is locked so a
// concurrent status transition cannot interleave.
func (r *ReservationRepo) Cancel(ctx context.Context, id, userID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservas WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		return err
	}
	if res.UserID != userID {
		return ErrForbidden
	}
	if !booking.CanCancel(res, time.Now().UTC()) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservas SET estado = ? WHERE id = ?`,
		model.StatusCancelled.String(), id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus applies an administrative status transition.  Transition
// legality is the caller's responsibility; the repository only guards
// against races by locking the row.  Confirming a pending reservation
// re-runs the overlap check, since pending rows do not block availability
// and another reservation may have been confirmed in the meantime.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, to model.Status) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservas WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		return model.Reservation{}, err
	}
	if to == model.StatusConfirmed && !res.Status.Blocks() {
		conflict, err := overlapExistsTx(ctx, tx, res.VehicleID, res.StartDate, res.EndDate)
		if err != nil {
			return model.Reservation{}, err
		}
		if conflict {
			return model.Reservation{}, ErrDateConflict
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE reservas SET estado = ? WHERE id = ?`, to.String(), id); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	res.Status = to
	return res, nil
}

// AddonsFor returns the additional services attached to a reservation.
func (r *ReservationRepo) AddonsFor(ctx context.Context, reservationID uint64) ([]model.Addon, error) {
	const q = `SELECT s.id, s.nombre, s.descripcion, s.precio_dia_cents, s.activo
	           FROM reserva_servicios rs
	           JOIN servicios s ON s.id = rs.servicio_id
	           WHERE rs.reserva_id = ?
	           ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Addon, 0)
	for rows.Next() {
		var a model.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.DailyPriceCents, &a.Active); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
