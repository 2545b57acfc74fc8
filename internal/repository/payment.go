package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/coinledger/backend/internal/model"
)

var (
	ErrPaymentNotFound   = errors.New("payment intent not found")
	ErrPaymentNotPending = errors.New("payment intent is not pending")
)

func (r *Repository) CreatePaymentIntent(ctx context.Context, intent *model.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (id, user_id, device_id, plan_name, amount, upi_reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		intent.ID,
		intent.UserID,
		intent.DeviceID,
		intent.PlanName,
		intent.Amount,
		intent.UPIReference,
		intent.Status,
	).Scan(&intent.CreatedAt)
}

func (r *Repository) GetPaymentIntent(ctx context.Context, id uuid.UUID) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.GetContext(ctx, &intent, "SELECT * FROM payment_intents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

// CompletePaymentIntent moves a pending intent to completed. The status
// guard in the WHERE clause makes approval idempotent under admin retries.
func (r *Repository) CompletePaymentIntent(ctx context.Context, id uuid.UUID) (*model.PaymentIntent, error) {
	var intent model.PaymentIntent
	err := r.db.QueryRowxContext(ctx, `
		UPDATE payment_intents SET status = $2, completed_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING *`,
		id, model.PaymentStatusCompleted, model.PaymentStatusPending).StructScan(&intent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetPaymentIntent(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrPaymentNotPending
		}
		return nil, err
	}
	return &intent, nil
}
