package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/payment"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// paymentRepository 付款仓储实现
// 金额列为decimal(10,2)，shopspring/decimal自带Scanner/Valuer
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建付款仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := toPaymentModel(p)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		id, err := nextID(tx, prefixPayment)
		if err != nil {
			return apperrors.WrapDB(err, "generate payment id failed")
		}
		model.ID = id
		if err := tx.Create(model).Error; err != nil {
			return apperrors.WrapDB(err, "create payment failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	var model PaymentModel
	if err := conn(ctx, r.db).Where("payment_id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, payment.ErrPaymentNotFound.WithDetails(map[string]any{"payment_id": id})
		}
		return nil, apperrors.WrapDB(err, "query payment failed")
	}
	return toPaymentEntity(&model)
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := toPaymentModel(p)
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.WrapDB(err, "update payment failed")
	}
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("payment_id = ?", id).Delete(&PaymentModel{})
	if res.Error != nil {
		return apperrors.WrapDB(res.Error, "delete payment failed")
	}
	if res.RowsAffected == 0 {
		return payment.ErrPaymentNotFound.WithDetails(map[string]any{"payment_id": id})
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, f payment.Filter) ([]*payment.Payment, error) {
	query := conn(ctx, r.db).Model(&PaymentModel{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status.Valid() {
		query = query.Where("status = ?", f.Status.String())
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	var models []PaymentModel
	if err := query.Order("created_at DESC").Order("payment_id DESC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "list payments failed")
	}

	payments := make([]*payment.Payment, 0, len(models))
	for i := range models {
		p, err := toPaymentEntity(&models[i])
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *paymentRepository) FindPendingByUser(ctx context.Context, userID string) (*payment.Payment, error) {
	var model PaymentModel
	err := conn(ctx, r.db).
		Where("user_id = ? AND status = ?", userID, payment.StatusPending.String()).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "query pending payment failed")
	}
	return toPaymentEntity(&model)
}

func (r *paymentRepository) DeleteSettledByUser(ctx context.Context, userID string) error {
	err := conn(ctx, r.db).
		Where("user_id = ? AND status <> ?", userID, payment.StatusPending.String()).
		Delete(&PaymentModel{}).Error
	if err != nil {
		return apperrors.WrapDB(err, "delete payments failed")
	}
	return nil
}

func toPaymentModel(p *payment.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Status:        p.Status.String(),
		Description:   p.Description,
		PaymentMethod: optional(p.PaymentMethod),
		TransactionID: optional(p.TransactionID),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPaymentEntity(m *PaymentModel) (*payment.Payment, error) {
	status, err := payment.ParseStatus(m.Status)
	if err != nil {
		return nil, apperrors.WrapDB(err, "corrupt payment status")
	}
	p := &payment.Payment{
		ID:          m.ID,
		UserID:      m.UserID,
		Amount:      m.Amount,
		Status:      status,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.PaymentMethod != nil {
		p.PaymentMethod = *m.PaymentMethod
	}
	if m.TransactionID != nil {
		p.TransactionID = *m.TransactionID
	}
	return p, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
