package rdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/lostdamaged"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// lostDamagedRepository 遗失/损坏登记仓储实现
// book_id唯一，同一本书重复登记由唯一索引兜底
type lostDamagedRepository struct {
	db *gorm.DB
}

// NewLostDamagedRepository 创建遗失/损坏登记仓储
func NewLostDamagedRepository(db *gorm.DB) lostdamaged.Repository {
	return &lostDamagedRepository{db: db}
}

func (r *lostDamagedRepository) Create(ctx context.Context, rec *lostdamaged.Record) error {
	model := toLostDamagedModel(rec)

	err := inTx(ctx, r.db, func(tx *gorm.DB) error {
		id, err := nextID(tx, prefixLostDamaged)
		if err != nil {
			return apperrors.WrapDB(err, "generate lost/damaged id failed")
		}
		model.ID = id
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return lostdamaged.ErrRecordExists.WithDetails(map[string]any{"book_id": rec.BookID})
			}
			return apperrors.WrapDB(err, "create lost/damaged record failed")
		}
		return nil
	})
	if err != nil {
		return err
	}

	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *lostDamagedRepository) FindByID(ctx context.Context, id string) (*lostdamaged.Record, error) {
	return r.findOne(conn(ctx, r.db), id)
}

func (r *lostDamagedRepository) LockByID(ctx context.Context, id string) (*lostdamaged.Record, error) {
	return r.findOne(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *lostDamagedRepository) findOne(db *gorm.DB, id string) (*lostdamaged.Record, error) {
	var model LostDamagedModel
	if err := db.Where("lost_damaged_book_id = ?", id).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, lostdamaged.ErrRecordNotFound.WithDetails(map[string]any{"lost_damaged_book_id": id})
		}
		return nil, apperrors.WrapDB(err, "query lost/damaged record failed")
	}
	return toLostDamagedEntity(&model), nil
}

func (r *lostDamagedRepository) FindByBook(ctx context.Context, bookID string) (*lostdamaged.Record, error) {
	var model LostDamagedModel
	if err := conn(ctx, r.db).Where("book_id = ?", bookID).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "query lost/damaged record failed")
	}
	return toLostDamagedEntity(&model), nil
}

func (r *lostDamagedRepository) Update(ctx context.Context, rec *lostdamaged.Record) error {
	model := toLostDamagedModel(rec)
	if err := conn(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.WrapDB(err, "update lost/damaged record failed")
	}
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *lostDamagedRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("lost_damaged_book_id = ?", id).Delete(&LostDamagedModel{})
	if res.Error != nil {
		return apperrors.WrapDB(res.Error, "delete lost/damaged record failed")
	}
	if res.RowsAffected == 0 {
		return lostdamaged.ErrRecordNotFound.WithDetails(map[string]any{"lost_damaged_book_id": id})
	}
	return nil
}

func (r *lostDamagedRepository) List(ctx context.Context) ([]*lostdamaged.Record, error) {
	var models []LostDamagedModel
	if err := conn(ctx, r.db).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "list lost/damaged records failed")
	}
	records := make([]*lostdamaged.Record, len(models))
	for i := range models {
		records[i] = toLostDamagedEntity(&models[i])
	}
	return records, nil
}

func toLostDamagedModel(r *lostdamaged.Record) *LostDamagedModel {
	return &LostDamagedModel{
		ID:        r.ID,
		BookID:    r.BookID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toLostDamagedEntity(m *LostDamagedModel) *lostdamaged.Record {
	return &lostdamaged.Record{
		ID:        m.ID,
		BookID:    m.BookID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
