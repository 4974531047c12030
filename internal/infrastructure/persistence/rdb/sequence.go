package rdb

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ID前缀，同时作为id_sequences表的name
const (
	prefixUser        = "U"
	prefixBook        = "B"
	prefixLoan        = "I"
	prefixPayment     = "P"
	prefixLostDamaged = "LD"
)

// seedSequences 初始化序列行，已存在时保持原值
func seedSequences(db *gorm.DB) error {
	for _, name := range []string{prefixUser, prefixBook, prefixLoan, prefixPayment, prefixLostDamaged} {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&SequenceModel{Name: name}).Error
		if err != nil {
			return fmt.Errorf("seed sequence %s: %w", name, err)
		}
	}
	return nil
}

// nextID 生成下一个前缀ID(U1、U2...)
// 必须在事务中调用: UPDATE先拿到行锁，并发事务会在这里排队，读取到的值各不相同
// 事务回滚时序列值一起回滚，不会留下空洞
func nextID(tx *gorm.DB, name string) (string, error) {
	res := tx.Model(&SequenceModel{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("advance sequence %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("sequence %s not initialized", name)
	}

	var seq SequenceModel
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return "", fmt.Errorf("read sequence %s: %w", name, err)
	}
	return fmt.Sprintf("%s%d", name, seq.Value), nil
}
