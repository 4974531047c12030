// Package lostdamaged 遗失/损坏图书登记
//
// 每本书最多一条记录，记录数量表示当前被移出流通的册数。
// 修改记录时图书可借数量按差值(新数量-旧数量)调整。
package lostdamaged

import (
	"time"
)

// Record 遗失/损坏登记，ID形如LD1
type Record struct {
	ID        string
	BookID    string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord 创建登记
func NewRecord(bookID string, quantity int) *Record {
	now := time.Now()
	return &Record{
		BookID:    bookID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Plan 计算把登记数量改为newQuantity时图书数量的变化
// 返回值是应施加到图书可借数量上的delta(登记增加则图书减少)
// available是图书当前可借数量，current是当前登记数量(新建时为0)
func Plan(available, current, newQuantity int) (int, error) {
	if newQuantity < 0 {
		return 0, ErrInvalidQuantity
	}
	if newQuantity-current > available {
		return 0, ErrExceedsAvailable.WithDetails(map[string]any{
			"available_quantity": available,
			"recorded_quantity":  current,
			"requested_quantity": newQuantity,
		})
	}
	return current - newQuantity, nil
}

// SetQuantity 修改登记数量
func (r *Record) SetQuantity(q int) {
	r.Quantity = q
	r.UpdatedAt = time.Now()
}
