package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Policy 借阅策略
type Policy struct {
	// LoanDays 借期(天)，续借同样重置为该天数
	LoanDays int
	// FineAmount 每次逾期归还的固定罚款
	FineAmount decimal.Decimal
	// RestockOnReturn 归还时是否恢复可借数量
	RestockOnReturn bool
}

// DefaultPolicy 15天借期，逾期罚款10.00，归还不恢复库存
func DefaultPolicy() Policy {
	return Policy{
		LoanDays:   15,
		FineAmount: decimal.RequireFromString("10.00"),
	}
}

// DueDate 从给定日期起算的应还日期
func (p Policy) DueDate(from time.Time) time.Time {
	return DateOf(from).AddDate(0, 0, p.LoanDays)
}

// DateOf 取日期部分，归一化为UTC零点
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate.WithDetails(map[string]any{
			"received": s,
			"example":  "2025-04-28",
		})
	}
	return t, nil
}

// FormatDate 格式化为YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
