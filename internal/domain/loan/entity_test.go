package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNewLoan(t *testing.T) {
	now := time.Date(2025, 4, 1, 18, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	l := NewLoan("U1", "B1", now, DefaultPolicy())

	assert.Equal(t, day("2025-04-01"), l.IssueDate, "只保留日期部分")
	assert.Equal(t, day("2025-04-16"), l.DueDate)
	assert.Equal(t, StateOpen, l.State())
	assert.Nil(t, l.ReturnDate)
}

func TestReturn(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		name       string
		returnDate time.Time
		late       bool
		err        error
	}{
		{name: "当天归还", returnDate: day("2025-04-01"), late: false},
		{name: "应还日归还不算逾期", returnDate: day("2025-04-16"), late: false},
		{name: "应还日当天晚些时候", returnDate: day("2025-04-16").Add(23 * time.Hour), late: false},
		{name: "逾期一天", returnDate: day("2025-04-17"), late: true},
		{name: "逾期五天", returnDate: day("2025-04-21"), late: true},
		{name: "早于借出日", returnDate: day("2025-03-31"), err: ErrReturnBeforeIssue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLoan("U1", "B1", day("2025-04-01"), policy)
			late, err := l.Return(tc.returnDate)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.False(t, l.Returned, "失败时不修改状态")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.late, late)
			assert.True(t, l.Returned)
			assert.Equal(t, StateReturned, l.State())
			require.NotNil(t, l.ReturnDate)
			assert.Equal(t, DateOf(tc.returnDate), *l.ReturnDate)
		})
	}
}

func TestReturnTwice(t *testing.T) {
	l := NewLoan("U1", "B1", day("2025-04-01"), DefaultPolicy())
	_, err := l.Return(day("2025-04-02"))
	require.NoError(t, err)

	_, err = l.Return(day("2025-04-03"))
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, day("2025-04-02"), *l.ReturnDate)
}

func TestRenew(t *testing.T) {
	policy := DefaultPolicy()
	l := NewLoan("U1", "B1", day("2025-04-01"), policy)

	require.NoError(t, l.Renew(day("2025-04-10"), policy))
	assert.Equal(t, day("2025-04-25"), l.DueDate)
	assert.Equal(t, day("2025-04-01"), l.IssueDate)

	_, err := l.Return(day("2025-04-20"))
	require.NoError(t, err)
	assert.ErrorIs(t, l.Renew(day("2025-04-21"), policy), ErrAlreadyReturned)
}

func TestIsOverdue(t *testing.T) {
	l := NewLoan("U1", "B1", day("2025-04-01"), DefaultPolicy())
	assert.False(t, l.IsOverdue(day("2025-04-16")))
	assert.True(t, l.IsOverdue(day("2025-04-17")))

	_, _ = l.Return(day("2025-04-20"))
	assert.False(t, l.IsOverdue(day("2025-05-01")), "已归还不算逾期")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-04-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-28", FormatDate(d))

	_, err = ParseDate("28/04/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestIsOwnedBy(t *testing.T) {
	l := &Loan{UserID: "U1"}
	assert.True(t, l.IsOwnedBy("U1"))
	assert.False(t, l.IsOwnedBy("U2"))
}
