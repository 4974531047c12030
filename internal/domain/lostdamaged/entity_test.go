package lostdamaged

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	cases := []struct {
		name                        string
		available, current, request int
		delta                       int
		err                         error
	}{
		{name: "新建登记", available: 5, current: 0, request: 2, delta: -2},
		{name: "登记全部可借", available: 5, current: 0, request: 5, delta: -5},
		{name: "超出可借数量", available: 5, current: 0, request: 6, err: ErrExceedsAvailable},
		{name: "在已登记基础上增加", available: 3, current: 2, request: 5, delta: -3},
		{name: "可借为0时仍可保持原登记", available: 0, current: 2, request: 2, delta: 0},
		{name: "减少登记恢复库存", available: 0, current: 4, request: 1, delta: 3},
		{name: "清零", available: 1, current: 4, request: 0, delta: 4},
		{name: "负数", available: 1, current: 0, request: -1, err: ErrInvalidQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			delta, err := Plan(tc.available, tc.current, tc.request)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.delta, delta)
			assert.GreaterOrEqual(t, tc.available+delta, 0, "可借数量不能为负")
		})
	}
}
