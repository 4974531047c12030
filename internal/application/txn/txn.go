// Package txn 事务边界与提交后钩子
//
// 用例通过Manager获得"作用域事务"能力，而不是自己持有数据库连接。
// 需要在提交之后执行的副作用(发送通知等)登记为钩子，只有事务成功提交才会执行，
// 每个钩子独立运行，失败只记录日志，不影响其他钩子和调用方。
package txn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/library/pkg/metrics"
)

// HookTimeout 单个钩子的最长执行时间
const HookTimeout = 5 * time.Second

// Manager 作用域事务
// fn返回error时回滚，返回nil时提交；fn内的仓储调用通过ctx共享同一事务
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// Hooks 提交后钩子列表
type Hooks struct {
	list []hook
}

// OnCommit 登记提交后执行的钩子，按登记顺序执行
func (h *Hooks) OnCommit(name string, fn func(ctx context.Context) error) {
	h.list = append(h.list, hook{name: name, fn: fn})
}

// Len 已登记的钩子数
func (h *Hooks) Len() int {
	return len(h.list)
}

// Do 在事务中执行fn，提交成功后依次执行fn登记的钩子
// 回滚时钩子被丢弃；钩子的错误不会改变Do的返回值
func Do(ctx context.Context, m Manager, log *slog.Logger, fn func(ctx context.Context, hooks *Hooks) error) error {
	hooks := &Hooks{}
	err := m.Transaction(ctx, func(ctx context.Context) error {
		// 事务重试时不能保留上一次登记的钩子
		hooks.list = hooks.list[:0]
		return fn(ctx, hooks)
	})
	if err != nil {
		return err
	}

	// 请求结束或取消不应打断已提交事务的后续通知
	base := context.WithoutCancel(ctx)
	for _, h := range hooks.list {
		runHook(base, log, h)
	}
	return nil
}

func runHook(ctx context.Context, log *slog.Logger, h hook) {
	ctx, cancel := context.WithTimeout(ctx, HookTimeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return h.fn(ctx)
	}()
	if err != nil {
		metrics.InitMetrics()
		metrics.IncCounterVec(metrics.PostCommitHookFailuresTotal, map[string]string{"hook": h.name})
		log.ErrorContext(ctx, "post-commit hook failed",
			slog.String("hook", h.name),
			slog.Any("error", err),
		)
	}
}
