package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

const bookPrefix = "book:"

// BookCache 图书详情缓存 book:{book_id}
// 写操作后由用例删除对应key，读取时回填
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, cfg *config.Config) *BookCache {
	return &BookCache{client: client, ttl: cfg.Redis.BookCacheTTL}
}

type cachedBook struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ISBN      string    `json:"isbn"`
	Author    string    `json:"author"`
	Publisher string    `json:"publisher"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get 未命中时返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id string) (*book.Book, error) {
	raw, err := c.client.Get(ctx, bookPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, redisError(err, "read book cache failed")
	}

	var cb cachedBook
	if err := json.Unmarshal(raw, &cb); err != nil {
		// 格式不兼容的旧数据直接丢弃
		_ = c.client.Del(ctx, bookPrefix+id).Err()
		return nil, nil
	}
	return &book.Book{
		ID:        cb.ID,
		Title:     cb.Title,
		ISBN:      cb.ISBN,
		Author:    cb.Author,
		Publisher: cb.Publisher,
		Category:  cb.Category,
		Quantity:  cb.Quantity,
		CreatedAt: cb.CreatedAt,
		UpdatedAt: cb.UpdatedAt,
	}, nil
}

func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	raw, err := json.Marshal(cachedBook{
		ID:        b.ID,
		Title:     b.Title,
		ISBN:      b.ISBN,
		Author:    b.Author,
		Publisher: b.Publisher,
		Category:  b.Category,
		Quantity:  b.Quantity,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, bookPrefix+b.ID, raw, c.ttl).Err(); err != nil {
		return redisError(err, "write book cache failed")
	}
	return nil
}

func (c *BookCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, bookPrefix+id).Err(); err != nil {
		return redisError(err, "invalidate book cache failed")
	}
	return nil
}
