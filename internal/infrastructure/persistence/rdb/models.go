package rdb

import (
	"time"

	"github.com/shopspring/decimal"
)

// 以下是infrastructure层的数据模型，包含GORM tag
// 领域实体不依赖GORM，由各Repository负责两者之间的转换
// 表名、列名沿用原有库表(users.user_id、books.publication、issue_records等)

// SequenceModel 前缀ID序列(U、B、I、P、LD)
type SequenceModel struct {
	Name  string `gorm:"primaryKey;size:8"`
	Value int64  `gorm:"not null;default:0"`
}

func (SequenceModel) TableName() string {
	return "id_sequences"
}

// UserModel 用户
type UserModel struct {
	ID        string    `gorm:"column:user_id;primaryKey;size:20"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"`
	Password  string    `gorm:"size:255;not null"`
	Name      string    `gorm:"size:100;not null"`
	Phone     *string   `gorm:"size:30"`
	Kind      string    `gorm:"index;size:10;not null;default:STUDENT"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel 图书
// quantity为当前可借数量
type BookModel struct {
	ID          string `gorm:"column:book_id;primaryKey;size:20"`
	Title       string `gorm:"index:idx_books_search;size:255;not null"`
	ISBN        string `gorm:"column:isbn;uniqueIndex;size:20;not null"`
	Author      string `gorm:"index:idx_books_search;size:255;not null"`
	Publication string `gorm:"size:255;not null"`
	Category    string `gorm:"index;size:100;not null"`
	Quantity    int    `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (BookModel) TableName() string {
	return "books"
}

// LoanModel 借阅记录
// 日期列只保存日期部分
type LoanModel struct {
	ID         string     `gorm:"column:issue_record_id;primaryKey;size:20"`
	UserID     string     `gorm:"index;size:20;not null"`
	BookID     string     `gorm:"index:idx_issue_book_open;size:20;not null"`
	IssueDate  time.Time  `gorm:"type:date;index;not null"`
	DueDate    time.Time  `gorm:"type:date;not null"`
	ReturnDate *time.Time `gorm:"type:date"`
	Returned   bool       `gorm:"index:idx_issue_book_open;not null;default:false"`
	PaymentID  *string    `gorm:"size:20"`
}

func (LoanModel) TableName() string {
	return "issue_records"
}

// PaymentModel 付款/罚款
type PaymentModel struct {
	ID            string          `gorm:"column:payment_id;primaryKey;size:20"`
	UserID        string          `gorm:"index:idx_payments_user_status;size:20;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        string          `gorm:"index:idx_payments_user_status;size:10;not null;default:PENDING"`
	Description   string          `gorm:"size:255"`
	PaymentMethod *string         `gorm:"size:50"`
	TransactionID *string         `gorm:"size:100"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}

// LostDamagedModel 遗失/损坏登记，每本书一条
type LostDamagedModel struct {
	ID        string `gorm:"column:lost_damaged_book_id;primaryKey;size:20"`
	BookID    string `gorm:"uniqueIndex;size:20;not null"`
	Quantity  int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LostDamagedModel) TableName() string {
	return "lost_damaged_books"
}
