package dto

// CreateBookRequest 新增图书
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"The Go Programming Language"`
	ISBN        string `json:"isbn" binding:"required,max=20" example:"9780134190440"`
	Author      string `json:"author" binding:"required,max=100" example:"Alan Donovan"`
	Publication string `json:"publication" binding:"required,max=100" example:"Addison-Wesley"`
	Category    string `json:"category" binding:"required,category" example:"Programming Languages"`
	Quantity    *int   `json:"quantity" binding:"required,min=0" example:"3"`
}

// UpdateBookRequest 部分更新，未提供的字段保持不变
type UpdateBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	ISBN        *string `json:"isbn" binding:"omitempty,min=1,max=20"`
	Author      *string `json:"author" binding:"omitempty,min=1,max=100"`
	Publication *string `json:"publication" binding:"omitempty,min=1,max=100"`
	Category    *string `json:"category" binding:"omitempty,category"`
	Quantity    *int    `json:"quantity" binding:"omitempty,min=0"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"go"`
	Category string `form:"category" binding:"omitempty,category"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=title_asc quantity_desc created_at_desc" example:"title_asc"`
}
