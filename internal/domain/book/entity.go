package book

// Book 图书实体
// 设计说明:
// 1. ID由存储引擎在创建时分配,之后不可变
// 2. Title、Author持久化后永远不为NULL
// 3. 实体不依赖GORM,持久化模型在infrastructure层单独定义
type Book struct {
	ID     uint
	Title  string
	Author string
	Year   int
}

// NewBook 创建新图书(工厂方法)
// ID留空,由Repository.Create回填
func NewBook(title, author string, year int) *Book {
	return &Book{
		Title:  title,
		Author: author,
		Year:   year,
	}
}

// Patch 部分更新
// nil表示请求中没有该字段(保留原值),非nil表示显式赋值(包括空字符串和0)
type Patch struct {
	Title  *string
	Author *string
	Year   *int
}

// IsEmpty 请求中没有任何可更新字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil
}

// Apply 逐字段合并到实体(领域行为)
func (b *Book) Apply(p Patch) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
}
