package postgres

import (
	"time"
)

// 处理状态
const (
	StatusProcessing = 0
	StatusCompleted  = 1
)

// Document 对应数据库里的 documents 表。
// raw_text 就是对外承诺的 getDocumentText 能力的持久层
type Document struct {
	// DocID 不使用自增 ID，而是上传时生成的 UUID
	DocID       string `gorm:"column:doc_id;primaryKey;type:uuid"`
	FileName    string `gorm:"column:file_name;type:varchar(255);not null"`
	Title       string `gorm:"column:title;type:varchar(255)"`
	Language    string `gorm:"column:language;type:varchar(8);default:en"`
	ContentType string `gorm:"column:content_type;type:varchar(100)"`
	RawText     string `gorm:"column:raw_text;type:text"`
	WordCount   int    `gorm:"column:word_count"`
	PageCount   int    `gorm:"column:page_count"`
	Status      int    `gorm:"column:status;type:smallint;default:1"`

	UploadedAt time.Time `gorm:"column:uploaded_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName 强制指定表名
func (Document) TableName() string {
	return "documents"
}
