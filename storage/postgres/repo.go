package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound 文档不存在。上层据此返回 404，而不是降级分析
var ErrNotFound = errors.New("document not found")

// DocumentRepo 封装对 documents 表的所有操作
type DocumentRepo struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Create 创建新文档记录
func (r *DocumentRepo) Create(ctx context.Context, doc *Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByDocID 根据 UUID 查询文档详情
func (r *DocumentRepo) GetByDocID(ctx context.Context, docID string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).
		Where("doc_id = ?", docID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByFileName 根据文件名查重
func (r *DocumentRepo) GetByFileName(ctx context.Context, filename string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).
		Where("file_name = ?", filename).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetText 对外的核心协作能力：文档 ID -> 纯文本内容
func (r *DocumentRepo) GetText(ctx context.Context, docID string) (string, error) {
	var doc Document
	err := r.db.WithContext(ctx).
		Select("raw_text").
		Where("doc_id = ?", docID).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if doc.RawText == "" {
		// 行存在但没有文本，等价于"没有可分析的东西"
		return "", ErrNotFound
	}
	return doc.RawText, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, docID string) error {
	result := r.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&Document{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByKeyword 简单的 SQL 模糊搜索（ES 不可用时的兜底）
func (r *DocumentRepo) SearchByKeyword(ctx context.Context, keyword string) ([]Document, error) {
	var results []Document
	pattern := "%" + keyword + "%"
	err := r.db.WithContext(ctx).
		Where("file_name LIKE ? OR title LIKE ?", pattern, pattern).
		Limit(10).
		Find(&results).Error
	return results, err
}

// ListUploadedBefore 找出超过保留期的文档，供定时清理任务使用
func (r *DocumentRepo) ListUploadedBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	var docIDs []string
	err := r.db.WithContext(ctx).
		Model(&Document{}).
		Select("doc_id").
		Where("uploaded_at < ?", cutoff).
		Find(&docIDs).Error
	return docIDs, err
}
