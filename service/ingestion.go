package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/semantic"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"legalsense/storage/es"
	"legalsense/storage/postgres"
	"legalsense/types"
)

// 上传侧的纯管道：拿文本、存库、切分、建索引。
// 这里没有分析决策逻辑，分析在 AnalysisService

var controlChars = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F\x7F]`)
var spaceRuns = regexp.MustCompile(`[ \t]+`)
var newlineRuns = regexp.MustCompile(`\n{3,}`)

// cleanText 清洗文本。只折叠行内空白，保留换行——
// 本地条款提取按行首模式匹配标题，压掉换行会匹配不到
func cleanText(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

type DocumentService struct {
	repo      *postgres.DocumentRepo
	embedder  embedding.Embedder
	indexer   indexer.Indexer
	esIndexer *es.ESIndexer
}

// 构造函数：依赖注入
func NewDocumentService(repo *postgres.DocumentRepo, embedder embedding.Embedder, idx indexer.Indexer, esIndexer *es.ESIndexer) *DocumentService {
	return &DocumentService{
		repo:      repo,
		embedder:  embedder,
		indexer:   idx,
		esIndexer: esIndexer,
	}
}

// UploadAndProcess 处理单个上传文件：文本提取 -> PG 持久化 ->
// 语义切分 -> ES/Milvus 索引。任何一步失败都回滚之前的写入
func (s *DocumentService) UploadAndProcess(ctx context.Context, fileHeader *multipart.FileHeader, language types.LanguageCode) (string, error) {
	startTime := time.Now()

	srcFile, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer srcFile.Close()

	text, err := s.extractText(ctx, srcFile, fileHeader.Filename)
	if err != nil {
		return "", err
	}
	text = cleanText(text)
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", fileHeader.Filename)
	}
	log.Printf(">>> [性能] 文本提取耗时: %v", time.Since(startTime))

	// 查重：同名文件直接复用已有文档
	if existing, err := s.repo.GetByFileName(ctx, fileHeader.Filename); err == nil {
		log.Printf(">>> [DEBUG] 文件已存在，复用 DocID=%s", existing.DocID)
		return existing.DocID, nil
	}

	docID := uuid.New().String()
	now := time.Now()
	wordCount := len(strings.Fields(text))

	err = s.repo.Create(ctx, &postgres.Document{
		DocID:       docID,
		FileName:    fileHeader.Filename,
		Title:       deriveTitle(text, fileHeader.Filename),
		Language:    string(language),
		ContentType: fileHeader.Header.Get("Content-Type"),
		RawText:     text,
		WordCount:   wordCount,
		PageCount:   wordCount/500 + 1,
		Status:      postgres.StatusCompleted,
		UploadedAt:  now,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", fmt.Errorf("postgresql存储失败: %w", err)
	}

	// 语义切分
	splitter, err := semantic.NewSplitter(ctx, &semantic.Config{
		Embedding:    s.embedder,
		BufferSize:   5,
		MinChunkSize: 200,
		Separators:   []string{"\n\n", "\n", ". ", "! ", "? "},
		LenFunc: func(s string) int {
			return len([]rune(s))
		},
		Percentile: 0.85,
	})
	if err != nil {
		_ = s.repo.Delete(ctx, docID)
		return "", fmt.Errorf("切分器初始化失败，已回滚PG记录: %w", err)
	}

	splitStart := time.Now()
	doc := &schema.Document{
		Content: text,
		MetaData: map[string]any{
			file.MetaKeyFileName: fileHeader.Filename,
		},
	}
	chunks, err := splitter.Transform(ctx, []*schema.Document{doc})
	if err != nil {
		_ = s.repo.Delete(ctx, docID)
		return "", fmt.Errorf("切分失败，已回滚PG记录: %w", err)
	}
	log.Printf(">>> [性能] 语义切分耗时: %v, 切分出 %d 个 chunk", time.Since(splitStart), len(chunks))

	var cleanChunks []*schema.Document
	for _, chunk := range chunks {
		chunk.Content = strings.TrimSpace(chunk.Content)
		if chunk.Content == "" {
			continue
		}
		chunk.ID = uuid.New().String()
		chunk.MetaData = map[string]any{
			"doc_id":      docID,
			"file_name":   fileHeader.Filename,
			"title":       deriveTitle(text, fileHeader.Filename),
			"language":    string(language),
			"uploaded_at": now,
		}
		cleanChunks = append(cleanChunks, chunk)
	}
	if len(cleanChunks) == 0 {
		// 文本全被清洗掉了，留 PG 记录但不建索引
		log.Printf(">>> [DEBUG] 空 chunks，跳过索引: %s", fileHeader.Filename)
		return docID, nil
	}

	// ES 存储
	esStart := time.Now()
	if err := s.esIndexer.Store(ctx, docID, cleanChunks); err != nil {
		_ = s.repo.Delete(ctx, docID)
		return "", fmt.Errorf("es存储失败，已回滚PG记录: %w", err)
	}
	log.Printf(">>> [性能] ES 存储耗时: %v", time.Since(esStart))

	// 向量化存储
	milvusStart := time.Now()
	if _, err := s.indexer.Store(ctx, cleanChunks); err != nil {
		_ = s.repo.Delete(ctx, docID)
		_ = s.esIndexer.DeleteByDocID(ctx, docID)
		return "", fmt.Errorf("milvus存储失败，已回滚PG和ES记录: %w", err)
	}
	log.Printf(">>> [性能] Milvus 存储耗时: %v", time.Since(milvusStart))

	log.Printf(">>> [性能] 文档 %s 总耗时: %v", fileHeader.Filename, time.Since(startTime))
	return docID, nil
}

// extractText 按扩展名选择解析方式。PDF 走 eino 解析器，
// 纯文本直接读。其他格式（docx/扫描件 OCR）不在这层处理
func (s *DocumentService) extractText(ctx context.Context, r io.Reader, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		p, err := pdf.NewPDFParser(ctx, &pdf.Config{ToPages: false})
		if err != nil {
			return "", fmt.Errorf("init pdf parser failed: %w", err)
		}
		docs, err := p.Parse(ctx, r, parser.WithURI(filename))
		if err != nil {
			return "", fmt.Errorf("parse pdf failed: %w", err)
		}
		var b strings.Builder
		for _, d := range docs {
			b.WriteString(d.Content)
			b.WriteString("\n")
		}
		return b.String(), nil
	case ".txt", ".md":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filename)
	}
}

// GetDocument 查询文档元信息
func (s *DocumentService) GetDocument(ctx context.Context, docID string) (*postgres.Document, error) {
	return s.repo.GetByDocID(ctx, docID)
}

// DeleteDocument 删除 PG 记录和 ES 切片
func (s *DocumentService) DeleteDocument(ctx context.Context, docID string) error {
	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}
	if err := s.esIndexer.DeleteByDocID(ctx, docID); err != nil {
		log.Printf(">>> [DEBUG] ES 切片删除失败（PG 已删）: %v", err)
	}
	return nil
}

// deriveTitle 取第一行非空文本当标题，太长就截断
func deriveTitle(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len([]rune(line)) > 80 {
				line = string([]rune(line)[:80])
			}
			return line
		}
	}
	return fallback
}
