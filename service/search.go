package service

import (
	"context"
	"log"

	"github.com/elastic/go-elasticsearch/v8"

	"legalsense/storage/es"
	"legalsense/storage/postgres"
	"legalsense/types"
	"legalsense/vars"
)

// SearchService 全文检索：ES BM25 优先，ES 挂了退 SQL 模糊搜索
type SearchService struct {
	repo     *postgres.DocumentRepo
	esClient *elasticsearch.Client
}

func NewSearchService(repo *postgres.DocumentRepo, esClient *elasticsearch.Client) *SearchService {
	return &SearchService{
		repo:     repo,
		esClient: esClient,
	}
}

// Search 按关键词检索，命中按文档聚合（同文档多个 chunk 只留最高分）
func (s *SearchService) Search(ctx context.Context, query string, language types.LanguageCode) ([]types.SearchHit, error) {
	if s.esClient == nil {
		return s.sqlSearch(ctx, query)
	}

	filter := &es.Filter{}
	if language != "" {
		filter.Language = string(language)
	}

	docs, err := es.Retriever(ctx, s.esClient, vars.ESINDEX, query, filter, 10)
	if err != nil {
		log.Printf(">>> [Search] ES 检索失败，退回 SQL 搜索: %v", err)
		return s.sqlSearch(ctx, query)
	}

	// 聚合：保持分数排序，同一 doc_id 只取第一个 chunk 的摘要
	seen := make(map[string]bool)
	hits := make([]types.SearchHit, 0, len(docs))
	for _, d := range docs {
		docID, _ := d.MetaData["doc_id"].(string)
		if docID == "" || seen[docID] {
			continue
		}
		seen[docID] = true

		fileName, _ := d.MetaData["file_name"].(string)
		title, _ := d.MetaData["title"].(string)

		snippet := d.Content
		if len([]rune(snippet)) > 200 {
			snippet = string([]rune(snippet)[:200]) + "..."
		}

		hits = append(hits, types.SearchHit{
			DocID:    docID,
			FileName: fileName,
			Title:    title,
			Snippet:  snippet,
			Score:    d.Score(),
		})
	}
	return hits, nil
}

// sqlSearch 兜底：文件名/标题 LIKE 搜索，没有相关度分数
func (s *SearchService) sqlSearch(ctx context.Context, query string) ([]types.SearchHit, error) {
	docs, err := s.repo.SearchByKeyword(ctx, query)
	if err != nil {
		return nil, err
	}
	hits := make([]types.SearchHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, types.SearchHit{
			DocID:    d.DocID,
			FileName: d.FileName,
			Title:    d.Title,
		})
	}
	return hits, nil
}
