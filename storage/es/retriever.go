package es

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Filter ES 检索的过滤条件
type Filter struct {
	DocIDs   []string // 限定文档范围（QA 上下文检索用）
	Language string
}

// Retriever 执行 BM25 检索，返回带分数的 chunk 文档
func Retriever(ctx context.Context, client *elasticsearch.Client, index string, query string, filters *Filter, topK int) ([]*schema.Document, error) {
	esQuery := buildESQuery(query, filters, topK)

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("error encoding query: %s", err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(buf.String()),
	}

	res, err := req.Do(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("error getting response: %s", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error response: %s", res.String())
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing response body: %s", err)
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid response format")
	}
	hitsList, ok := hits["hits"].([]interface{})
	if !ok {
		return []*schema.Document{}, nil // 无结果
	}

	docs := make([]*schema.Document, 0, len(hitsList))
	for _, hit := range hitsList {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		id, _ := hitMap["_id"].(string)
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}

		var score float64
		if scoreVal, ok := hitMap["_score"].(float64); ok {
			score = scoreVal
		}

		doc := &schema.Document{
			ID:      id,
			Content: toString(source["content"]),
			MetaData: map[string]any{
				"doc_id":    toString(source["doc_id"]),
				"file_name": toString(source["file_name"]),
				"title":     toString(source["title"]),
			},
		}
		doc = doc.WithScore(score)
		docs = append(docs, doc)
	}

	return docs, nil
}

// buildESQuery 构建 ES 查询语句（BM25 + 过滤）
func buildESQuery(query string, filters *Filter, topK int) map[string]interface{} {
	mustQueries := []map[string]interface{}{
		{
			"match": map[string]interface{}{
				"content": map[string]interface{}{
					"query": query,
				},
			},
		},
	}

	var filterQueries []map[string]interface{}
	if filters != nil {
		if len(filters.DocIDs) > 0 {
			filterQueries = append(filterQueries, map[string]interface{}{
				"terms": map[string]interface{}{
					"doc_id": filters.DocIDs,
				},
			})
		}
		if filters.Language != "" {
			filterQueries = append(filterQueries, map[string]interface{}{
				"term": map[string]interface{}{
					"language": filters.Language,
				},
			})
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   mustQueries,
				"filter": filterQueries,
			},
		},
		"size": topK,
	}
}

// toString 安全地将任意类型转为 string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", v)
}
