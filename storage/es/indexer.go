package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

// GetClient 返回 ES 客户端（用于检索）
func (e *ESIndexer) GetClient() *elasticsearch.Client {
	return e.client
}

// NewESIndexer 初始化 ES 客户端并确保索引存在
func NewESIndexer(addresses []string, indexName string) (*ESIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating the client: %s", err)
	}

	indexer := &ESIndexer{client: client, index: indexName}

	if err := indexer.initMapping(context.Background()); err != nil {
		return nil, err
	}

	return indexer, nil
}

func (e *ESIndexer) initMapping(ctx context.Context) error {
	// 已存在就跳过
	res, err := e.client.Indices.Exists([]string{e.index})
	if err != nil {
		return err
	}
	if res.StatusCode == 200 {
		return nil
	}

	// 法律文本是英文，content 用 english 分词器
	mapping := `
	{
	  "settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	  },
	  "mappings": {
		"properties": {
		  "doc_id":   { "type": "keyword" },
		  "chunk_id": { "type": "keyword" },
		  "content": {
			"type": "text",
			"analyzer": "english"
		  },
		  "file_name": {
			"type": "text",
			"fields": {
			  "keyword": { "type": "keyword" }
			}
		  },
		  "title": {
			"type": "text",
			"fields": {
			  "keyword": { "type": "keyword" }
			}
		  },
		  "language":    { "type": "keyword" },
		  "uploaded_at": { "type": "date" }
		}
	  }
	}`

	log.Printf(">>> [ES] Creating index %s ...", e.index)
	res, err = e.client.Indices.Create(
		e.index,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("create index error: %v", err)
	}
	if res.IsError() {
		return fmt.Errorf("create index response error: %s", res.String())
	}
	return nil
}

// Store 批量存储切片
func (e *ESIndexer) Store(ctx context.Context, docID string, chunks []*schema.Document) error {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.index,
		Client:        e.client,
		FlushInterval: 1,
	})
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		docModel := map[string]interface{}{
			"doc_id":   docID,
			"chunk_id": chunk.ID,
			"content":  chunk.Content,
		}
		if chunk.MetaData != nil {
			if val, ok := chunk.MetaData["file_name"]; ok {
				docModel["file_name"] = val
			}
			if val, ok := chunk.MetaData["title"]; ok {
				docModel["title"] = val
			}
			if val, ok := chunk.MetaData["language"]; ok {
				docModel["language"] = val
			}
			if val, ok := chunk.MetaData["uploaded_at"]; ok {
				docModel["uploaded_at"] = val
			}
		}

		data, _ := json.Marshal(docModel)

		// ChunkID 作为 ES 的 _id，避免重复写入
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: chunk.ID,
			Body:       strings.NewReader(string(data)),
		})
		if err != nil {
			return err
		}
	}

	return bi.Close(ctx)
}

// DeleteByDocID 删除某个文档的全部切片（删除文档和回滚时共用）
func (e *ESIndexer) DeleteByDocID(ctx context.Context, docID string) error {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"doc_id": docID,
			},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return fmt.Errorf("error encoding query: %s", err)
	}

	res, err := e.client.DeleteByQuery(
		[]string{e.index},
		strings.NewReader(buf.String()),
		e.client.DeleteByQuery.WithContext(ctx),
		e.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return fmt.Errorf("ES delete request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ES delete response error: %s", res.String())
	}

	log.Printf(">>> [ES] 已删除 DocID=%s 的切片", docID)
	return nil
}
