package milvus

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/retriever/milvus"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"legalsense/vars"
)

// Retriever 在单个文档范围内做语义检索，返回最相关的切片。
// QA 遇到长文档时用它挑上下文，替代把全文塞进 Prompt
func Retriever(ctx context.Context, cli client.Client, query string, docID string, topK int, emb embedding.Embedder) ([]*schema.Document, error) {

	// 自定义 DocumentConverter，把分数带出来
	customConverter := func(ctx context.Context, result client.SearchResult) ([]*schema.Document, error) {
		docs := make([]*schema.Document, result.IDs.Len())
		for i := 0; i < result.IDs.Len(); i++ {
			id, err := result.IDs.GetAsString(i)
			if err != nil {
				return nil, fmt.Errorf("failed to get id: %w", err)
			}

			doc := &schema.Document{
				ID:       id,
				MetaData: make(map[string]any),
			}
			if result.Scores != nil && len(result.Scores) > i {
				doc = doc.WithScore(float64(result.Scores[i]))
			}

			for _, field := range result.Fields {
				switch field.Name() {
				case "content":
					if value, err := field.GetAsString(i); err == nil {
						doc.Content = value
					}
				case "doc_id", "language":
					if value, err := field.GetAsString(i); err == nil {
						doc.MetaData[field.Name()] = value
					}
				case "uploaded_at":
					if value, err := field.GetAsInt64(i); err == nil {
						doc.MetaData[field.Name()] = value
					}
				default:
					continue
				}
			}
			docs[i] = doc
		}
		return docs, nil
	}

	retr, err := milvus.NewRetriever(ctx, &milvus.RetrieverConfig{
		Client:            cli,
		Collection:        vars.COLLECTION,
		VectorField:       "vector",
		OutputFields:      []string{"content", "doc_id"},
		DocumentConverter: customConverter,
		MetricType:        entity.L2,
		TopK:              topK,
		Embedding:         emb,
	})
	if err != nil {
		return nil, fmt.Errorf("init retriever failed: %v", err)
	}

	// 确保 Collection 已加载到内存
	if err := cli.LoadCollection(ctx, vars.COLLECTION, false); err != nil {
		log.Printf(">>> [Milvus] LoadCollection warning: %v", err)
	} else {
		// 最多等 5 秒
		loadDeadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(loadDeadline) {
			loadState, _ := cli.GetLoadState(ctx, vars.COLLECTION, []string{})
			if loadState == 3 { // 3 = LoadStateLoaded
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
	}

	expr := fmt.Sprintf("doc_id == '%s'", docID)
	docs, err := retr.Retrieve(ctx, query, milvus.WithFilter(expr))
	if err != nil {
		return nil, fmt.Errorf("milvus retrieve failed: %v", err)
	}

	return docs, nil
}

// DeleteByDocID 删除某个文档的全部向量
func DeleteByDocID(ctx context.Context, cli client.Client, docID string) error {
	expr := fmt.Sprintf("doc_id == '%s'", docID)
	if err := cli.Delete(ctx, vars.COLLECTION, "", expr); err != nil {
		return fmt.Errorf("milvus delete failed: %v", err)
	}
	return nil
}
