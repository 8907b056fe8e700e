package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/indexer/milvus"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// NewIndexer 独立创建连接的版本（测试/脚本用）
func NewIndexer(ctx context.Context, embedder embedding.Embedder, milvusAddr string, collectionName string) (indexer.Indexer, error) {
	fmt.Printf(">>> [Milvus] 正在连接: %s ...\n", milvusAddr)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cli, err := client.NewClient(connectCtx, client.Config{
		Address: milvusAddr,
	})
	if err != nil {
		return nil, fmt.Errorf("连接milvus失败: %v", err)
	}
	fmt.Println(">>> [Milvus] 连接成功")
	return NewIndexerWithClient(ctx, cli, embedder, collectionName)
}

// NewIndexerWithClient 使用外部创建的 Client（全局复用连接）
func NewIndexerWithClient(ctx context.Context, cli client.Client, embedder embedding.Embedder, collectionName string) (indexer.Indexer, error) {
	// 先探一次 embedding 拿到真实维度，Collection Schema 必须和它一致
	vecs, err := embedder.EmbedStrings(ctx, []string{"test"})
	if err != nil {
		return nil, fmt.Errorf("embedder check failed: %v", err)
	}
	dim := len(vecs[0])

	fields := []*entity.Field{
		{
			Name:       "id", // 主键，chunk 的 UUID
			DataType:   entity.FieldTypeVarChar,
			PrimaryKey: true,
			AutoID:     false,
			TypeParams: map[string]string{"max_length": "64"},
		},
		{
			Name:       "doc_id", // 文档全局 id
			DataType:   entity.FieldTypeVarChar,
			AutoID:     false,
			TypeParams: map[string]string{"max_length": "64"},
		},
		{
			Name:       "vector",
			DataType:   entity.FieldTypeFloatVector,
			TypeParams: map[string]string{"dim": fmt.Sprintf("%d", dim)},
		},
		{
			Name:       "content",
			DataType:   entity.FieldTypeVarChar,
			TypeParams: map[string]string{"max_length": "65535"},
		},
		{
			Name: "language", DataType: entity.FieldTypeVarChar,
			TypeParams: map[string]string{"max_length": "8"},
		},
		{
			Name: "uploaded_at", DataType: entity.FieldTypeInt64, // Unix 时间戳
		},
		{
			Name:     "metadata",
			DataType: entity.FieldTypeJSON,
		},
	}

	converter := func(ctx context.Context, docs []*schema.Document, vectors [][]float64) ([]interface{}, error) {
		rows := make([]interface{}, len(docs))
		for i, doc := range docs {
			// 向量: float64 -> float32
			vec32 := make([]float32, len(vectors[i]))
			for j, v := range vectors[i] {
				vec32[j] = float32(v)
			}

			var docID, language string
			var uploadedAt int64
			if doc.MetaData != nil {
				if val, ok := doc.MetaData["doc_id"].(string); ok {
					docID = val
				}
				if val, ok := doc.MetaData["language"].(string); ok {
					language = val
				}
				if val, ok := doc.MetaData["uploaded_at"]; ok {
					if t, ok := val.(time.Time); ok {
						uploadedAt = t.Unix()
					} else if tInt, ok := val.(int64); ok {
						uploadedAt = tInt
					}
				}
			}
			if doc.MetaData == nil {
				doc.MetaData = make(map[string]interface{})
			}
			metaBytes, err := json.Marshal(doc.MetaData)
			if err != nil {
				metaBytes = []byte("{}")
			}

			rows[i] = map[string]interface{}{
				"id":          doc.ID,
				"doc_id":      docID,
				"vector":      vec32,
				"content":     doc.Content,
				"language":    language,
				"uploaded_at": uploadedAt,
				"metadata":    metaBytes,
			}
		}
		return rows, nil
	}

	idx, err := milvus.NewIndexer(ctx, &milvus.IndexerConfig{
		Client:            cli,
		Collection:        collectionName,
		Embedding:         embedder,
		Fields:            fields,
		DocumentConverter: converter,
		MetricType:        milvus.L2,
	})
	if err != nil {
		return nil, fmt.Errorf("[NewIndexer] 建表失败: %v", err)
	}

	// 换成 HNSW 向量索引。先 Release 才能动索引
	_ = cli.ReleaseCollection(ctx, collectionName)
	if err := cli.DropIndex(ctx, collectionName, "vector"); err != nil {
		fmt.Printf(">>> [Milvus] DropIndex 提示: %v\n", err)
	}

	hnswIdx, _ := entity.NewIndexHNSW(entity.L2, 16, 200)
	if err := cli.CreateIndex(ctx, collectionName, "vector", hnswIdx, false); err != nil {
		return nil, fmt.Errorf("创建 HNSW 向量索引失败: %v", err)
	}

	// doc_id 标量索引，QA 上下文检索按文档过滤要用
	if err := cli.CreateIndex(ctx, collectionName, "doc_id", entity.NewScalarIndex(), false); err != nil {
		return nil, fmt.Errorf("创建 doc_id 索引失败: %v", err)
	}

	if err := cli.LoadCollection(ctx, collectionName, false); err != nil {
		return nil, fmt.Errorf("Load Collection 失败: %v", err)
	}

	fmt.Println(">>> [Milvus] 索引就绪")
	return idx, nil
}
