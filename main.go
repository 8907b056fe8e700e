package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/embedding/ollama"
	"github.com/gin-gonic/gin"
	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"legalsense/api/handler"
	"legalsense/api/router"
	"legalsense/job"
	"legalsense/logic/chat"
	"legalsense/logic/extract"
	"legalsense/service"
	"legalsense/storage/es"
	"legalsense/storage/milvus"
	"legalsense/storage/postgres"
	"legalsense/vars"
)

func main() {
	ctx := context.Background()
	// 1. 初始化 DB
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		panic(err)
	}
	docRepo := postgres.NewDocumentRepo(db)

	// 2. LLM 模型（可选依赖，返回 nil 就是纯本地模式）
	chatModel := chat.NewChatModel(ctx)
	analyzer := extract.NewAnalyzer(chatModel)

	embedder, err := ollama.NewEmbedder(ctx, &ollama.EmbeddingConfig{
		BaseURL: vars.OLLAMA_PATH,
		Model:   vars.NOMIC,
		Timeout: 60 * time.Second,
	})
	if err != nil {
		panic(err)
	}

	// 3. 创建全局 Milvus Client（复用）
	milvusClient, err := client.NewClient(ctx, client.Config{
		Address: vars.MILVUSADDR,
	})
	if err != nil {
		panic(fmt.Sprintf("Milvus 连接失败:%v", err))
	}
	log.Println("✅ Milvus 全局连接已创建")

	indexer, err := milvus.NewIndexerWithClient(ctx, milvusClient, embedder, vars.COLLECTION)
	if err != nil {
		panic(fmt.Sprintf("Milvus 初始化失败:%v", err))
	}

	esIndexer, err := es.NewESIndexer([]string{vars.ESADDR}, vars.ESINDEX)
	if err != nil {
		panic(err)
	}

	// 启动保留期清理任务
	job.StartCronJob(docRepo, esIndexer, milvusClient)

	// 4. 初始化 Service (业务层)
	docSvc := service.NewDocumentService(docRepo, embedder, indexer, esIndexer)
	analysisSvc := service.NewAnalysisService(docRepo, analyzer)
	qaSvc := service.NewQAService(docRepo, analyzer, milvusClient, embedder)
	searchSvc := service.NewSearchService(docRepo, esIndexer.GetClient())

	// 5. 初始化 Handler (API 层)
	docHandler := handler.NewDocumentHandler(docSvc, analysisSvc, qaSvc, searchSvc, analyzer)

	// 6. 启动 Web Server
	r := gin.Default()
	router.RegisterRoutes(r, docHandler)

	log.Printf("Server running on %s", vars.HTTPADDR)
	r.Run(vars.HTTPADDR)
}
