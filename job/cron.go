package job

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/robfig/cron/v3"

	"legalsense/storage/es"
	"legalsense/storage/milvus"
	"legalsense/storage/postgres"
	"legalsense/vars"
)

// StartCronJob 启动保留期清理任务。每天凌晨 2 点跑一次，
// 删掉超过保留期的文档：PG 记录、ES 切片、Milvus 向量一起清
func StartCronJob(pgRepo *postgres.DocumentRepo, esIndexer *es.ESIndexer, milvusCli client.Client) {
	days, err := strconv.Atoi(vars.RETENTIONDAYS)
	if err != nil || days <= 0 {
		days = 180
	}

	c := cron.New()

	_, _ = c.AddFunc("0 2 * * *", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -days)

		docIDs, err := pgRepo.ListUploadedBefore(ctx, cutoff)
		if err != nil {
			fmt.Println("[Cron] Error:", err)
			return
		}
		if len(docIDs) == 0 {
			return
		}

		purged := 0
		for _, docID := range docIDs {
			if esIndexer != nil {
				if err := esIndexer.DeleteByDocID(ctx, docID); err != nil {
					fmt.Printf("[Cron] ES 清理失败 %s: %v\n", docID, err)
				}
			}
			if milvusCli != nil {
				if err := milvus.DeleteByDocID(ctx, milvusCli, docID); err != nil {
					fmt.Printf("[Cron] Milvus 清理失败 %s: %v\n", docID, err)
				}
			}
			if err := pgRepo.Delete(ctx, docID); err != nil {
				fmt.Printf("[Cron] PG 清理失败 %s: %v\n", docID, err)
				continue
			}
			purged++
		}
		fmt.Printf("[Cron] 清理了 %d 份超过 %d 天的文档\n", purged, days)
	})

	c.Start()
}
