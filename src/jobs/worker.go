package jobs

import (
	"context"
	"encoding/json"
	"log"

	"Backend-FormForge/src/database"
	"Backend-FormForge/src/services/records"

	"github.com/hibiken/asynq"
)

// HandleReindexHeadersTask คำนวณรายชื่อคอลัมน์ header ของทุก record ใหม่
// แล้ว cache ลง Redis ให้ table view อ่าน — งานนี้เป็น follow-up หลัง save
// ล้มเหลวได้โดยไม่กระทบข้อมูลที่เขียนไปแล้ว
func HandleReindexHeadersTask(ctx context.Context, t *asynq.Task) error {
	var payload ReindexPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Println("❌ Payload decode error:", err)
		return err
	}

	headers, err := records.ComputeHeaderColumns(ctx)
	if err != nil {
		log.Println("❌ Failed to compute header columns:", err)
		return err
	}

	if database.RedisClient == nil {
		log.Println("⚠️ Redis not available. Skipping header cache update.")
		return nil
	}

	raw, err := json.Marshal(headers)
	if err != nil {
		return err
	}
	if err := database.RedisClient.Set(ctx, HeadersCacheKey, raw, 0).Err(); err != nil {
		log.Println("❌ Failed to cache header columns:", err)
		return err
	}

	log.Printf("✅ Table view headers reindexed (%d columns, triggered by %s)", len(headers), payload.RecordID)
	return nil
}

// StartWorker รัน asynq server ใน goroutine แยก
// ไม่มี Redis = ไม่มี worker — table view คำนวณสดทุกครั้งแทน
func StartWorker() {
	if database.RedisURI == "" {
		log.Println("⚠️ Redis not available. Background worker will not start.")
		return
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: database.RedisURI},
		asynq.Config{Concurrency: 5},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReindexHeaders, HandleReindexHeadersTask)

	go func() {
		if err := srv.Run(mux); err != nil {
			log.Println("❌ Asynq worker stopped:", err)
		}
	}()
}
