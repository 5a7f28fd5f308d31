package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeReindexHeaders = "tableview:reindex"

// HeadersCacheKey คือ key ใน Redis ที่เก็บรายชื่อคอลัมน์ของ table view
const HeadersCacheKey = "tableview:headers"

type ReindexPayload struct {
	// RecordID ของ record ที่ trigger การ reindex (ใช้แค่ log)
	RecordID string `json:"record_id"`
}

func NewReindexHeadersTask(recordID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReindexPayload{RecordID: recordID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReindexHeaders, payload), nil
}
