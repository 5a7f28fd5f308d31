package database

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client
var RedisCtx = context.Background()
var RedisURI string

// InitRedis เชื่อมต่อ Redis ถ้ามีการตั้งค่า REDIS_URI
// ไม่มี Redis = dev mode: cache ของ dropdown และ table view ถูกปิดไปเฉย ๆ
func InitRedis() {
	RedisURI = os.Getenv("REDIS_URI")
	if RedisURI == "" {
		log.Println("⚠️ REDIS_URI not set. Running without Redis cache.")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     RedisURI, // เช่น localhost:6379
		Password: "",       // ถ้าไม่มีรหัสผ่าน
		DB:       0,
	})
	_, err := RedisClient.Ping(RedisCtx).Result()
	if err != nil {
		panic("❌ Failed to connect Redis: " + err.Error())
	}
	log.Println("✅ Redis connected successfully")
}
