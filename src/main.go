package main

import (
	_ "Backend-FormForge/docs"
	"Backend-FormForge/src/database"
	"Backend-FormForge/src/jobs"
	"Backend-FormForge/src/routes"
	"Backend-FormForge/src/seeder"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

// @title        FormForge API
// @version      1.0
// @description  Schema-driven form builder: templates, records, and the table view
// @BasePath     /
func main() {

	// เชื่อมต่อกับ MongoDB
	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}

	// Redis + asynq เป็น optional — ไม่มีก็รันได้ แค่ไม่มี cache/worker
	database.InitRedis()
	database.InitAsynq()
	jobs.StartWorker()

	// seed template ตัวอย่างเมื่อเปิด flag ไว้ใน .env
	if os.Getenv("SEED_SAMPLE_TEMPLATE") == "true" {
		if err := seeder.SeedSampleTemplate(); err != nil {
			log.Println("⚠️ Failed to seed sample template:", err)
		}
	}

	// สร้าง app instance
	app := fiber.New()

	// ✅ เปิดใช้งาน CORS Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false, // ❌ ต้องเป็น false ถ้าใช้ "*"
	}))

	// เปิดใช้งาน Swagger ที่ URL /swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// รวม routes จากแต่ละ module
	routes.InitRoutes(app)

	// get url from .env
	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888" // ใช้ 8888 เป็นค่าเริ่มต้น
	}

	// เริ่มเซิร์ฟเวอร์
	log.Println("Server is running on port " + appURI)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI)))
	if err != nil {
		log.Fatal(err)
	}

}
