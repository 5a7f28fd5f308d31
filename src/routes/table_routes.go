package routes

import (
	"Backend-FormForge/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// TableRoutes กำหนดเส้นทางสำหรับ records (table entries)
func TableRoutes(app *fiber.App) {
	tables := app.Group("/tables")

	tables.Post("/", controllers.CreateTable)      // บันทึก record ใหม่
	tables.Get("/", controllers.GetAllTables)      // ดึง records ทั้งหมด
	tables.Get("/view", controllers.GetTableView)  // overview grid ของทุก record
	tables.Get("/:id", controllers.GetTableByID)   // ดึง record ตาม ID
	tables.Put("/:id", controllers.UpdateTable)    // เขียนทับทั้ง record
	tables.Delete("/:id", controllers.DeleteTable) // ลบ record

	// การแก้ไขราย field / cell / row ผ่าน binding engine
	tables.Patch("/:id/field", controllers.EditTableField)
	tables.Patch("/:id/cell", controllers.EditTableCell)
	tables.Post("/:id/rows", controllers.AddTableRow)
}
