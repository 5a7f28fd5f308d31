package routes

import (
	"Backend-FormForge/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// FormRoutes กำหนดเส้นทางสำหรับ template CRUD และ tree editor
func FormRoutes(app *fiber.App) {
	forms := app.Group("/forms")

	forms.Post("/", controllers.CreateForm)      // สร้าง template เปล่า
	forms.Get("/", controllers.GetAllForms)      // ดึง template ทั้งหมด
	forms.Get("/:id", controllers.GetFormByID)   // ดึง template ตาม ID
	forms.Delete("/:id", controllers.DeleteForm) // ลบ template

	// เขียนทับ forest ทั้งก้อนของ level เดียว (save จาก editor)
	forms.Put("/:id/:level", controllers.OverwriteForest)

	// tree editor: tab / field / column
	forms.Post("/:id/:level/tabs", controllers.AddTab)
	forms.Delete("/:id/:level/tabs/:tabId", controllers.DeleteTab)
	forms.Post("/:id/:level/tabs/:tabId/fields", controllers.AddField)
	forms.Put("/:id/:level/tabs/:tabId/fields/:fieldId", controllers.EditField)
	forms.Delete("/:id/:level/tabs/:tabId/fields/:fieldId", controllers.DeleteField)
	forms.Post("/:id/:level/tabs/:tabId/columns", controllers.AddColumns)
	forms.Put("/:id/:level/tabs/:tabId/columns/:columnId", controllers.EditColumn)
	forms.Delete("/:id/:level/tabs/:tabId/fields/:fieldId/columns/:columnId", controllers.DeleteColumn)
}
