package routes

import (
	"Backend-FormForge/src/controllers"

	"github.com/gofiber/fiber/v2"
)

// DropdownRoutes กำหนดเส้นทางสำหรับ proxy โหลดตัวเลือก dropdown
func DropdownRoutes(app *fiber.App) {
	dropdown := app.Group("/dropdown")

	dropdown.Get("/options", controllers.GetDropdownOptions)
}
