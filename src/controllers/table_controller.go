package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"Backend-FormForge/src/database"
	"Backend-FormForge/src/jobs"
	"Backend-FormForge/src/models"
	"Backend-FormForge/src/services/records"
	"Backend-FormForge/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func recordErrorStatus(err error) int {
	switch {
	case errors.Is(err, records.ErrTableNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, records.ErrInvalidLevel):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// enqueueReindex ส่งงาน reindex หัวตารางเข้า queue แบบ fire-and-forget
// enqueue ไม่ได้ = table view คำนวณสดครั้งถัดไปแทน ไม่ใช่ error ของ request
func enqueueReindex(recordID string) {
	if database.AsynqClient == nil {
		return
	}
	task, err := jobs.NewReindexHeadersTask(recordID)
	if err != nil {
		log.Println("❌ Failed to build reindex task:", err)
		return
	}
	if _, err := database.AsynqClient.Enqueue(task); err != nil {
		log.Println("⚠️ Failed to enqueue reindex task:", err)
	}
}

// CreateTable godoc
// @Summary      Save a filled-in form as a new table entry
// @Description  The entry is a detached snapshot; later template edits never touch it
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        body body models.Record true "Record data (header/lines/lineDetails)"
// @Success      201  {object}  models.Record
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /tables [post]
func CreateTable(c *fiber.Ctx) error {
	var entry models.Record
	if err := c.BodyParser(&entry); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	saved, err := records.SaveTable(ctx, &entry)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(saved.ID.Hex())
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// GetAllTables godoc
// @Summary      Get all table entries with pagination (newest first)
// @Tags         tables
// @Produce      json
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Number of items per page" default(10)
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /tables [get]
func GetAllTables(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))

	ctx, cancel := requestContext()
	defer cancel()

	result, err := records.GetTables(ctx, params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetTableView godoc
// @Summary      Flatten all table entries into one overview grid
// @Description  One row per entry; columns are the union of header field names. Headers come from the Redis reindex cache when available.
// @Tags         tables
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  models.ErrorResponse
// @Router       /tables/view [get]
func GetTableView(c *fiber.Ctx) error {
	ctx, cancel := requestContext()
	defer cancel()

	headers, rows, err := records.TableView(ctx)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}

	// ถ้า worker เคย reindex ไว้ ใช้ลำดับคอลัมน์จาก cache แทน
	if database.RedisClient != nil {
		if raw, err := database.RedisClient.Get(ctx, jobs.HeadersCacheKey).Result(); err == nil {
			var cached []string
			if err := json.Unmarshal([]byte(raw), &cached); err == nil && len(cached) > 0 {
				headers = cached
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"headers": headers,
		"rows":    rows,
	})
}

// GetTableByID godoc
// @Summary      Get a table entry by ID
// @Tags         tables
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Success      200  {object}  models.Record
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id} [get]
func GetTableByID(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	entry, err := records.GetTableByID(ctx, recordID)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(entry)
}

// UpdateTable godoc
// @Summary      Overwrite a table entry's three levels
// @Description  Whole-record overwrite: derived sums in lineDetails are recomputed from lines before writing
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Param        body body models.RecordUpdateRequest true "New record data"
// @Success      200  {object}  models.Record
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id} [put]
func UpdateTable(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.RecordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	entry, err := records.UpdateTable(ctx, recordID, req)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(entry.ID.Hex())
	return c.Status(fiber.StatusOK).JSON(entry)
}

// DeleteTable godoc
// @Summary      Delete a table entry
// @Tags         tables
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id} [delete]
func DeleteTable(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := records.DeleteTable(ctx, recordID); err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(recordID.Hex())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Table entry deleted successfully"})
}

// EditTableField godoc
// @Summary      Edit one field value in a table entry
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Param        body body models.FieldEditRequest true "Field edit"
// @Success      200  {object}  models.Record
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id}/field [patch]
func EditTableField(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.FieldEditRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid edit data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	entry, err := records.ApplyFieldEdit(ctx, recordID, req)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(entry.ID.Hex())
	return c.Status(fiber.StatusOK).JSON(entry)
}

// EditTableCell godoc
// @Summary      Edit one cell in a table field
// @Description  Calculated columns in the same row are re-evaluated after the edit
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Param        body body models.CellEditRequest true "Cell edit"
// @Success      200  {object}  models.Record
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id}/cell [patch]
func EditTableCell(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.CellEditRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid edit data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	entry, err := records.ApplyCellEdit(ctx, recordID, req)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(entry.ID.Hex())
	return c.Status(fiber.StatusOK).JSON(entry)
}

// AddTableRow godoc
// @Summary      Append an empty row to a table field
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        id   path  string  true  "Record ID"
// @Param        body body models.InsertRowRequest true "Target table field"
// @Success      200  {object}  models.Record
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /tables/{id}/rows [post]
func AddTableRow(c *fiber.Ctx) error {
	recordID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.InsertRowRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid row data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	entry, err := records.InsertRow(ctx, recordID, req)
	if err != nil {
		return utils.HandleError(c, recordErrorStatus(err), err.Error())
	}

	enqueueReindex(entry.ID.Hex())
	return c.Status(fiber.StatusOK).JSON(entry)
}
