package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"Backend-FormForge/src/models"
	"Backend-FormForge/src/schema"
	"Backend-FormForge/src/services/templates"
	"Backend-FormForge/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// templateErrorStatus แปลง error ของ service เป็น HTTP status
func templateErrorStatus(err error) int {
	switch {
	case errors.Is(err, templates.ErrFormNotFound),
		errors.Is(err, schema.ErrTabNotFound),
		errors.Is(err, schema.ErrFieldNotFound),
		errors.Is(err, schema.ErrColumnNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, schema.ErrDuplicateName):
		return fiber.StatusConflict
	case errors.Is(err, templates.ErrInvalidLevel),
		errors.Is(err, templates.ErrEmptyName):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateForm godoc
// @Summary      Create a new form template
// @Description  Create an empty template (header/lines/lineDetails start empty)
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        body body models.CreateTemplateRequest true "Template name"
// @Success      201  {object}  models.Template
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [post]
func CreateForm(c *fiber.Ctx) error {
	var req models.CreateTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "templateName is required")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.CreateForm(ctx, req.TemplateName)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// GetAllForms godoc
// @Summary      Get all form templates with pagination
// @Tags         forms
// @Produce      json
// @Param        page   query  int  false  "Page number" default(1)
// @Param        limit  query  int  false  "Number of items per page" default(10)
// @Param        search query  string  false  "Search term"
// @Success      200  {object}  models.PaginatedResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [get]
func GetAllForms(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	params.Page, _ = strconv.Atoi(c.Query("page", strconv.Itoa(params.Page)))
	params.Limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(params.Limit)))
	params.Search = c.Query("search", params.Search)
	params.SortBy = c.Query("sortBy", params.SortBy)
	params.Order = c.Query("order", params.Order)

	ctx, cancel := requestContext()
	defer cancel()

	result, err := templates.GetForms(ctx, params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetFormByID godoc
// @Summary      Get a form template by ID
// @Tags         forms
// @Produce      json
// @Param        id   path  string  true  "Template ID"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [get]
func GetFormByID(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.GetFormByID(ctx, formID)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// DeleteForm godoc
// @Summary      Delete a form template
// @Tags         forms
// @Produce      json
// @Param        id   path  string  true  "Template ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id} [delete]
func DeleteForm(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := templates.DeleteForm(ctx, formID); err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Form deleted successfully"})
}

// OverwriteForest godoc
// @Summary      Overwrite one whole section forest of a template
// @Description  Replace the entire header/lines/lineDetails array in a single write
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path  string  true  "Template ID"
// @Param        level  path  string  true  "Level (header, lines, lineDetails)"
// @Param        body   body  []models.Tab  true  "New section forest"
// @Success      200  {object}  models.Template
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level} [put]
func OverwriteForest(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var forest models.SectionForest
	if err := c.BodyParser(&forest); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.OverwriteForest(ctx, formID, c.Params("level"), forest)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// AddTab godoc
// @Summary      Add a tab to a level of a template
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path  string  true  "Template ID"
// @Param        level  path  string  true  "Level (header, lines, lineDetails)"
// @Param        body   body  models.TabRequest  true  "Tab name"
// @Success      201  {object}  models.Template
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs [post]
func AddTab(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.TabRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Tab name is required")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.AddTab(ctx, formID, c.Params("level"), req.Name)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// DeleteTab godoc
// @Summary      Delete a tab and everything it owns
// @Tags         forms
// @Produce      json
// @Param        id     path  string  true  "Template ID"
// @Param        level  path  string  true  "Level"
// @Param        tabId  path  string  true  "Tab ID"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId} [delete]
func DeleteTab(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.DeleteTab(ctx, formID, c.Params("level"), c.Params("tabId"))
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// AddField godoc
// @Summary      Add a field to a tab
// @Description  Rejects names that collide (case-insensitively) with any field or column in header/lines
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path  string  true  "Template ID"
// @Param        level  path  string  true  "Level"
// @Param        tabId  path  string  true  "Tab ID"
// @Param        body   body  models.FieldRequest  true  "Field data"
// @Success      201  {object}  models.Template
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/fields [post]
func AddField(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.FieldRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid field data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.AddField(ctx, formID, c.Params("level"), c.Params("tabId"), req)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// EditField godoc
// @Summary      Edit a field's attributes
// @Description  field_type is immutable after creation and cannot be changed here
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "Template ID"
// @Param        level    path  string  true  "Level"
// @Param        tabId    path  string  true  "Tab ID"
// @Param        fieldId  path  string  true  "Field ID"
// @Param        body     body  models.FieldRequest  true  "New field data"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/fields/{fieldId} [put]
func EditField(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.FieldRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid field data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.EditField(ctx, formID, c.Params("level"), c.Params("tabId"), c.Params("fieldId"), req)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// DeleteField godoc
// @Summary      Delete a field from a tab
// @Tags         forms
// @Produce      json
// @Param        id       path  string  true  "Template ID"
// @Param        level    path  string  true  "Level"
// @Param        tabId    path  string  true  "Tab ID"
// @Param        fieldId  path  string  true  "Field ID"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/fields/{fieldId} [delete]
func DeleteField(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.DeleteField(ctx, formID, c.Params("level"), c.Params("tabId"), c.Params("fieldId"))
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// AddColumns godoc
// @Summary      Add columns to a tab's table field
// @Description  Creates the table field (rowCount 5, empty tableData) when the tab has none yet
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path  string  true  "Template ID"
// @Param        level  path  string  true  "Level"
// @Param        tabId  path  string  true  "Tab ID"
// @Param        body   body  models.ColumnsRequest  true  "Columns"
// @Success      201  {object}  models.Template
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/columns [post]
func AddColumns(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.ColumnsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid column data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.AddColumns(ctx, formID, c.Params("level"), c.Params("tabId"), req.Columns)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// EditColumn godoc
// @Summary      Edit a column's attributes
// @Description  Column type is immutable after creation, mirroring field edits
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id        path  string  true  "Template ID"
// @Param        level     path  string  true  "Level"
// @Param        tabId     path  string  true  "Tab ID"
// @Param        columnId  path  string  true  "Column ID"
// @Param        body      body  models.ColumnRequest  true  "New column data"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/columns/{columnId} [put]
func EditColumn(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	var req models.ColumnRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid column data: "+err.Error())
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.EditColumn(ctx, formID, c.Params("level"), c.Params("tabId"), c.Params("columnId"), req)
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}

// DeleteColumn godoc
// @Summary      Delete a column from a table field
// @Tags         forms
// @Produce      json
// @Param        id        path  string  true  "Template ID"
// @Param        level     path  string  true  "Level"
// @Param        tabId     path  string  true  "Tab ID"
// @Param        fieldId   path  string  true  "Field ID"
// @Param        columnId  path  string  true  "Column ID"
// @Success      200  {object}  models.Template
// @Failure      404  {object}  models.ErrorResponse
// @Router       /forms/{id}/{level}/tabs/{tabId}/fields/{fieldId}/columns/{columnId} [delete]
func DeleteColumn(c *fiber.Ctx) error {
	formID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID format")
	}

	ctx, cancel := requestContext()
	defer cancel()

	form, err := templates.DeleteColumn(ctx, formID, c.Params("level"), c.Params("tabId"), c.Params("fieldId"), c.Params("columnId"))
	if err != nil {
		return utils.HandleError(c, templateErrorStatus(err), err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(form)
}
