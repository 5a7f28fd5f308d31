package controllers

import (
	"errors"

	"Backend-FormForge/src/services/dropdown"
	"Backend-FormForge/src/utils"

	"github.com/gofiber/fiber/v2"
)

// GetDropdownOptions godoc
// @Summary      Load one page of options for an api-dropdown field
// @Description  Proxies the external lookup endpoint. Older in-flight queries from the same client are cancelled so only the latest search term wins.
// @Tags         dropdown
// @Produce      json
// @Param        endpoint  query  string  true   "Remote endpoint URL"
// @Param        search    query  string  false  "Search term"
// @Param        page      query  string  false  "Page token (number or absolute next-URL)"
// @Param        client    query  string  false  "Client key for supersession (defaults to caller IP)"
// @Success      200  {object}  models.DropdownPage
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Failure      502  {object}  models.ErrorResponse
// @Router       /dropdown/options [get]
func GetDropdownOptions(c *fiber.Ctx) error {
	endpoint := c.Query("endpoint")
	if endpoint == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "endpoint query parameter is required")
	}

	clientKey := c.Query("client")
	if clientKey == "" {
		clientKey = c.IP()
	}

	page, err := dropdown.DefaultLoader.LoadLatest(
		c.Context(), clientKey, endpoint, c.Query("search"), c.Query("page"))
	if err != nil {
		if errors.Is(err, dropdown.ErrSuperseded) {
			return utils.HandleError(c, fiber.StatusConflict, err.Error())
		}
		return utils.HandleError(c, fiber.StatusBadGateway, "Failed to load dropdown options: "+err.Error())
	}
	return c.Status(fiber.StatusOK).JSON(page)
}
