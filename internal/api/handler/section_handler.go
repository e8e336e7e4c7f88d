package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkvault/linkvault/internal/core/ports"
)

type SectionHandler struct {
	collection ports.CollectionService
}

func NewSectionHandler(collection ports.CollectionService) *SectionHandler {
	return &SectionHandler{collection: collection}
}

// List returns the caller's sections in order, each with its links.
//
// @Summary      List sections
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sectionsResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/sections [get]
func (h *SectionHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	sections, err := h.collection.ListSections(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sectionsResponse{Sections: toSectionResponses(sections)})
}

// Add appends an empty section.
//
// @Summary      Add section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sectionRequest  true  "Section name"
// @Success      201   {object}  sectionMessageResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/add-section [post]
func (h *SectionHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req sectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	section, err := h.collection.AddSection(c.Request().Context(), userID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sectionMessageResponse{
		Message: "Section added successfully",
		Section: toSectionResponse(section),
	})
}

// Rename changes a section's name.
//
// @Summary      Rename section
// @Tags         sections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sectionId  path      string          true  "Section id"
// @Param        body       body      sectionRequest  true  "New name"
// @Success      200        {object}  sectionMessageResponse
// @Failure      400        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /api/update-section/{sectionId} [put]
func (h *SectionHandler) Rename(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req sectionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	section, err := h.collection.RenameSection(c.Request().Context(), userID, c.Param("sectionId"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sectionMessageResponse{
		Message: "Section name updated successfully",
		Section: toSectionResponse(section),
	})
}

// Delete removes a section and every link in it.
//
// @Summary      Delete section
// @Tags         sections
// @Produce      json
// @Security     BearerAuth
// @Param        sectionId  path      string  true  "Section id"
// @Success      200        {object}  messageResponse
// @Failure      404        {object}  messageResponse
// @Router       /api/delete-section/{sectionId} [delete]
func (h *SectionHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.collection.DeleteSection(c.Request().Context(), userID, c.Param("sectionId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Section deleted successfully"})
}
