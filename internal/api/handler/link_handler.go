package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/linkvault/linkvault/internal/core/ports"
)

type LinkHandler struct {
	collection ports.CollectionService
}

func NewLinkHandler(collection ports.CollectionService) *LinkHandler {
	return &LinkHandler{collection: collection}
}

// Add appends a link to a section.
//
// @Summary      Add link
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addLinkRequest  true  "Link"
// @Success      201   {object}  linkMessageResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/add-link [post]
func (h *LinkHandler) Add(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req addLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.collection.AddLink(c.Request().Context(), userID, ports.AddLinkInput{
		SectionID: req.SectionID,
		Title:     req.Title,
		URL:       req.URL,
		Logo:      req.Logo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, linkMessageResponse{
		Message: "Link added successfully",
		Link:    toLinkResponse(link),
	})
}

// Update replaces a link's title and url wherever the link lives.
//
// @Summary      Update link
// @Tags         links
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        linkId  path      string             true  "Link id"
// @Param        body    body      updateLinkRequest  true  "New title and url"
// @Success      200     {object}  linkMessageResponse
// @Failure      400     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Router       /api/update-link/{linkId} [put]
func (h *LinkHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req updateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.collection.UpdateLink(c.Request().Context(), userID, c.Param("linkId"), req.Title, req.URL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, linkMessageResponse{
		Message: "Link updated successfully",
		Link:    toLinkResponse(link),
	})
}

// Delete removes a link.
//
// @Summary      Delete link
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        linkId  path      string  true  "Link id"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Router       /api/delete-link/{linkId} [delete]
func (h *LinkHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.collection.DeleteLink(c.Request().Context(), userID, c.Param("linkId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Link deleted successfully"})
}

// Search returns links whose title contains q, ignoring case.
//
// @Summary      Search links
// @Tags         links
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Title fragment"
// @Success      200  {array}   linkResponse
// @Failure      400  {object}  messageResponse
// @Router       /api/search [get]
func (h *LinkHandler) Search(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	links, err := h.collection.Search(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLinkResponses(links))
}
