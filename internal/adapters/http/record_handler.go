package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inventra/core/internal/domain/entities"
	"github.com/inventra/core/internal/infrastructure/logger"
	"github.com/inventra/core/internal/ports"
)

// RecordHandler handles requests for one record collection
type RecordHandler struct {
	service ports.RecordService
	logger  *logger.Logger
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(service ports.RecordService, logger *logger.Logger) *RecordHandler {
	return &RecordHandler{
		service: service,
		logger:  logger.WithCollection(service.Collection().Name),
	}
}

// Register mounts the collection routes on g
func (h *RecordHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List godoc
// @Summary List records
// @Description List every record, or only those of one owner
// @Produce json
// @Param ownerId query int false "Owner ID"
// @Success 200 {array} object
// @Router /{collection} [get]
func (h *RecordHandler) List(c echo.Context) error {
	ownerID := entities.ParseOwnerID(c.QueryParam("ownerId"))

	records, err := h.service.List(c.Request().Context(), ownerID)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, records)
}

// Create godoc
// @Summary Create a record
// @Description Store a new record; the id is assigned by the server
// @Accept json
// @Produce json
// @Param record body object true "Record fields"
// @Success 201 {object} object
// @Failure 400 {object} MessageResponse
// @Router /{collection} [post]
func (h *RecordHandler) Create(c echo.Context) error {
	record, err := entities.DecodeRecord(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}

	created, err := h.service.Create(c.Request().Context(), record)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update a record
// @Description Shallow-merge the body over the stored record
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param record body object true "Fields to overwrite"
// @Success 200 {object} object
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /{collection}/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	id, ok := recordID(c)
	if !ok {
		return h.notFound()
	}

	patch, err := entities.DecodeRecord(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format").SetInternal(err)
	}

	updated, err := h.service.Update(c.Request().Context(), id, patch)
	if err != nil {
		return h.mapError(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a record
// @Description Remove the record; owner-scoped collections also require ownerId
// @Param id path int true "Record ID"
// @Param ownerId query int false "Owner ID (required for categories)"
// @Success 204
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /{collection}/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	def := h.service.Collection()
	ownerID := entities.ParseOwnerID(c.QueryParam("ownerId"))
	if def.RequireOwnerOnDelete && ownerID == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "ownerId query parameter is required and must be numeric")
	}

	id, ok := recordID(c)
	if !ok {
		return h.notFound()
	}

	if err := h.service.Delete(c.Request().Context(), id, ownerID); err != nil {
		return h.mapError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// mapError translates store errors into HTTP errors
func (h *RecordHandler) mapError(err error) error {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return h.notFound()
	case errors.Is(err, entities.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	default:
		h.logger.Errorw("Collection operation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
	}
}

func (h *RecordHandler) notFound() error {
	return echo.NewHTTPError(http.StatusNotFound, h.service.Collection().Singular+" not found")
}

// recordID parses the :id path parameter. Non-integer ids cannot match any record.
func recordID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
