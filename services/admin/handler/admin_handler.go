package handler

import (
	"context"
	"fmt"
	"net/http"

	model "auction-site/internal/models"
	"auction-site/services/admin/helpers"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=admin_handler.go -destination=mock_admin_service.go -package=handler

type AdminServiceInterface interface {
	Entities() []string
	List(ctx context.Context, entity string) (any, error)
	Get(ctx context.Context, entity string, id uint) (model.Record, error)
	Create(ctx context.Context, entity string, payload []byte) (model.Record, error)
	Update(ctx context.Context, entity string, id uint, payload []byte) (model.Record, error)
	Delete(ctx context.Context, entity string, id uint) error
}

type AdminHandler struct {
	service AdminServiceInterface
}

func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListEntitiesHandler handles GET /admin
func (h *AdminHandler) ListEntitiesHandler(c *gin.Context) {
	names := h.service.Entities()
	entities := make([]helpers.EntitySummary, 0, len(names))
	for _, name := range names {
		entities = append(entities, helpers.EntitySummary{Name: name, Path: "/admin/" + name})
	}

	utils.JSONResponse(c, http.StatusOK, entities, "entities retrieved successfully")
}

// ListRecordsHandler handles GET /admin/:entity
func (h *AdminHandler) ListRecordsHandler(c *gin.Context) {
	entity := c.Param("entity")
	records, err := h.service.List(c.Request.Context(), entity)
	if err != nil {
		h.fail(c, "ListRecordsHandler", entity, 0, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, records, "records retrieved successfully")
	helpers.LogSuccess("ListRecordsHandler", "records retrieved successfully", map[string]any{"entity": entity})
}

// GetRecordHandler handles GET /admin/:entity/:id
func (h *AdminHandler) GetRecordHandler(c *gin.Context) {
	entity := c.Param("entity")
	id, err := helpers.ParseID(c, "id")
	if err != nil {
		h.fail(c, "GetRecordHandler", entity, 0, err)
		return
	}

	record, err := h.service.Get(c.Request.Context(), entity, id)
	if err != nil {
		h.fail(c, "GetRecordHandler", entity, id, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, record, "record retrieved successfully")
	helpers.LogSuccess("GetRecordHandler", "record retrieved successfully", map[string]any{
		"entity": entity,
		"id":     id,
	})
}

// CreateRecordHandler handles POST /admin/:entity
func (h *AdminHandler) CreateRecordHandler(c *gin.Context) {
	entity := c.Param("entity")
	payload, err := c.GetRawData()
	if err != nil {
		helpers.HandleBindError(c, "CreateRecordHandler", err)
		return
	}

	record, err := h.service.Create(c.Request.Context(), entity, payload)
	if err != nil {
		h.fail(c, "CreateRecordHandler", entity, 0, err)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, record, "record created successfully")
	helpers.LogSuccess("CreateRecordHandler", "record created successfully", map[string]any{
		"entity": entity,
		"id":     record.GetID(),
	})
}

// UpdateRecordHandler handles PUT /admin/:entity/:id
func (h *AdminHandler) UpdateRecordHandler(c *gin.Context) {
	entity := c.Param("entity")
	id, err := helpers.ParseID(c, "id")
	if err != nil {
		h.fail(c, "UpdateRecordHandler", entity, 0, err)
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		helpers.HandleBindError(c, "UpdateRecordHandler", err)
		return
	}

	record, err := h.service.Update(c.Request.Context(), entity, id, payload)
	if err != nil {
		h.fail(c, "UpdateRecordHandler", entity, id, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, record, "record updated successfully")
	helpers.LogSuccess("UpdateRecordHandler", "record updated successfully", map[string]any{"entity": entity, "id": id})
}

// DeleteRecordHandler handles DELETE /admin/:entity/:id
func (h *AdminHandler) DeleteRecordHandler(c *gin.Context) {
	entity := c.Param("entity")
	id, err := helpers.ParseID(c, "id")
	if err != nil {
		h.fail(c, "DeleteRecordHandler", entity, 0, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), entity, id); err != nil {
		h.fail(c, "DeleteRecordHandler", entity, id, err)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.DeleteResponse{Entity: entity, ID: id}, "record deleted successfully")
	helpers.LogSuccess("DeleteRecordHandler", "record deleted successfully", map[string]any{"entity": entity, "id": id})
}

func (h *AdminHandler) fail(c *gin.Context, handlerName, entity string, id uint, err error) {
	status, message := helpers.MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	fields := map[string]any{"handler": handlerName, "entity": entity, "error": err.Error()}
	if id != 0 {
		fields["id"] = id
	}
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}
