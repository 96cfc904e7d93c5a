package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/domain/shared"
	"github.com/growbro/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message))
}

// HandleError maps a domain error to the appropriate HTTP response.
// Typed inventory errors carry structured details alongside the message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var insufficientErr *inventory.InsufficientStockError
	if errors.As(err, &insufficientErr) {
		c.JSON(dto.GetHTTPStatus(insufficientErr.Code), dto.NewErrorResponseWithDetails(
			insufficientErr.Code, insufficientErr.Message, map[string]interface{}{
				"item_id":   insufficientErr.ItemID,
				"requested": insufficientErr.Requested,
				"available": insufficientErr.Available,
				"shortfall": insufficientErr.Shortfall,
			}))
		return
	}

	var blockedErr *inventory.ExpiredBatchBlockedError
	if errors.As(err, &blockedErr) {
		details := map[string]interface{}{
			"item_id": blockedErr.ItemID,
		}
		if !blockedErr.MissingReason {
			details["usable_on_hand"] = blockedErr.UsableOnHand
			details["expired_on_hand"] = blockedErr.ExpiredOnHand
		}
		c.JSON(dto.GetHTTPStatus(blockedErr.Code), dto.NewErrorResponseWithDetails(
			blockedErr.Code, blockedErr.Message, details))
		return
	}

	var invalidErr *inventory.InvalidQuantityError
	if errors.As(err, &invalidErr) {
		c.JSON(dto.GetHTTPStatus(invalidErr.Code), dto.NewErrorResponse(invalidErr.Code, invalidErr.Message))
		return
	}

	var constraintErr *inventory.ConstraintViolationError
	if errors.As(err, &constraintErr) {
		c.JSON(dto.GetHTTPStatus(constraintErr.Code), dto.NewErrorResponse(constraintErr.Code, constraintErr.Message))
		return
	}

	if errors.Is(err, shared.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "resource not found"))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An internal error occurred"))
}

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
