package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"strefex/internal/model"
	"strefex/internal/repository"
	"strefex/pkg/apperror"
	"strefex/prometheus"
)

// RfqHandler handles company-scoped RFQ CRUD
type RfqHandler struct {
	rfqs repository.RfqRepository
}

// NewRfqHandler creates a new RFQ handler
func NewRfqHandler(rfqs repository.RfqRepository) *RfqHandler {
	return &RfqHandler{rfqs: rfqs}
}

// RfqLineItemRequest is one requested line of an RFQ
type RfqLineItemRequest struct {
	LineNumber  int     `json:"line_number"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

// RfqRequest is the create payload; line items are created with the RFQ
type RfqRequest struct {
	RfqNumber   string               `json:"rfq_number"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      string               `json:"status"`
	ProjectID   *uuid.UUID           `json:"project_id"`
	DueDate     *time.Time           `json:"due_date"`
	LineItems   []RfqLineItemRequest `json:"line_items"`
}

// RfqUpdateRequest is the patch payload; nil fields are left untouched
type RfqUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	IssuedAt    *time.Time `json:"issued_at"`
}

// Create adds an RFQ with its line items to the caller's company
func (h *RfqHandler) Create(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}

	var req RfqRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}
	if req.Title == "" {
		return respondError(c, apperror.ValidationFailed("title is required"))
	}
	if req.Status == "" {
		req.Status = model.RfqStatusDraft
	}

	rfq := &model.Rfq{
		RfqNumber:   req.RfqNumber,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		ProjectID:   req.ProjectID,
		DueDate:     req.DueDate,
		CreatedBy:   actorID(c),
	}
	for i, line := range req.LineItems {
		number := line.LineNumber
		if number == 0 {
			number = i + 1
		}
		rfq.LineItems = append(rfq.LineItems, model.RfqLineItem{
			LineNumber:  number,
			Description: line.Description,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
		})
	}

	if err := h.rfqs.Create(c.Request().Context(), tc.TenantID, rfq); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("rfq", "create")
	return c.JSON(http.StatusCreated, rfq)
}

// Get returns one RFQ with its line items
func (h *RfqHandler) Get(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	rfq, err := h.rfqs.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rfq)
}

// List returns one page of the caller's company's RFQs
func (h *RfqHandler) List(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	params := listParams(c)

	rfqs, err := h.rfqs.List(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	total, err := h.rfqs.Count(c.Request().Context(), tc.TenantID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listResponse(rfqs, total, params))
}

// Update patches an RFQ in the caller's company
func (h *RfqHandler) Update(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req RfqUpdateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, apperror.ValidationFailed("invalid request body"))
	}

	rfq, err := h.rfqs.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}

	patch := repository.RfqPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		IssuedAt:    req.IssuedAt,
	}
	if err := h.rfqs.Update(c.Request().Context(), rfq, patch); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("rfq", "update")
	return c.JSON(http.StatusOK, rfq)
}

// Delete removes an RFQ and its line items from the caller's company
func (h *RfqHandler) Delete(c echo.Context) error {
	tc, err := requireTenant(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	rfq, err := h.rfqs.GetByID(c.Request().Context(), id, tc.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.rfqs.Delete(c.Request().Context(), rfq); err != nil {
		return respondError(c, err)
	}

	prometheus.RecordResourceOperation("rfq", "delete")
	return c.NoContent(http.StatusNoContent)
}
