package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pb "syntra-backoffice/internal/rpc/backoffice"
)

type QuotationLineRequest struct {
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateQuotationRequest struct {
	CustomerID int64                  `json:"customer_id" binding:"required"`
	BranchID   int64                  `json:"branch_id" binding:"required"`
	Discount   decimal.Decimal        `json:"discount"`
	Tax        decimal.Decimal        `json:"tax"`
	ValidUntil *time.Time             `json:"valid_until,omitempty"`
	Notes      string                 `json:"notes"`
	Items      []QuotationLineRequest `json:"items" binding:"required,min=1"`
}

type ConvertQuotationRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type VoidQuotationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListQuotationsQuery struct {
	PageQuery
	BranchID   int64  `form:"branch_id"`
	CustomerID int64  `form:"customer_id"`
	Status     string `form:"status"`
}

func (h *BackOfficeHTTPHandler) CreateQuotation(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	lines := make([]pb.QuotationLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = pb.QuotationLine{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateQuotation(ctx, &pb.CreateQuotationRequest{
		CustomerID: req.CustomerID,
		BranchID:   req.BranchID,
		Discount:   req.Discount,
		Tax:        req.Tax,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
		Items:      lines,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Quotation created successfully", resp.Quotation))
}

func (h *BackOfficeHTTPHandler) GetQuotation(c *gin.Context) {
	quotationID, ok := parseID(c, "id", "quotation")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.GetQuotation(ctx, &pb.IDRequest{ID: quotationID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Quotation retrieved successfully", resp.Quotation))
}

func (h *BackOfficeHTTPHandler) ListQuotations(c *gin.Context) {
	var query ListQuotationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListQuotations(ctx, &pb.ListQuotationsRequest{
		BranchID:   query.BranchID,
		CustomerID: query.CustomerID,
		Status:     query.Status,
		Pagination: query.pagination(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Quotations retrieved successfully", resp.Quotations, resp.PageInfo))
}

func (h *BackOfficeHTTPHandler) ConvertQuotation(c *gin.Context) {
	quotationID, ok := parseID(c, "id", "quotation")
	if !ok {
		return
	}

	var req ConvertQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ConvertQuotation(ctx, &pb.ConvertQuotationRequest{ID: quotationID, PaymentMethod: req.PaymentMethod})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Quotation converted to sale", resp))
}

func (h *BackOfficeHTTPHandler) VoidQuotation(c *gin.Context) {
	quotationID, ok := parseID(c, "id", "quotation")
	if !ok {
		return
	}

	var req VoidQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.VoidQuotation(ctx, &pb.VoidQuotationRequest{ID: quotationID, Reason: req.Reason})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Quotation voided", resp.Quotation))
}

// PrintQuotation returns the printable HTML document as an attachment.
func (h *BackOfficeHTTPHandler) PrintQuotation(c *gin.Context) {
	quotationID, ok := parseID(c, "id", "quotation")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	file, err := h.client.RenderQuotation(ctx, &pb.IDRequest{ID: quotationID})
	if handleGRPCError(c, err) {
		return
	}

	sendFile(c, file)
}
