package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/money"
	"github.com/fsdevblog/groph-receipts/internal/receipt"
	"github.com/fsdevblog/groph-receipts/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const receiptNotFoundMsg = "Receipt not found"

type ReceiptsHandler struct {
	receiptService ReceiptServicer
}

func NewReceiptsHandler(receiptService ReceiptServicer) *ReceiptsHandler {
	return &ReceiptsHandler{
		receiptService: receiptService,
	}
}

// Денежные поля запроса разбираются из текста JSON, поэтому принимаются и числа, и строки.
type ProductParams struct {
	Name     string           `binding:"required,max_bytes=255" json:"name"`
	Price    *decimal.Decimal `binding:"required"               json:"price"`
	Quantity *decimal.Decimal `binding:"required"               json:"quantity"`
}

type PaymentParams struct {
	Type   domain.PaymentType `binding:"required,oneof=cash cashless" json:"type"`
	Amount *decimal.Decimal   `binding:"required"                     json:"amount"`
}

type ReceiptCreateParams struct {
	Products []ProductParams `binding:"required,dive" json:"products"`
	Payment  PaymentParams   `binding:"required"      json:"payment"`
}

type ProductResponse struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
	Total    string `json:"total"`
}

type PaymentResponse struct {
	Type   domain.PaymentType `json:"type"`
	Amount string             `json:"amount"`
}

// ReceiptResponse деньги отдаются строками с фиксированным числом знаков.
type ReceiptResponse struct {
	ID        int64             `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Products  []ProductResponse `json:"products"`
	Payment   PaymentResponse   `json:"payment"`
	Total     string            `json:"total"`
	Rest      string            `json:"rest"`
}

func newReceiptResponse(r receipt.AggregatedReceipt) ReceiptResponse {
	products := make([]ProductResponse, len(r.Items))
	for i, item := range r.Items {
		products[i] = ProductResponse{
			Name:     item.Name,
			Price:    item.Price.StringFixed(money.PriceScale),
			Quantity: item.Quantity.StringFixed(money.QuantityScale),
			Total:    money.Display(item.Total),
		}
	}
	return ReceiptResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Products:  products,
		Payment: PaymentResponse{
			Type:   r.Payment.Type,
			Amount: r.Payment.Amount.StringFixed(money.PriceScale),
		},
		Total: money.Display(r.Total),
		Rest:  money.Display(r.Rest),
	}
}

// Create POST ReceiptsRoute.
func (h *ReceiptsHandler) Create(c *gin.Context) {
	var params ReceiptCreateParams
	if !bindJSON(c, &params) {
		return
	}

	items := make([]domain.ReceiptItem, len(params.Products))
	for i, p := range params.Products {
		items[i] = domain.ReceiptItem{
			Name:     p.Name,
			Price:    *p.Price,
			Quantity: *p.Quantity,
		}
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	created, err := h.receiptService.Create(ctx, currentUserID(c), service.CreateReceiptArgs{
		Items: items,
		Payment: domain.Payment{
			Type:   params.Payment.Type,
			Amount: *params.Payment.Amount,
		},
	})
	if err != nil {
		abortServiceError(c, err, receiptNotFoundMsg)
		return
	}

	c.JSON(http.StatusCreated, newReceiptResponse(*created))
}

type ListReceiptsParams struct {
	Skip        int    `binding:"min=0"                         form:"skip,default=0"`
	Limit       int    `binding:"min=1"                         form:"limit,default=10"`
	DateFrom    string `form:"date_from"`
	DateTo      string `form:"date_to"`
	MinTotal    string `form:"min_total"`
	PaymentType string `binding:"omitempty,oneof=cash cashless" form:"payment_type"`
}

func (p ListReceiptsParams) toQuery() (receipt.Query, error) {
	q := receipt.NewQuery()
	q.Skip = p.Skip
	q.Limit = p.Limit

	var err error
	if q.DateFrom, err = parseTime("date_from", p.DateFrom); err != nil {
		return q, err
	}
	if q.DateTo, err = parseTime("date_to", p.DateTo); err != nil {
		return q, err
	}
	if p.MinTotal != "" {
		minTotal, parseErr := decimal.NewFromString(p.MinTotal)
		if parseErr != nil {
			return q, domain.NewValidationError("min_total", "must be a number")
		}
		q.MinTotal = &minTotal
	}
	if p.PaymentType != "" {
		pt := domain.PaymentType(p.PaymentType)
		q.PaymentType = &pt
	}
	return q, q.Validate()
}

// Index GET ReceiptsRoute. Список чеков текущего юзера с фильтрами и пагинацией.
func (h *ReceiptsHandler) Index(c *gin.Context) {
	var params ListReceiptsParams
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		abortValidation(c, bindErr)
		return
	}
	q, qErr := params.toQuery()
	if qErr != nil {
		abortValidation(c, qErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipts, err := h.receiptService.List(ctx, currentUserID(c), q)
	if err != nil {
		abortServiceError(c, err, receiptNotFoundMsg)
		return
	}

	response := make([]ReceiptResponse, len(receipts))
	for i, r := range receipts {
		response[i] = newReceiptResponse(r)
	}
	c.JSON(http.StatusOK, response)
}

// Show GET ReceiptRoute. Чек текущего юзера, чужой чек дает 404.
func (h *ReceiptsHandler) Show(c *gin.Context) {
	id, idErr := parseID(c, "id")
	if idErr != nil {
		abortValidation(c, idErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	r, err := h.receiptService.Get(ctx, currentUserID(c), id)
	if err != nil {
		abortServiceError(c, err, receiptNotFoundMsg)
		return
	}
	c.JSON(http.StatusOK, newReceiptResponse(*r))
}
