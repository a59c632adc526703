package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-receipts/internal/receipt"
	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	receiptService ReceiptServicer
}

func NewPublicHandler(receiptService ReceiptServicer) *PublicHandler {
	return &PublicHandler{
		receiptService: receiptService,
	}
}

type PublicReceiptParams struct {
	Width int `binding:"min=20,max=500" form:"width,default=40"`
}

// Show GET PublicReceiptRoute. Текстовое представление чека, доступно без авторизации.
func (h *PublicHandler) Show(c *gin.Context) {
	id, idErr := parseID(c, "id")
	if idErr != nil {
		abortValidation(c, idErr)
		return
	}
	params := PublicReceiptParams{Width: receipt.DefaultWidth}
	if bindErr := c.ShouldBindQuery(&params); bindErr != nil {
		abortValidation(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	text, err := h.receiptService.Render(ctx, id, params.Width)
	if err != nil {
		abortServiceError(c, err, receiptNotFoundMsg)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}
