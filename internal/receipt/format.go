package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/money"
)

const (
	MinWidth     = 20
	MaxWidth     = 500
	DefaultWidth = 40

	timeLayout = "2006-01-02 15:04"
)

// Format рендерит чек в текст шириной width символов. Результат зависит только от аргументов,
// время берётся из самого чека в UTC.
func Format(r AggregatedReceipt, width int) (string, error) {
	if err := ValidateWidth(width); err != nil {
		return "", err
	}

	rule := strings.Repeat("-", width)
	lines := make([]string, 0, 3*len(r.Items)+8)
	lines = append(lines, center("=== RECEIPT ===", width))

	for _, item := range r.Items {
		lines = append(lines,
			rjust(money.Display(item.Quantity)+" x "+money.Display(item.Price), width),
			itemLine(item.Name, money.Display(item.Total), width),
			rule,
		)
	}

	lines = append(lines,
		rjust("TOTAL: "+money.Display(r.Total), width),
		rjust("Payment ("+paymentTitle(r.Payment.Type)+"): "+money.Display(r.Payment.Amount), width),
		rjust("CHANGE: "+money.Display(r.Rest), width),
		strings.Repeat("=", width),
		center(r.CreatedAt.UTC().Format(timeLayout), width),
		center("Thank you for your purchase!", width),
	)

	return strings.Join(lines, "\n") + "\n", nil
}

// ValidateWidth ширина ограничена с обеих сторон: размер ответа пропорционален ширине.
func ValidateWidth(width int) error {
	if width < MinWidth {
		return domain.NewValidationError("width", fmt.Sprintf("must be greater than or equal to %d", MinWidth))
	}
	if width > MaxWidth {
		return domain.NewValidationError("width", fmt.Sprintf("must be less than or equal to %d", MaxWidth))
	}
	return nil
}

// itemLine название позиции и сумма через два пробела. Название обрезается, если строка не влезает в width.
func itemLine(name, total string, width int) string {
	const sep = "  "
	room := width - utf8.RuneCountInString(sep) - utf8.RuneCountInString(total)
	if room < 0 {
		room = 0
	}
	if utf8.RuneCountInString(name) > room {
		name = string([]rune(name)[:room])
	}
	return ljust(name+sep+total, width)
}

func paymentTitle(t domain.PaymentType) string {
	s := string(t)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}

func pad(s string, width int) int {
	return max(width-utf8.RuneCountInString(s), 0)
}

func rjust(s string, width int) string {
	return strings.Repeat(" ", pad(s, width)) + s
}

func ljust(s string, width int) string {
	return s + strings.Repeat(" ", pad(s, width))
}

// center лишний пробел при нечётном остатке уходит вправо, а если нечётна и сама ширина - влево.
func center(s string, width int) string {
	p := pad(s, width)
	left := p/2 + (p & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", p-left)
}
