package format

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency 默认币种
const DefaultCurrency = "SAR"

// CurrencyFormatter 金额格式化
type CurrencyFormatter interface {
	// Code ISO 4217 币种代码
	Code() string
	// Format 千分位、两位小数，带币种前缀（"SAR 1,234.50"）
	Format(amount decimal.Decimal) string
}

type isoFormatter struct {
	unit currency.Unit
}

// NewCurrencyFormatter 按 ISO 币种代码创建格式化器，空代码使用 DefaultCurrency
func NewCurrencyFormatter(code string) (CurrencyFormatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return isoFormatter{unit: unit}, nil
}

// Default 默认币种格式化器
func Default() CurrencyFormatter {
	return isoFormatter{unit: currency.MustParseISO(DefaultCurrency)}
}

func (f isoFormatter) Code() string {
	return f.unit.String()
}

func (f isoFormatter) Format(amount decimal.Decimal) string {
	return f.Code() + " " + Number(amount)
}

// Number 千分位、两位小数（"-1,234.50"）
func Number(amount decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
}

// Percent 百分数，保留两位小数（"12.50%"）
func Percent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
