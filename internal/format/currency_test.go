package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewCurrencyFormatter(t *testing.T) {
	f, err := NewCurrencyFormatter("")
	if err != nil {
		t.Fatalf("NewCurrencyFormatter: %v", err)
	}
	if f.Code() != "SAR" {
		t.Fatalf("Code = %s, want SAR", f.Code())
	}

	usd, err := NewCurrencyFormatter("usd")
	if err != nil {
		t.Fatalf("NewCurrencyFormatter(usd): %v", err)
	}
	if usd.Code() != "USD" {
		t.Fatalf("Code = %s, want USD", usd.Code())
	}

	if _, err := NewCurrencyFormatter("XXXX"); err == nil {
		t.Fatalf("invalid code accepted")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1500", "SAR 1,500.00"},
		{"1234567.891", "SAR 1,234,567.89"},
		{"0", "SAR 0.00"},
		{"-250.5", "SAR -250.50"},
	}
	f := Default()
	for _, c := range cases {
		if got := f.Format(decimal.RequireFromString(c.in)); got != c.want {
			t.Fatalf("Format(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.RequireFromString("-66.6667")); got != "-66.67%" {
		t.Fatalf("Percent = %q", got)
	}
}
