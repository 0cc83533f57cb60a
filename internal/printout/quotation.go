// Package printout renders documents as standalone HTML pages ready for the
// browser's print dialog.
package printout

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"syntra-backoffice/internal/pricing"
)

const ContentTypeHTML = "text/html; charset=utf-8"

type Line struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

type Quotation struct {
	Number       string
	BranchName   string
	CustomerName string
	Status       string
	CreatedAt    time.Time
	ValidUntil   *time.Time
	Notes        string
	Items        []Line
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

func QuotationFilename(number string) string {
	return fmt.Sprintf("quotation_%s.html", number)
}

var quotationTmpl = template.Must(template.New("quotation").Funcs(template.FuncMap{
	"money": pricing.Money,
	"qty":   func(d decimal.Decimal) string { return d.String() },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Quotation {{.Number}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
table { width: 100%; border-collapse: collapse; }
th, td { border-bottom: 1px solid #ccc; padding: 4px 8px; text-align: left; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
</style>
</head>
<body>
<h1>Quotation {{.Number}}</h1>
<p>Branch: {{.BranchName}}<br>
Customer: {{.CustomerName}}<br>
Date: {{date .CreatedAt}}<br>
{{- if .ValidUntil}}
Valid until: {{date .ValidUntil}}<br>
{{- end}}
Status: {{.Status}}</p>
<table>
<thead><tr><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Subtotal</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Description}}</td><td class="num">{{qty .Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Subtotal}}</td></tr>
{{- end}}
</tbody>
</table>
<table class="totals">
<tr><td class="num">Subtotal</td><td class="num">{{money .Subtotal}}</td></tr>
<tr><td class="num">Discount</td><td class="num">-{{money .Discount}}</td></tr>
<tr><td class="num">Tax</td><td class="num">{{money .Tax}}</td></tr>
<tr><td class="num"><strong>Total</strong></td><td class="num"><strong>{{money .Total}}</strong></td></tr>
</table>
{{- if .Notes}}
<p>{{.Notes}}</p>
{{- end}}
</body>
</html>
`))

func RenderQuotation(q Quotation) ([]byte, error) {
	var buf bytes.Buffer
	if err := quotationTmpl.Execute(&buf, q); err != nil {
		return nil, fmt.Errorf("render quotation %s: %w", q.Number, err)
	}
	return buf.Bytes(), nil
}
