// internal/pkg/pdf/invoice.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/user"
)

// InvoiceGenerator renders invoice PDFs for verified orders
type InvoiceGenerator struct {
	appName string
	tmpl    *template.Template
}

// NewInvoiceGenerator creates an invoice generator
func NewInvoiceGenerator(appName string) (*InvoiceGenerator, error) {
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"money": formatMoney,
	}).Parse(invoiceTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &InvoiceGenerator{appName: appName, tmpl: tmpl}, nil
}

type invoiceData struct {
	AppName  string
	Order    *order.Order
	Customer *user.User
	Address  *user.Address
}

// Generate renders the invoice for a verified order as PDF bytes
func (g *InvoiceGenerator) Generate(o *order.Order, customer *user.User, address *user.Address) ([]byte, error) {
	if o.Status != order.StatusVerified {
		return nil, fmt.Errorf("invoice available only for verified orders, order is %s", o.Status)
	}

	var html bytes.Buffer
	if err := g.tmpl.Execute(&html, invoiceData{
		AppName:  g.appName,
		Order:    o,
		Customer: customer,
		Address:  address,
	}); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to init pdf generator: %w", err)
	}
	pdfg.Dpi.Set(150)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.DisableExternalLinks.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}

func formatMoney(amount int64) string {
	// thousand-separated rupiah
	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if n <= 3 {
		return "Rp " + s
	}
	var out bytes.Buffer
	pre := n % 3
	if pre > 0 {
		out.WriteString(s[:pre])
		if n > pre {
			out.WriteString(".")
		}
	}
	for i := pre; i < n; i += 3 {
		out.WriteString(s[i : i+3])
		if i+3 < n {
			out.WriteString(".")
		}
	}
	return "Rp " + out.String()
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
h1 { font-size: 20px; margin-bottom: 0; }
.muted { color: #777; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { text-align: left; padding: 6px 8px; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
.num { text-align: right; }
.totals td { border: none; padding: 3px 8px; }
.grand { font-weight: bold; font-size: 14px; }
</style>
</head>
<body>
<h1>{{ .AppName }}</h1>
<p class="muted">Invoice {{ .Order.OrderNumber }} &middot; {{ .Order.CreatedAt.Format "2 Jan 2006" }}</p>

<p>
<strong>{{ .Customer.GetFullName }}</strong><br>
{{ .Address.RecipientName }}<br>
{{ .Address.AddressLine }}<br>
{{ .Address.City }}{{ if .Address.PostalCode }} {{ .Address.PostalCode }}{{ end }}
</p>

<table>
<tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
{{ range .Order.Items }}
<tr>
<td>{{ .ProductName }}</td>
<td class="num">{{ .Quantity }}</td>
<td class="num">{{ money .UnitPrice }}</td>
<td class="num">{{ money .Total }}</td>
</tr>
{{ end }}
</table>

<table class="totals">
<tr><td></td><td class="num">Subtotal</td><td class="num">{{ money .Order.Subtotal }}</td></tr>
<tr><td></td><td class="num">Shipping</td><td class="num">{{ money .Order.ShippingCost }}</td></tr>
<tr><td></td><td class="num">Discount</td><td class="num">- {{ money .Order.DiscountAmount }}</td></tr>
<tr class="grand"><td></td><td class="num">Total</td><td class="num">{{ money .Order.TotalAmount }}</td></tr>
</table>
</body>
</html>`
