package notifications

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/chopnowhq/chopnow-backend/pkg/db/models"
)

var orderEmailTmpl = template.Must(template.New("order_email").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Heading}}</h2>
  <p>Order <strong>{{.OrderID}}</strong> at {{.BranchName}} is {{.Status}}.</p>
  <table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">
    <tr><th align="left">Item</th><th align="right">Qty</th><th align="right">Unit</th><th align="right">Subtotal</th></tr>
    {{range .Lines}}
    <tr>
      <td>{{.Name}}</td>
      <td align="right">{{.Quantity}}</td>
      <td align="right">{{.UnitPrice}}</td>
      <td align="right">{{.Subtotal}}</td>
    </tr>
    {{end}}
    {{if .DeliveryFee}}
    <tr><td colspan="3" align="right">Delivery fee</td><td align="right">{{.DeliveryFee}}</td></tr>
    {{end}}
    <tr><td colspan="3" align="right"><strong>Total</strong></td><td align="right"><strong>{{.Total}}</strong></td></tr>
  </table>
  {{if .Instructions}}<p>Instructions: {{.Instructions}}</p>{{end}}
</body>
</html>`))

type emailLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

type emailData struct {
	Heading      string
	OrderID      string
	BranchName   string
	Status       string
	Lines        []emailLine
	DeliveryFee  string
	Total        string
	Instructions string
}

func renderOrderEmail(order *models.Order, heading string) (string, error) {
	data := emailData{
		Heading:    heading,
		OrderID:    order.ID.String(),
		BranchName: branchName(order),
		Status:     order.Status.String(),
		Total:      formatAmount(order.TotalAmount),
	}
	if order.DeliveryFee != nil {
		data.DeliveryFee = formatAmount(*order.DeliveryFee)
	}
	if order.SpecialInstructions != nil {
		data.Instructions = *order.SpecialInstructions
	}
	for _, item := range order.Items {
		name := item.MenuItemID.String()
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		data.Lines = append(data.Lines, emailLine{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: formatAmount(item.UnitPrice),
			Subtotal:  formatAmount(item.Subtotal),
		})
	}

	var buf bytes.Buffer
	if err := orderEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func branchName(order *models.Order) string {
	if order.Branch != nil && order.Branch.Name != "" {
		return order.Branch.Name
	}
	return order.BranchID.String()
}

func formatAmount(amount decimal.Decimal) string {
	return "₦" + amount.StringFixed(2)
}
