package pages

import (
	"context"

	"github.com/a-h/templ"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/utils"
	"ticket-storefront/web/templates/components"
)

// CardField describes one payment input
type CardField struct {
	Name        string
	Label       string
	Value       string
	Placeholder string
	MaxLength   int
	Masked      bool
}

// CardFields lists the payment inputs filled from a form
func CardFields(form models.PaymentForm) []CardField {
	return []CardField{
		cardField(utils.FieldCardNumber, form.CardNumber),
		cardField(utils.FieldCardHolderName, form.CardHolderName),
		cardField(utils.FieldCardExpiry, form.CardExpiry),
		cardField(utils.FieldCardCVV, form.CardCVV),
	}
}

func cardField(name, value string) CardField {
	switch name {
	case utils.FieldCardNumber:
		return CardField{Name: name, Label: "Número do Cartão", Value: value, Placeholder: "0000 0000 0000 0000", MaxLength: 19, Masked: true}
	case utils.FieldCardExpiry:
		return CardField{Name: name, Label: "Validade", Value: value, Placeholder: "MM/AAAA", MaxLength: 7, Masked: true}
	case utils.FieldCardCVV:
		return CardField{Name: name, Label: "CVV", Value: value, Placeholder: "000", MaxLength: 3, Masked: true}
	default:
		return CardField{Name: utils.FieldCardHolderName, Label: "Nome no Cartão", Value: value, Placeholder: "Como impresso no cartão", MaxLength: 64}
	}
}

// FormattedField renders a single payment input after masking, for HTMX swaps
func FormattedField(name, value string) templ.Component {
	return cardFieldInput(cardField(name, value))
}

func cardFieldInput(field CardField) templ.Component {
	return components.HTML(func(ctx context.Context, m *markup) {
		m.Raw(`<div class="field" id="field-`)
		m.Text(field.Name)
		m.Raw("\">\n\t<label for=\"")
		m.Text(field.Name)
		m.Raw(`">`)
		m.Text(field.Label)
		m.Raw("</label>\n\t<input id=\"")
		m.Text(field.Name)
		m.Raw(`" name="`)
		m.Text(field.Name)
		m.Raw(`" type="text" value="`)
		m.Text(field.Value)
		m.Raw(`" placeholder="`)
		m.Text(field.Placeholder)
		m.Raw(`" maxlength="`)
		m.Int(field.MaxLength)
		m.Raw(`" autocomplete="off" required`)
		if field.Masked {
			m.Raw(` inputmode="numeric" hx-post="/checkout/format" hx-trigger="keyup changed delay:150ms" hx-target="#field-`)
			m.Text(field.Name)
			m.Raw(`" hx-swap="outerHTML" hx-vals='{"field": "`)
			m.Text(field.Name)
			m.Raw(`"}'`)
		}
		m.Raw(">\n</div>")
	})
}

// CheckoutPageData is the checkout step of the buy-tickets page
type CheckoutPageData struct {
	Storefront
	Cart         *models.Cart
	Checkout     *models.Checkout
	Fields       []CardField
	Installments []models.InstallmentOption
}

// NewCheckoutPageData fills the derived fields from the cart and checkout
func NewCheckoutPageData(shop Storefront, cart *models.Cart, checkout *models.Checkout) CheckoutPageData {
	return CheckoutPageData{
		Storefront:   shop,
		Cart:         cart,
		Checkout:     checkout,
		Fields:       CardFields(checkout.Form),
		Installments: models.InstallmentOptions(cart.TotalPrice(), checkout.Form.Installments),
	}
}

// the submit button stays disabled until every required input has a value
const (
	checkoutFormScript   = `var ok = Array.prototype.every.call(this.querySelectorAll('input[required]'), function (i) { return i.value.trim() !== ''; }); this.querySelector('button[type=submit]').disabled = !ok;`
	checkoutSubmitScript = `var b = this.querySelector('button[type=submit]'); b.disabled = true; b.textContent = 'Processando...';`
)

// CheckoutPage renders the payment form and order summary
func CheckoutPage(data CheckoutPageData) templ.Component {
	return page(data.Storefront, models.PageBuyTickets, "Pagamento", func(ctx context.Context, m *markup) {
		m.Raw("<div class=\"checkout-grid\">\n\t<section class=\"card payment\">\n\t\t<h1>Dados do Pagamento</h1>\n")
		if data.Checkout.Error != "" {
			m.Raw("\t\t")
			m.Render(ctx, components.Alert("danger", data.Checkout.Error))
			m.Raw("\n")
		}
		m.Raw("\t\t<form id=\"checkout-form\" method=\"post\" action=\"/checkout\"\n\t\t\toninput=\"")
		m.Raw(checkoutFormScript)
		m.Raw("\"\n\t\t\tonsubmit=\"")
		m.Raw(checkoutSubmitScript)
		m.Raw("\">\n\t\t\t")
		m.Render(ctx, components.CSRFField())
		m.Raw("\n")
		for _, field := range data.Fields {
			m.Render(ctx, cardFieldInput(field))
		}

		m.Raw("\n\t\t\t<div class=\"field\">\n\t\t\t\t<label for=\"installments\">Parcelas</label>\n\t\t\t\t<select id=\"installments\" name=\"installments\">\n")
		for _, option := range data.Installments {
			m.Raw("\t\t\t\t\t<option value=\"")
			m.Int(option.Count)
			m.Raw(`"`)
			if option.Selected {
				m.Raw(" selected")
			}
			m.Raw(">")
			m.Int(option.Count)
			m.Raw("x de ")
			m.Money(data.Currency, option.Value)
			m.Raw("</option>\n")
		}
		m.Raw("\t\t\t\t</select>\n\t\t\t</div>\n\t\t\t<button type=\"submit\"")
		if !data.Checkout.CanSubmit() {
			m.Raw(" disabled")
		}
		m.Raw(">")
		if data.Checkout.State == models.CheckoutSubmitting {
			m.Raw("Processando...")
		} else {
			m.Raw("Confirmar Pagamento")
		}
		m.Raw("</button>\n\t\t</form>\n\t\t<a href=\"/\">Voltar aos ingressos</a>\n\t</section>\n")

		m.Raw("\t<aside class=\"card order-summary\">\n\t\t<h2>Resumo do Pedido</h2>\n\t\t<ul>\n")
		for _, item := range data.Cart.Items {
			m.Raw("\t\t\t<li>")
			m.Int(item.Quantity)
			m.Raw("x ")
			m.Text(item.Name)
			m.Raw(" <span>")
			m.Money(data.Currency, item.Subtotal())
			m.Raw("</span></li>\n")
		}
		m.Raw("\t\t</ul>\n\t\t<p class=\"total\"><strong>Total:</strong> ")
		m.Money(data.Currency, data.Cart.TotalPrice())
		m.Raw("</p>\n\t</aside>\n</div>\n")
	})
}

// CheckoutCompletePage renders the order confirmation
func CheckoutCompletePage(shop Storefront) templ.Component {
	return page(shop, models.PageBuyTickets, "Pedido Confirmado", func(ctx context.Context, m *markup) {
		m.Raw("<section class=\"card complete\">\n\t<h1>✅ Pedido Confirmado!</h1>\n")
		m.Raw("\t<p>Seu pedido foi processado com sucesso.</p>\n\t<p>Você receberá um e-mail com os detalhes em breve.</p>\n")
		m.Raw("\t<form method=\"post\" action=\"/checkout/new\">\n\t\t")
		m.Render(ctx, components.CSRFField())
		m.Raw("\n\t\t<button type=\"submit\">Fazer Novo Pedido</button>\n\t</form>\n\t<a href=\"/orders\">Ver Meus Pedidos</a>\n</section>\n")
	})
}
