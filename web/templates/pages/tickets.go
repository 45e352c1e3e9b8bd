package pages

import (
	"context"

	"github.com/a-h/templ"

	"ticket-storefront/internal/models"
	"ticket-storefront/web/templates/components"
)

// CartSummaryData is the cart panel shown next to the ticket list
type CartSummaryData struct {
	Currency string
	Cart     *models.Cart
	Error    string
}

// TicketsPageData is the ticket list step of the buy-tickets page
type TicketsPageData struct {
	Storefront
	EventName   string
	TicketTypes []models.TicketType
	LoadError   string
	Cart        CartSummaryData
}

// TicketsPage renders the ticket list with the cart summary
func TicketsPage(data TicketsPageData) templ.Component {
	return page(data.Storefront, models.PageBuyTickets, "Ingressos", func(ctx context.Context, m *markup) {
		m.Raw("<div class=\"storefront-grid\">\n\t<section class=\"ticket-list\">\n\t\t<h1>Ingressos Disponíveis</h1>\n")
		if data.EventName != "" {
			m.Raw("\t\t<p class=\"event-name\">")
			m.Text(data.EventName)
			m.Raw("</p>\n")
		}
		switch {
		case data.LoadError != "":
			m.Render(ctx, components.ErrorState(data.LoadError, "/"))
		case len(data.TicketTypes) == 0:
			m.Raw("\t\t<div class=\"card\"><p>Nenhum ingresso disponível no momento.</p></div>\n")
		default:
			for _, tt := range data.TicketTypes {
				ticketTypeCard(ctx, m, data.Currency, tt)
			}
		}
		m.Raw("\t</section>\n\t")
		m.Render(ctx, CartSummary(data.Cart))
		m.Raw("\n</div>\n")
	})
}

func ticketTypeCard(ctx context.Context, m *markup, currency string, tt models.TicketType) {
	m.Raw("\t\t<div class=\"card ticket-type")
	if !tt.CanPurchase() {
		m.Raw(" unavailable")
	}
	m.Raw("\">\n\t\t\t<h3>")
	m.Text(tt.Name)
	m.Raw("</h3>\n")
	if tt.Description != "" {
		m.Raw("\t\t\t<p>")
		m.Text(tt.Description)
		m.Raw("</p>\n")
	}
	m.Raw("\t\t\t<p class=\"price\">")
	m.Money(currency, tt.Price)
	m.Raw("</p>\n")

	switch {
	case !tt.Active:
		m.Raw("\t\t\t<p class=\"availability\">Em breve...</p>\n")
	case tt.IsSoldOut():
		m.Raw("\t\t\t<p class=\"availability\">Esgotado</p>\n")
	default:
		m.Raw("\t\t\t<p class=\"availability\">")
		m.Int(tt.AvailableQuantity)
		m.Raw(" ")
		m.Text(plural(tt.AvailableQuantity, "disponível", "disponíveis"))
		m.Raw("</p>\n")
		m.Raw("\t\t\t<form method=\"post\" action=\"/cart/add\" hx-post=\"/cart/add\" hx-target=\"#cart-summary\" hx-swap=\"outerHTML\">\n\t\t\t\t")
		m.Render(ctx, components.CSRFField())
		m.Raw("\n\t\t\t\t<input type=\"hidden\" name=\"ticket_type_id\" value=\"")
		m.Text(tt.ID)
		m.Raw("\">\n\t\t\t\t<label>Quantidade\n\t\t\t\t\t<input type=\"number\" name=\"quantity\" value=\"1\" min=\"1\" max=\"")
		m.Int(tt.AvailableQuantity)
		m.Raw("\">\n\t\t\t\t</label>\n\t\t\t\t<button type=\"submit\">Adicionar ao Carrinho</button>\n\t\t\t</form>\n")
	}
	m.Raw("\t\t</div>\n")
}

// CartSummary renders only the cart panel, for HTMX swaps
func CartSummary(data CartSummaryData) templ.Component {
	return components.HTML(func(ctx context.Context, m *markup) {
		m.Raw("<aside id=\"cart-summary\" class=\"card cart-summary\">\n\t<h2>Resumo do Pedido</h2>\n")
		if data.Error != "" {
			m.Raw("\t")
			m.Render(ctx, components.Alert("danger", data.Error))
			m.Raw("\n")
		}
		if data.Cart == nil || data.Cart.IsEmpty() {
			m.Raw("\t<p class=\"empty\">Seu carrinho está vazio.</p>\n</aside>")
			return
		}

		m.Raw("\t<ul class=\"cart-items\">\n")
		for _, item := range data.Cart.Items {
			cartItemRow(ctx, m, data.Currency, item)
		}
		m.Raw("\t</ul>\n\t<p class=\"items\">")
		items := data.Cart.TotalItems()
		m.Int(items)
		m.Raw(" ")
		m.Text(plural(items, "ingresso", "ingressos"))
		m.Raw("</p>\n\t<p class=\"total\"><strong>Total:</strong> ")
		m.Money(data.Currency, data.Cart.TotalPrice())
		m.Raw("</p>\n\t<a class=\"button\" href=\"/checkout\">Finalizar Compra</a>\n</aside>")
	})
}

func cartItemRow(ctx context.Context, m *markup, currency string, item models.CartItem) {
	m.Raw("\t\t<li class=\"cart-item\">\n\t\t\t<span class=\"name\">")
	m.Text(item.Name)
	m.Raw("</span>\n")

	m.Raw("\t\t\t<form method=\"post\" action=\"/cart/update\" hx-post=\"/cart/update\" hx-target=\"#cart-summary\" hx-swap=\"outerHTML\" hx-trigger=\"change\">\n\t\t\t\t")
	m.Render(ctx, components.CSRFField())
	m.Raw("\n\t\t\t\t<input type=\"hidden\" name=\"ticket_type_id\" value=\"")
	m.Text(item.TicketTypeID)
	m.Raw("\">\n\t\t\t\t<input type=\"number\" name=\"quantity\" value=\"")
	m.Int(item.Quantity)
	m.Raw("\" min=\"0\" aria-label=\"Quantidade de ")
	m.Text(item.Name)
	m.Raw("\">\n\t\t\t</form>\n")

	m.Raw("\t\t\t<span class=\"subtotal\">")
	m.Money(currency, item.Subtotal())
	m.Raw("</span>\n")

	m.Raw("\t\t\t<form method=\"post\" action=\"/cart/remove\" hx-post=\"/cart/remove\" hx-target=\"#cart-summary\" hx-swap=\"outerHTML\">\n\t\t\t\t")
	m.Render(ctx, components.CSRFField())
	m.Raw("\n\t\t\t\t<input type=\"hidden\" name=\"ticket_type_id\" value=\"")
	m.Text(item.TicketTypeID)
	m.Raw("\">\n\t\t\t\t<button type=\"submit\" aria-label=\"Remover ")
	m.Text(item.Name)
	m.Raw("\">Remover</button>\n\t\t\t</form>\n\t\t</li>\n")
}
