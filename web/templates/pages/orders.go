package pages

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"ticket-storefront/internal/models"
	"ticket-storefront/web/templates/components"
)

// OrderRow is one entry of the order list
type OrderRow struct {
	Currency string
	Order    models.Order
	Status   models.OrderStatus
	Expanded bool
}

// OrdersPageData is the my-orders page
type OrdersPageData struct {
	Storefront
	Orders    []OrderRow
	Open      models.ExpandedSet
	LoadError string
}

// OrdersPage renders the customer's order list
func OrdersPage(data OrdersPageData) templ.Component {
	return page(data.Storefront, models.PageMyOrders, "Meus Pedidos", func(ctx context.Context, m *markup) {
		m.Raw("<h1>Meus Pedidos</h1>\n")
		switch {
		case data.LoadError != "":
			m.Render(ctx, components.ErrorState(data.LoadError, "/orders"))
		case len(data.Orders) == 0:
			m.Raw("<div class=\"card\"><p>Você ainda não fez nenhum pedido.</p></div>\n")
		default:
			for _, row := range data.Orders {
				m.Raw("<article class=\"card order\" id=\"order-")
				m.Text(row.Order.ID)
				m.Raw("\">\n\t<header class=\"order-header\">\n")
				orderHeading(ctx, m, row)
				m.Raw("\t\t<a href=\"")
				m.URL(components.ToggleOpenURL(data.Open, row.Order.ID))
				if row.Expanded {
					m.Raw("\" aria-expanded=\"true\">Ocultar detalhes</a>\n\t</header>\n")
					orderBody(ctx, m, row)
					m.Raw("\t<a href=\"")
					m.URL("/orders/" + url.PathEscape(row.Order.ID))
					m.Raw("\">Detalhes do Pedido</a>\n")
				} else {
					m.Raw("\" aria-expanded=\"false\">Ver detalhes</a>\n\t</header>\n")
				}
				m.Raw("</article>\n")
			}
		}
	})
}

// OrderDetailPageData is a single order with its tickets
type OrderDetailPageData struct {
	Storefront
	Order     *OrderRow
	LoadError string
}

// OrderDetailPage renders one order's details
func OrderDetailPage(data OrderDetailPageData) templ.Component {
	return page(data.Storefront, models.PageMyOrders, "Detalhes do Pedido", func(ctx context.Context, m *markup) {
		m.Raw("<a href=\"/orders\">Voltar aos pedidos</a>\n<h1>Detalhes do Pedido</h1>\n")
		switch {
		case data.LoadError != "":
			m.Render(ctx, components.ErrorState(data.LoadError, "/orders"))
		case data.Order != nil:
			m.Raw("<article class=\"card order\" id=\"order-")
			m.Text(data.Order.Order.ID)
			m.Raw("\">\n\t<header class=\"order-header\">\n")
			orderHeading(ctx, m, *data.Order)
			m.Raw("\t</header>\n")
			orderBody(ctx, m, *data.Order)
			m.Raw("</article>\n")
		}
	})
}

func orderHeading(ctx context.Context, m *markup, row OrderRow) {
	m.Raw("\t\t<div><strong>Pedido:</strong> ")
	m.Text(row.Order.ID)
	m.Raw("</div>\n\t\t<div><strong>Evento:</strong> ")
	m.Text(row.Order.EventName)
	m.Raw("</div>\n\t\t<div><strong>Data do Pedido:</strong> ")
	m.Text(row.Order.CreatedAt.Display())
	m.Raw("</div>\n\t\t<div><strong>Total:</strong> ")
	m.Money(row.Currency, row.Order.TotalValue)
	m.Raw("</div>\n\t\t")
	m.Render(ctx, components.StatusBadge(row.Status))
	m.Raw("\n")
}

func orderBody(ctx context.Context, m *markup, row OrderRow) {
	order := row.Order
	m.Raw("\t<div class=\"order-body\">\n\t\t<dl>\n\t\t\t<dt>Cliente:</dt><dd>")
	m.Text(order.ClientName)
	m.Raw("</dd>\n\t\t\t<dt>Email:</dt><dd>")
	m.Text(order.ClientEmailOrFallback())
	m.Raw("</dd>\n\t\t\t<dt>Parcelas:</dt><dd>")
	m.Int(order.InstallmentsOrDefault())
	m.Raw("x</dd>\n\t\t\t<dt>ID Transação:</dt><dd>")
	m.Text(order.TransactionIDOrFallback())
	m.Raw("</dd>\n\t\t</dl>\n\t\t<h3>Ingressos</h3>\n")
	if order.HasTickets() {
		m.Raw("\t\t<div class=\"tickets\">")
		for _, ticket := range order.Tickets {
			ticketCard(ctx, m, ticket)
		}
		m.Raw("</div>\n")
	} else {
		m.Raw("\t\t<p class=\"muted\">Ingressos em processamento</p>\n")
	}
	m.Raw("\t</div>\n")
}

func ticketCard(ctx context.Context, m *markup, ticket models.Ticket) {
	m.Raw("<div class=\"card ticket\" id=\"ticket-")
	m.Text(ticket.ID)
	m.Raw("\">\n\t")
	m.Render(ctx, components.QRCode(ticket))
	m.Raw("\n\t<div><strong>Tipo:</strong> ")
	m.Text(ticket.TicketTypeName)
	m.Raw("</div>\n\t<div><strong>Evento:</strong> ")
	m.Text(ticket.EventName)
	m.Raw("</div>\n\t<div><strong>Data do Evento:</strong> ")
	m.Text(ticket.StartDateEvent.DisplayDate())
	m.Raw("</div>\n\t<div><strong>Status:</strong> ")
	m.Text(ticket.StatusLabel())
	m.Raw("</div>\n")
	if ticket.ValidatedAt != nil {
		m.Raw("\t<div><strong>Validado em:</strong> ")
		m.Text(ticket.ValidatedAt.Display())
		m.Raw("</div>\n")
	}
	m.Raw("</div>")
}

// MyTicketsPageData is the my-tickets page
type MyTicketsPageData struct {
	Storefront
	Tickets   []models.Ticket
	LoadError string
}

// MyTicketsPage renders the tickets of approved orders
func MyTicketsPage(data MyTicketsPageData) templ.Component {
	return page(data.Storefront, models.PageMyTickets, "Meus Ingressos", func(ctx context.Context, m *markup) {
		m.Raw("<h1>Meus Ingressos</h1>\n")
		switch {
		case data.LoadError != "":
			m.Render(ctx, components.ErrorState(data.LoadError, "/tickets"))
		case len(data.Tickets) == 0:
			m.Raw("<div class=\"card\"><p>Você ainda não possui ingressos aprovados.</p></div>\n")
		default:
			m.Raw("<div class=\"tickets\">")
			for _, ticket := range data.Tickets {
				ticketCard(ctx, m, ticket)
			}
			m.Raw("</div>\n")
		}
	})
}
