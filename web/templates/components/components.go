package components

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/models"
)

// Markup writes HTML for a component. Text and attribute values go
// through templ's escaping, hrefs through its URL sanitizer. The first
// write error stops all further output.
type Markup struct {
	w   io.Writer
	err error
}

// Raw writes trusted markup as is
func (m *Markup) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Text writes an escaped text or attribute value
func (m *Markup) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Int writes a decimal number
func (m *Markup) Int(n int) {
	m.Raw(strconv.Itoa(n))
}

// URL writes a sanitized, escaped URL for href and src attributes
func (m *Markup) URL(u string) {
	m.Raw(templ.EscapeString(string(templ.URL(u))))
}

// Money writes an amount with the storefront currency symbol
func (m *Markup) Money(symbol string, value models.Money) {
	m.Text(models.FormatMoney(value, symbol))
}

// Render writes a nested component
func (m *Markup) Render(ctx context.Context, c templ.Component) {
	if m.err != nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

// HTML turns a markup writer into a templ component
func HTML(write func(ctx context.Context, m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m := &Markup{w: w}
		write(ctx, m)
		return m.err
	})
}

// CSRFField renders the hidden token input of the current request
func CSRFField() templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw(`<input type="hidden" name="csrf_token" value="`)
		m.Text(middleware.GetCSRFToken(ctx))
		m.Raw(`">`)
	})
}

// ToggleOpenURL is the my-orders link that expands or collapses one order
func ToggleOpenURL(open models.ExpandedSet, id string) string {
	query := open.Toggle(id).Query()
	if query == "" {
		return "/orders"
	}
	return "/orders?" + query
}

// LayoutData configures the page chrome
type LayoutData struct {
	Title string
	Brand string
	Page  models.Page
}

var navLinks = []struct {
	href  string
	label string
	page  models.Page
}{
	{"/", "Comprar Ingressos", models.PageBuyTickets},
	{"/orders", "Meus Pedidos", models.PageMyOrders},
	{"/tickets", "Meus Ingressos", models.PageMyTickets},
}

// Layout renders the page chrome around content
func Layout(data LayoutData, content templ.Component) templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n")
		m.Raw("\t<meta charset=\"utf-8\">\n\t<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
		m.Raw("\t<title>")
		m.Text(data.Title)
		m.Raw(" | ")
		m.Text(data.Brand)
		m.Raw("</title>\n\t<script src=\"https://unpkg.com/htmx.org@1.9.12\"></script>\n")
		m.Raw(stylesheet)
		m.Raw("</head>\n<body hx-headers='{\"X-CSRF-Token\": \"")
		m.Text(middleware.GetCSRFToken(ctx))
		m.Raw("\"}'>\n\t<header class=\"site-header\">\n\t\t<a class=\"brand\" href=\"/\">")
		m.Text(data.Brand)
		m.Raw("</a>\n\t\t<nav>\n")
		for _, link := range navLinks {
			m.Raw("\t\t\t<a href=\"")
			m.URL(link.href)
			m.Raw(`"`)
			if link.page == data.Page {
				m.Raw(` class="active"`)
			}
			m.Raw(">")
			m.Text(link.label)
			m.Raw("</a>\n")
		}
		m.Raw("\t\t</nav>\n\t</header>\n\t<main>\n")
		m.Render(ctx, content)
		m.Raw("\n\t</main>\n</body>\n</html>\n")
	})
}

const stylesheet = `	<style>
		body { font-family: system-ui, sans-serif; margin: 0; background: #f6f7f9; color: #1f2933; }
		.site-header { display: flex; align-items: center; justify-content: space-between; padding: 1rem 2rem; background: #2f6d3a; color: #fff; }
		.site-header a { color: #fff; text-decoration: none; margin-left: 1rem; }
		.site-header a.active { font-weight: 700; border-bottom: 2px solid #fff; }
		.brand { font-size: 1.4rem; font-weight: 700; margin-left: 0 !important; }
		main { max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
		.card { background: #fff; border-radius: 8px; padding: 1rem 1.25rem; margin-bottom: 1rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
		.alert { padding: .75rem 1rem; border-radius: 6px; margin-bottom: 1rem; }
		.alert-danger { background: #fde8e8; color: #9b1c1c; }
		.alert-success { background: #e3f9e5; color: #1e5b2a; }
		.alert-info { background: #e6f0ff; color: #1c3d8f; }
		.badge { display: inline-block; padding: .15rem .6rem; border-radius: 999px; font-size: .85rem; }
		.badge-success { background: #e3f9e5; color: #1e5b2a; }
		.badge-warning { background: #fff5d6; color: #8a5a00; }
		.badge-danger { background: #fde8e8; color: #9b1c1c; }
		.badge-neutral { background: #eceff3; color: #3e4c59; }
		.qr img, .qr-placeholder { width: 160px; height: 160px; }
		.qr-placeholder { display: flex; align-items: center; justify-content: center; background: #eceff3; color: #616e7c; }
		button[disabled] { opacity: .6; cursor: not-allowed; }
		.htmx-request .when-idle { display: none; }
		.when-busy { display: none; }
		.htmx-request .when-busy { display: inline; }
	</style>
`

// Alert renders a dismissable message box
func Alert(tone, message string) templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw(`<div class="alert alert-`)
		m.Text(tone)
		m.Raw(`" role="alert">`)
		m.Text(message)
		m.Raw(`</div>`)
	})
}

// ErrorState renders a failed read with a retry link
func ErrorState(message, retryURL string) templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw("<div class=\"card error-state\">\n\t")
		m.Render(ctx, Alert("danger", message))
		if retryURL != "" {
			m.Raw("\n\t<a href=\"")
			m.URL(retryURL)
			m.Raw(`">Tentar novamente</a>`)
		}
		m.Raw("\n</div>")
	})
}

// StatusBadge renders an order's payment status
func StatusBadge(status models.OrderStatus) templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw(`<span class="badge badge-`)
		m.Text(status.Tone())
		m.Raw(`">`)
		m.Text(status.Label())
		m.Raw(`</span>`)
	})
}

// QRCode renders a ticket's QR code image with its placeholder fallback
func QRCode(ticket models.Ticket) templ.Component {
	return HTML(func(ctx context.Context, m *Markup) {
		m.Raw("<div class=\"qr\">\n")
		if !ticket.HasQRCode() {
			m.Raw("\t<div class=\"qr-placeholder\">QR indisponível</div>\n</div>")
			return
		}
		m.Raw("\t<img src=\"")
		m.URL(ticket.QRCodeURL)
		m.Raw(`" alt="QR Code do ingresso `)
		m.Text(ticket.ID)
		m.Raw("\"\n\t\tonerror=\"this.style.display='none'; this.nextElementSibling.style.display='flex';\">\n")
		m.Raw("\t<div class=\"qr-placeholder\" style=\"display: none;\">QR indisponível</div>\n")
		m.Raw("\t<a href=\"")
		m.URL(ticket.QRCodeURL)
		m.Raw("\" target=\"_blank\" rel=\"noopener\">Baixar QR Code</a>\n</div>")
	})
}
