package pages

import (
	"context"

	"github.com/a-h/templ"

	"ticket-storefront/internal/models"
	"ticket-storefront/web/templates/components"
)

// Storefront carries the branding shared by every page
type Storefront struct {
	Brand    string
	Currency string
}

type markup = components.Markup

func page(shop Storefront, current models.Page, title string, body func(ctx context.Context, m *markup)) templ.Component {
	return components.Layout(components.LayoutData{
		Title: title,
		Brand: shop.Brand,
		Page:  current,
	}, components.HTML(body))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ErrorPage renders a full page around an error message
func ErrorPage(shop Storefront, current models.Page, message, retryURL string) templ.Component {
	return components.Layout(components.LayoutData{
		Title: "Erro",
		Brand: shop.Brand,
		Page:  current,
	}, components.ErrorState(message, retryURL))
}
