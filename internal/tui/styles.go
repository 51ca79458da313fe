package tui

import (
	"fmt"
	"strings"

	"commercia-client/internal/model"
	"commercia-client/internal/render"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB"))
	subtitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827"))
	timeStyle      = lipgloss.NewStyle().Faint(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309"))
	priceStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16A34A"))
	cardStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1)
)

func badge(style *render.IntentStyle) string {
	if style == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.Color)).
		Render(fmt.Sprintf("[%s %s]", style.Icon, style.Label))
}

func renderMessage(mv render.MessageView, width int) string {
	var b strings.Builder

	author := assistantStyle.Render("🤖 " + mv.Author)
	if mv.Role == model.RoleUser {
		author = userStyle.Render("🙂 " + mv.Author)
	}
	b.WriteString(author)
	if mv.Badge != nil {
		b.WriteString(" " + badge(mv.Badge))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(mv.Text))
	b.WriteString("\n")

	for _, block := range mv.Blocks {
		if block.Order != nil {
			b.WriteString(renderOrder(block.Order))
		} else {
			b.WriteString(renderProducts(block.Products, width))
		}
		b.WriteString("\n")
	}

	b.WriteString(timeStyle.Render(mv.Time))
	return b.String()
}

func renderProducts(cards []render.ProductCard, width int) string {
	cardWidth := width/2 - 4
	if cardWidth < 24 {
		cardWidth = 24
	}

	rendered := make([]string, 0, len(cards))
	for _, p := range cards {
		body := strings.Join([]string{
			lipgloss.NewStyle().Bold(true).Render(p.Name),
			subtitleStyle.Render(p.Category),
			priceStyle.Render(p.Price),
			p.Description,
			timeStyle.Render("ID: " + p.ID),
		}, "\n")
		rendered = append(rendered, cardStyle.Width(cardWidth).Render(body))
	}

	// 两列布局
	var rows []string
	for i := 0; i < len(rendered); i += 2 {
		if i+1 < len(rendered) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[i], rendered[i+1]))
		} else {
			rows = append(rows, rendered[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderOrder(order *render.OrderView) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(order.Title),
		"Pedido: " + order.OrderID,
		"Status: " + order.Status,
		"Data da Compra: " + order.PurchaseDate,
		"Previsão de Entrega: " + order.EstimatedDelivery,
	}
	if len(order.Items) > 0 {
		lines = append(lines, "Produtos:")
		for _, item := range order.Items {
			lines = append(lines, "  • "+item)
		}
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
