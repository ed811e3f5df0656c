package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"fleet-dashboard/internal/models"
	"fleet-dashboard/internal/table"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	badgeStyles = map[models.VehicleStatus]lipgloss.Style{
		models.StatusOnline:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		models.StatusAttention: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		models.StatusCritical:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
)

// renderView draws a table view with its sort indicators and footer
func renderView(v table.View) string {
	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = strings.TrimSpace(h.Label + " " + h.Indicator())
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(v.Rows...)

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")

	if v.Empty {
		b.WriteString(subtleStyle.Render(v.EmptyText))
		b.WriteString("\n")
	}
	footer := v.Info
	if v.ShowControls {
		footer = fmt.Sprintf("%s · Página %d de %d", v.Info, v.Page, v.PageCount)
	}
	b.WriteString(subtleStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

// renderOverview draws the KPI block of the landing page
func renderOverview(o models.Overview) string {
	badges := lipgloss.JoinHorizontal(lipgloss.Top,
		badgeStyles[models.StatusOnline].Render(fmt.Sprintf("Online %d", o.Status.Online)),
		"  ",
		badgeStyles[models.StatusAttention].Render(fmt.Sprintf("Atenção %d", o.Status.Attention)),
		"  ",
		badgeStyles[models.StatusCritical].Render(fmt.Sprintf("Crítico %d", o.Status.Critical)),
	)

	lines := []string{
		titleStyle.Render("Visão geral"),
		fmt.Sprintf("Veículos:    %d", o.Vehicles),
		fmt.Sprintf("Distância:   %d km", o.TotalDistanceKm),
		fmt.Sprintf("Combustível: %d L", o.TotalFuelL),
		fmt.Sprintf("Ocioso:      %s", models.FormatMinutes(o.TotalIdleMin)),
		fmt.Sprintf("Alertas:     %d", o.Alerts),
		badges,
	}
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Render(strings.Join(lines, "\n")) + "\n"
}
