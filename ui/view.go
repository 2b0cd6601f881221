package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rustyeddy/rnndash/dashboard"
	"github.com/shopspring/decimal"
)

const sparkWidth = 72

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("RNN investment dashboard"))
	b.WriteString("\n")
	b.WriteString(m.header(m.session.Summary()))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	switch m.page {
	case pageVisualize:
		b.WriteString(m.visualizeView())
	case pageAuto:
		b.WriteString(m.autoView())
	case pagePositions:
		b.WriteString(m.positionsView())
	case pageFunds:
		b.WriteString(m.fundsView())
	}

	b.WriteString("\n")
	if m.status != "" {
		st := m.styles.positive
		if m.statusErr {
			st = m.styles.negative
		}
		b.WriteString(st.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(pageHelp{keys: m.keys, page: m.page}))
	return b.String()
}

func (m Model) header(sum dashboard.Summary) string {
	metric := func(label, value string) string {
		return m.styles.metric.Render(m.styles.metricLabel.Render(label) + "\n" + value)
	}

	profit := m.styles.metricValue.Render(m.money(sum.RealizedProfit))
	switch {
	case sum.RealizedProfit.IsPositive():
		profit = m.styles.positive.Render(m.money(sum.RealizedProfit))
	case sum.RealizedProfit.IsNegative():
		profit = m.styles.negative.Render(m.money(sum.RealizedProfit))
	}

	auto := m.styles.muted.Render("off")
	if sum.AutoMode {
		auto = m.styles.positive.Render("on")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		metric("Balance", m.styles.metricValue.Render(m.money(sum.Balance))),
		metric("Active investment", m.styles.metricValue.Render(m.money(sum.ActiveInvestment))),
		metric("Total profit", profit),
		metric("Auto mode", auto),
	)
}

func (m Model) tabs() string {
	parts := make([]string, pageCount)
	for p := page(0); p < pageCount; p++ {
		label := fmt.Sprintf("%d %s", p+1, p)
		if p == m.page {
			parts[p] = m.styles.activeTab.Render(label)
		} else {
			parts[p] = m.styles.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) visualizeView() string {
	if len(m.instruments) == 0 {
		return m.styles.warning.Render("No prediction data loaded.")
	}

	v := m.view
	actual := make([]float64, len(v.Records))
	predicted := make([]float64, len(v.Records))
	for i, r := range v.Records {
		actual[i] = r.Actual.InexactFloat64()
		predicted[i] = r.Predicted.InexactFloat64()
	}
	lo, hi := bounds(actual, predicted)

	var b strings.Builder
	b.WriteString(m.styles.heading.Render("RNN prediction - " + v.Instrument.String()))
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("   days %d-%d of %d", v.Start, v.End, v.Len)))
	b.WriteString("\n")
	b.WriteString(m.styles.actual.Render(sparkline(actual, sparkWidth, lo, hi)) + "  actual\n")
	b.WriteString(m.styles.predicted.Render(sparkline(predicted, sparkWidth, lo, hi)) + "  prediction\n")
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("range %.2f - %.2f", lo, hi)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.panel.Render(m.data.View()))
	return b.String()
}

func (m Model) autoView() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Automatic mode"))
	b.WriteString("\n\n")

	if !m.session.Summary().AutoMode {
		b.WriteString(m.styles.warning.Render("Auto mode is off. Press a to enable it."))
		return b.String()
	}

	b.WriteString(m.styles.positive.Render("Auto mode on: watching the trend for long or short entries."))
	b.WriteString("\n\n")

	price := m.styles.muted.Render("no price")
	if px, err := m.session.ReferencePrice(); err == nil {
		price = px.StringFixed(2)
	}
	ref := m.session.Summary().Reference

	lo, hi, ok := m.session.StakeBounds()
	fmt.Fprintf(&b, "Direction   %s\n", m.styles.metricValue.Render(m.direction.String()))
	fmt.Fprintf(&b, "Stake       %s  %s\n", m.styles.metricValue.Render(m.money(m.stake)),
		m.styles.muted.Render(fmt.Sprintf("(%s - %s)", m.money(lo), m.money(hi))))
	fmt.Fprintf(&b, "Entry       %s %s\n", price, m.styles.muted.Render(ref.String()))
	if !ok {
		b.WriteString("\n")
		b.WriteString(m.styles.warning.Render("Balance is below the minimum stake."))
	}
	return b.String()
}

func (m Model) positionsView() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Position history"))
	b.WriteString("\n\n")
	if len(m.positionIDs) == 0 {
		b.WriteString(m.styles.muted.Render("No positions yet."))
		return b.String()
	}
	b.WriteString(m.styles.panel.Render(m.positions.View()))
	return b.String()
}

func (m Model) fundsView() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Funds"))
	b.WriteString("\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

// money formats an amount with two decimals and thousands separators.
func (m Model) money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(c)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + m.currency + grouped.String() + "." + frac
}
