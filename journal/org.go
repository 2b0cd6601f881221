package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a TradeRecord as an Org-mode block suitable for
// pasting into a trading diary. Structured facts go in a PROPERTIES drawer.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Position #%d: %s %s (%s)", t.PositionID, t.Direction, t.Instrument, shortID(t.TradeID))
	open := t.OpenTime.UTC().Format(time.RFC3339)
	close := t.CloseTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.TradeID)
	fmt.Fprintf(&b, ":SESSION: %s\n", t.Session)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", t.Direction)
	fmt.Fprintf(&b, ":STAKE: %s\n", money(t.Stake))
	fmt.Fprintf(&b, ":ENTRY_PRICE: %s\n", price(t.EntryPrice))
	fmt.Fprintf(&b, ":EXIT_PRICE: %s\n", price(t.ExitPrice))
	fmt.Fprintf(&b, ":PRICE_CHANGE: %s\n", price(t.PriceChange))
	fmt.Fprintf(&b, ":PROFIT: %s\n", money(t.Profit))
	fmt.Fprintf(&b, ":OPEN_TIME: %s\n", open)
	fmt.Fprintf(&b, ":CLOSE_TIME: %s\n", close)
	fmt.Fprintf(&b, ":REASON: %s\n", t.Reason)
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

// shortID keeps the tail of the ID, where the position number lives.
func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
