package telegram

import (
	"fmt"
	"strings"

	"futures-signal-bot/pkg/utils"
)

// displayOrder fixes how timeframes are listed in outgoing messages. The
// evaluator itself never depends on this ordering.
var displayOrder = []string{"1m", "5m", "15m", "1h", "24h"}

// FormatLongSignal renders a triggered long signal as an HTML Telegram
// message: pair, entry price, stop loss and the three take-profit levels.
func FormatLongSignal(symbol string, entry, stopLoss float64, takeProfits [3]float64) string {
	var sb strings.Builder

	sb.WriteString("<b>NEW LONG SIGNAL generated!</b>\n\n")
	sb.WriteString(fmt.Sprintf("PAIR: %s\n", symbol))
	sb.WriteString(fmt.Sprintf("Price: $%s\n\n", utils.FormatPrice(entry)))
	sb.WriteString(fmt.Sprintf("Stop Loss: $%s\n\n", utils.FormatPrice(stopLoss)))
	for i, tp := range takeProfits {
		sb.WriteString(fmt.Sprintf("TP%d: $%s\n", i+1, utils.FormatPrice(tp)))
	}

	return sb.String()
}

// FormatMarketUpdate renders the per-cycle market update broadcast for one
// symbol: current price, the three change blocks, funding rate and 24h
// volume.
func FormatMarketUpdate(symbol string, price, volume24h float64, fundingRate *float64, oiChanges, priceChanges, volumeChanges map[string]*float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 <b>%s</b>\n", symbol))
	sb.WriteString(fmt.Sprintf("Price: $%s\n\n", utils.FormatPrice(price)))
	sb.WriteString(FormatChangeLines("Open Interest", oiChanges))
	sb.WriteString("\n")
	sb.WriteString(FormatChangeLines("Price Change", priceChanges))
	sb.WriteString("\n")
	sb.WriteString(FormatChangeLines("Volume Change", volumeChanges))
	sb.WriteString("\n")
	if fundingRate != nil {
		sb.WriteString(fmt.Sprintf("Funding Rate: %.4f%%\n", *fundingRate))
	} else {
		sb.WriteString("Funding Rate: N/A\n")
	}
	sb.WriteString(fmt.Sprintf("24h Volume: %s\n", utils.FormatPrice(volume24h)))

	return sb.String()
}

// FormatChangeLines renders a titled block of per-timeframe changes, in the
// fixed display order, skipping timeframes that were not observed.
func FormatChangeLines(title string, changes map[string]*float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", title))
	for _, tf := range displayOrder {
		change, ok := changes[tf]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("├ %s (%s)\n", utils.FormatChange(change), tf))
	}
	return sb.String()
}
