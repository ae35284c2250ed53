package utils

import (
	"fmt"
	"log"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// FormatPrice renders a price with two decimals, the precision used in
// outgoing signal messages.
func FormatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}

// FormatChange renders a signed percentage change with a direction marker,
// or N/A when the change could not be computed.
func FormatChange(change *float64) string {
	if change == nil {
		return "N/A"
	}
	switch {
	case *change > 0:
		return fmt.Sprintf("🟩%.3f%%", *change)
	case *change < 0:
		return fmt.Sprintf("🟥%.3f%%", *change)
	default:
		return "⬜0.000%"
	}
}
