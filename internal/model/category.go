package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Icon is a symbolic reference into the fixed icon set.
type Icon string

// Known icons.
const (
	IconShoppingCart Icon = "ShoppingCart"
	IconCar          Icon = "Car"
	IconCoffee       Icon = "Coffee"
	IconHome         Icon = "Home"
	IconTarget       Icon = "Target"
	IconTrendingUp   Icon = "TrendingUp"
	IconDollarSign   Icon = "DollarSign"
	IconWallet       Icon = "Wallet"

	// IconGeneric is what every unknown icon name resolves to.
	IconGeneric = IconDollarSign
)

var iconGlyphs = map[Icon]string{
	IconShoppingCart: "🛒",
	IconCar:          "🚗",
	IconCoffee:       "☕",
	IconHome:         "🏠",
	IconTarget:       "🎯",
	IconTrendingUp:   "📈",
	IconDollarSign:   "💲",
	IconWallet:       "👛",
}

// ParseIcon maps a stored icon name onto the closed icon set.
func ParseIcon(name string) Icon {
	icon := Icon(name)
	if _, ok := iconGlyphs[icon]; ok {
		return icon
	}
	return IconGeneric
}

// Glyph returns the terminal glyph for the icon.
func (i Icon) Glyph() string {
	return iconGlyphs[ParseIcon(string(i))]
}

// UnmarshalJSON normalizes unknown icon names to IconGeneric.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("icon must be a string: %w", err)
	}
	*i = ParseIcon(s)
	return nil
}

// Category groups transactions for reporting.
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Color string          `json:"color"`
	Icon  Icon            `json:"icon"`
	Type  TransactionType `json:"type"`
}

// Validate checks the record-level rules of a category.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, c.Type)
	}
	return nil
}
