// Package selectors maps logical UI elements of the trading platform to
// prioritized locator lists. The site's markup is unversioned and has served
// both class-based and attribute-based selectors across deploys; consumers
// try each entry in order and use the first one present in the DOM.
package selectors

// Element names one logical piece of the trading UI.
type Element string

const (
	SymbolToggle Element = "symbol_toggle"
	AssetOverlay Element = "asset_overlay"
	TradePanel   Element = "trade_panel"
	SearchInput  Element = "search_input"
	AmountInput  Element = "amount_input"
	BuyButton    Element = "buy_button"
	SellButton   Element = "sell_button"
	ClosedTab    Element = "closed_tab"
	ClosedRow    Element = "closed_row"
	PairListItem Element = "pair_list_item"
)

// Table holds the locator alternatives for every logical element. Entries are
// CSS selectors, except ones starting with "//" which are XPath (the closed
// tab has no stable class and is located by its text).
type Table map[Element][]string

// For returns the locator list for el. A nil slice means the element is
// unknown; callers treat that as a programming error, not a UI condition.
func (t Table) For(el Element) []string {
	return t[el]
}

// Default is the selector table for the current platform markup.
func Default() Table {
	return Table{
		SymbolToggle: {"span.current-symbol.current-symbol_cropped", ".current-symbol", ".pair-number-wrap"},
		AssetOverlay: {".drop-down-modal-wrap.active", "#modal-root .drop-down-modal-wrap.active"},
		TradePanel:   {"#put-call-buttons-chart-1", ".put-call-buttons"},
		SearchInput:  {`input[placeholder="Search"]`, `input[placeholder*="Search"]`},
		AmountInput:  {"#put-call-buttons-chart-1 input[type=text]", ".put-call-buttons input"},
		BuyButton:    {"#put-call-buttons-chart-1 a.btn-call", ".put-call-buttons a.buy", `//a[contains(., "Buy")]`},
		SellButton:   {"#put-call-buttons-chart-1 a.btn-put", ".put-call-buttons a.sell", `//a[contains(., "Sell")]`},
		ClosedTab:    {`//li[contains(., "Closed")]`, `//*[@role="tab"][contains(., "Closed")]`},
		ClosedRow:    {".deals-list__item", ".deals-list__item-first"},
		PairListItem: {".alist__label", ".alist__item"},
	}
}
