package selectors

import "testing"

func TestDefaultCoversAllElements(t *testing.T) {
	table := Default()
	elements := []Element{
		SymbolToggle, AssetOverlay, TradePanel, SearchInput, AmountInput,
		BuyButton, SellButton, ClosedTab, ClosedRow, PairListItem,
	}
	for _, el := range elements {
		if len(table.For(el)) == 0 {
			t.Errorf("Element %s has no locators", el)
		}
	}
}

func TestForUnknownElement(t *testing.T) {
	if got := Default().For(Element("bogus")); got != nil {
		t.Errorf("Expected nil for unknown element, got %v", got)
	}
}
