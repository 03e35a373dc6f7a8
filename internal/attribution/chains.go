package attribution

import "sort"

// ChainTable maps network chain codes (the prefix of pool identifiers) to display names.
// It is immutable once built.
type ChainTable struct {
	byCode    map[string]string
	byDisplay map[string]string
}

// NewChainTable copies entries into a new table. Blank codes or names are ignored.
func NewChainTable(entries map[string]string) ChainTable {
	table := ChainTable{
		byCode:    make(map[string]string, len(entries)),
		byDisplay: make(map[string]string, len(entries)),
	}
	for code, display := range entries {
		if code == "" || display == "" {
			continue
		}
		table.byCode[code] = display
		table.byDisplay[display] = code
	}
	return table
}

// DefaultChainTable returns the chains with pools on the network.
func DefaultChainTable() ChainTable {
	return NewChainTable(map[string]string{
		"BTC":  "bitcoin",
		"ETH":  "ethereum",
		"LTC":  "litecoin",
		"DOGE": "dogechain",
		"GAIA": "cosmos",
		"AVAX": "avax",
		"BSC":  "bsc",
		"BCH":  "bitcoin_cash",
		"BASE": "base",
		"THOR": "thorchain",
	})
}

// Codes returns the network chain codes in sorted order.
func (t ChainTable) Codes() []string {
	codes := make([]string, 0, len(t.byCode))
	for code := range t.byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (t ChainTable) Has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

func (t ChainTable) Display(code string) (string, bool) {
	display, ok := t.byCode[code]
	return display, ok
}

func (t ChainTable) Code(display string) (string, bool) {
	code, ok := t.byDisplay[display]
	return code, ok
}

// Resolve accepts either a chain code or a display name and returns the code.
func (t ChainTable) Resolve(name string) (string, bool) {
	if t.Has(name) {
		return name, true
	}
	return t.Code(name)
}

func (t ChainTable) Len() int {
	return len(t.byCode)
}
