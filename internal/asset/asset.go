package asset

import "strings"

const (
	nativeDelimiter = "."
	synthDelimiter  = "/"
	tradeDelimiter  = "~"
)

// Kind identifies how an asset is held on the network.
type Kind int

const (
	KindNative Kind = iota
	KindSynth
	KindTrade
)

func (k Kind) delimiter() string {
	switch k {
	case KindSynth:
		return synthDelimiter
	case KindTrade:
		return tradeDelimiter
	default:
		return nativeDelimiter
	}
}

func (k Kind) String() string {
	switch k {
	case KindSynth:
		return "synth"
	case KindTrade:
		return "trade"
	default:
		return "native"
	}
}

// Asset is a parsed pool or asset identifier such as "ETH.USDC-0XA0B8".
type Asset struct {
	Chain  string
	Symbol string
	Ticker string
	Kind   Kind
}

// String renders the asset back using the delimiter of its kind.
func (a Asset) String() string {
	return a.Chain + a.Kind.delimiter() + a.Symbol
}

// Parse splits an identifier into chain, symbol and ticker.
// The synth delimiter wins over the trade delimiter, which wins over the native one.
// It reports false when the chain or symbol segment is missing or blank.
func Parse(identifier string) (Asset, bool) {
	kind := KindNative
	switch {
	case strings.Contains(identifier, synthDelimiter):
		kind = KindSynth
	case strings.Contains(identifier, tradeDelimiter):
		kind = KindTrade
	}

	parts := strings.Split(identifier, kind.delimiter())
	if len(parts) < 2 {
		return Asset{}, false
	}

	chain := strings.TrimSpace(parts[0])
	symbol := strings.TrimSpace(parts[1])
	if chain == "" || symbol == "" {
		return Asset{}, false
	}

	ticker, _, _ := strings.Cut(symbol, "-")

	return Asset{
		Chain:  chain,
		Symbol: symbol,
		Ticker: ticker,
		Kind:   kind,
	}, true
}

// ChainOf returns the origin chain of an identifier, or "" when it does not parse.
func ChainOf(identifier string) string {
	a, ok := Parse(identifier)
	if !ok {
		return ""
	}
	return a.Chain
}
