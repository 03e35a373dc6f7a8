package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Asset
	}{
		{
			name:  "native",
			input: "BTC.BTC",
			want:  Asset{Chain: "BTC", Symbol: "BTC", Ticker: "BTC", Kind: KindNative},
		},
		{
			name:  "synth with contract suffix",
			input: "ETH/ETH-0x123",
			want:  Asset{Chain: "ETH", Symbol: "ETH-0x123", Ticker: "ETH", Kind: KindSynth},
		},
		{
			name:  "trade",
			input: "AVAX~AVAX",
			want:  Asset{Chain: "AVAX", Symbol: "AVAX", Ticker: "AVAX", Kind: KindTrade},
		},
		{
			name:  "native token with contract",
			input: "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48",
			want:  Asset{Chain: "ETH", Symbol: "USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", Ticker: "USDC", Kind: KindNative},
		},
		{
			name:  "synth wins over native delimiter",
			input: "BSC/BNB.X",
			want:  Asset{Chain: "BSC", Symbol: "BNB.X", Ticker: "BNB.X", Kind: KindSynth},
		},
		{
			name:  "trade wins over native delimiter",
			input: "GAIA~ATOM.1",
			want:  Asset{Chain: "GAIA", Symbol: "ATOM.1", Ticker: "ATOM.1", Kind: KindTrade},
		},
		{
			name:  "segments trimmed",
			input: " DOGE . DOGE ",
			want:  Asset{Chain: "DOGE", Symbol: "DOGE", Ticker: "DOGE", Kind: KindNative},
		},
		{
			name:  "extra segments ignored",
			input: "LTC.LTC.EXTRA",
			want:  Asset{Chain: "LTC", Symbol: "LTC", Ticker: "LTC", Kind: KindNative},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	inputs := []string{
		"",
		"BTC",
		".BTC",
		"BTC.",
		"  .  ",
		"/ETH",
		"ETH~ ",
	}
	for _, input := range inputs {
		_, ok := Parse(input)
		assert.False(t, ok, "input %q", input)
		assert.Empty(t, ChainOf(input), "input %q", input)
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{"BTC.BTC", "ETH/ETH-0x123", "THOR~RUNE", "bogus", ""}
	for _, input := range inputs {
		first, ok1 := Parse(input)
		second, ok2 := Parse(input)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestAssetStringRoundTrip(t *testing.T) {
	for _, input := range []string{"BTC.BTC", "ETH/ETH-0x123", "THOR~RUNE"} {
		a, ok := Parse(input)
		require.True(t, ok)
		assert.Equal(t, input, a.String())

		again, ok := Parse(a.String())
		require.True(t, ok)
		assert.Equal(t, a, again)
	}
}
