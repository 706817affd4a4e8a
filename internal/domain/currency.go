package domain

type Currency string

const (
	CurrencyBTC     Currency = "BTC"
	CurrencyLTC     Currency = "LTC"
	CurrencyETH     Currency = "ETH"
	CurrencySOL     Currency = "SOL"
	CurrencyUSDCSOL Currency = "USDC-SOL"
	CurrencyUSDCETH Currency = "USDC-ETH"
	CurrencyUSDTSOL Currency = "USDT-SOL"
	CurrencyUSDTETH Currency = "USDT-ETH"
	CurrencyXRP     Currency = "XRP"
	CurrencyBNB     Currency = "BNB"
	CurrencyTRX     Currency = "TRX"
	CurrencyMATIC   Currency = "MATIC"
	CurrencyAVAX    Currency = "AVAX"
	CurrencyDOGE    Currency = "DOGE"
)

// SupportedCurrencies - все 14 поддерживаемых валют депозитов
var SupportedCurrencies = []Currency{
	CurrencyBTC, CurrencyLTC, CurrencyETH, CurrencySOL,
	CurrencyUSDCSOL, CurrencyUSDCETH,
	CurrencyUSDTSOL, CurrencyUSDTETH,
	CurrencyXRP, CurrencyBNB, CurrencyTRX,
	CurrencyMATIC, CurrencyAVAX, CurrencyDOGE,
}

// parentChains: SPL/ERC-20 tokens share the deposit address with the
// parent chain (gas is paid in the parent coin)
var parentChains = map[Currency]Currency{
	CurrencyUSDCETH: CurrencyETH,
	CurrencyUSDTETH: CurrencyETH,
	CurrencyUSDCSOL: CurrencySOL,
	CurrencyUSDTSOL: CurrencySOL,
}

// native precision of the custodial ledger, in decimal places
var currencyPrecision = map[Currency]int32{
	CurrencyBTC:     8,
	CurrencyLTC:     8,
	CurrencyETH:     8,
	CurrencySOL:     9,
	CurrencyUSDCSOL: 6,
	CurrencyUSDCETH: 6,
	CurrencyUSDTSOL: 6,
	CurrencyUSDTETH: 6,
	CurrencyXRP:     6,
	CurrencyBNB:     8,
	CurrencyTRX:     6,
	CurrencyMATIC:   8,
	CurrencyAVAX:    8,
	CurrencyDOGE:    8,
}

func (c Currency) IsSupported() bool {
	_, ok := currencyPrecision[c]
	return ok
}

// ParentChain returns the chain whose address a token currency reuses,
// or the currency itself for native coins.
func (c Currency) ParentChain() Currency {
	if parent, ok := parentChains[c]; ok {
		return parent
	}
	return c
}

func (c Currency) IsToken() bool {
	_, ok := parentChains[c]
	return ok
}

func (c Currency) Precision() int32 {
	if p, ok := currencyPrecision[c]; ok {
		return p
	}
	return 8
}
