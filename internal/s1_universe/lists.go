package s1_universe

// Static candidate lists, partitioned by strategy.
// ⭐ SSOT: 유니버스 목록 (프로세스 전역 불변)
var lists = map[string][]string{
	ListGrowth: {
		"AAPL", "MSFT", "NVDA", "AMZN", "GOOGL", "META", "TSLA", "AVGO", "AMD", "NFLX",
		"CRM", "ADBE", "NOW", "INTU", "PANW", "CRWD", "SNOW", "DDOG", "NET", "ZS",
		"SHOP", "MELI", "UBER", "ABNB", "ANET", "SMCI", "LLY", "ISRG", "AXON", "CELH",
		"DECK", "ONON", "APP", "PLTR", "TTD", "MDB", "HUBS", "TEAM", "FTNT", "ASML",
	},
	ListValue: {
		"BRK-B", "JPM", "BAC", "WFC", "C", "GS", "MS", "USB", "PNC", "TFC",
		"XOM", "CVX", "COP", "EOG", "PSX", "MPC", "VLO", "OXY", "DVN", "HAL",
		"PFE", "MRK", "BMY", "GILD", "CVS", "CI", "ABBV", "JNJ", "KHC", "GIS",
		"T", "VZ", "CMCSA", "INTC", "CSCO", "IBM", "F", "GM", "MO", "PM",
	},
	ListSectorETFs: {
		"XLK", "XLF", "XLE", "XLV", "XLI", "XLY", "XLP", "XLU", "XLB", "XLRE",
		"XLC", "SMH", "XBI", "KRE", "ITB", "IYT", "XOP", "GDX", "TAN", "ARKK",
	},
	ListMicroCap: {
		"SNDL", "TLRY", "PLUG", "FCEL", "SOFI", "NKLA", "OPEN", "LCID", "RIOT", "MARA",
		"BBAI", "SOUN", "IONQ", "RGTI", "QUBT", "ACHR", "JOBY", "LAZR", "CLSK", "HUT",
		"GEVO", "BNGO", "OCGN", "SENS", "CTRM", "ZOM", "GSAT", "NOK", "IQ", "DNA",
	},
	ListCryptoExposed: {
		"COIN", "MSTR", "RIOT", "MARA", "CLSK", "HUT", "BITF", "HIVE", "CIFR", "WULF",
		"IREN", "BTBT", "HOOD", "SQ", "PYPL", "IBIT", "FBTC", "BITO", "GBTC", "ETHE",
	},
	ListREITs: {
		"O", "PLD", "AMT", "CCI", "EQIX", "SPG", "PSA", "DLR", "WELL", "VICI",
		"AVB", "EQR", "MAA", "ESS", "INVH", "ARE", "VTR", "EXR", "KIM", "REG",
	},
}

// List names
const (
	ListGrowth        = "growth"
	ListValue         = "value"
	ListSectorETFs    = "sector_etfs"
	ListMicroCap      = "micro_cap"
	ListCryptoExposed = "crypto_exposed"
	ListREITs         = "reits"
)

// algorithmLists maps each algorithm to the lists it scans
var algorithmLists = map[string][]string{
	"canslim":            {ListGrowth},
	"technical_momentum": {ListGrowth, ListCryptoExposed, ListSectorETFs},
	"composite_rating":   {ListGrowth, ListValue, ListSectorETFs, ListREITs},
	"penny_sniper":       {ListMicroCap},
	"value_sleeper":      {ListValue, ListREITs},
	"alpha_predator":     {ListGrowth, ListCryptoExposed},
}
