package models

// LibraryAsset is one entry in the built-in asset catalog
type LibraryAsset struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// LibraryCategory groups catalog assets by market type
type LibraryCategory struct {
	Name   string         `json:"name"`
	Assets []LibraryAsset `json:"assets"`
}

// AssetLibrary is the built-in catalog of commonly analyzed symbols, grouped
// by category. Served read-only to presentation layers.
var AssetLibrary = []LibraryCategory{
	{
		Name: "Crypto",
		Assets: []LibraryAsset{
			{Name: "Bitcoin", Symbol: "BTC-USD"},
			{Name: "Ethereum", Symbol: "ETH-USD"},
			{Name: "Solana", Symbol: "SOL-USD"},
			{Name: "Dogecoin", Symbol: "DOGE-USD"},
		},
	},
	{
		Name: "Stocks (US)",
		Assets: []LibraryAsset{
			{Name: "Apple", Symbol: "AAPL"},
			{Name: "Tesla", Symbol: "TSLA"},
			{Name: "Nvidia", Symbol: "NVDA"},
			{Name: "Microsoft", Symbol: "MSFT"},
		},
	},
	{
		Name: "Stocks (Ind)",
		Assets: []LibraryAsset{
			{Name: "Reliance", Symbol: "RELIANCE.NS"},
			{Name: "Tata Motors", Symbol: "TATAMOTORS.NS"},
			{Name: "HDFC Bank", Symbol: "HDFCBANK.NS"},
		},
	},
	{
		Name: "Forex",
		Assets: []LibraryAsset{
			{Name: "Gold", Symbol: "GC=F"},
			{Name: "Silver", Symbol: "SI=F"},
			{Name: "USD/INR", Symbol: "INR=X"},
			{Name: "EUR/USD", Symbol: "EURUSD=X"},
		},
	},
}
