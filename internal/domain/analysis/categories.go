package analysis

// Categories is the module enumeration offered to remote classifiers.
var Categories = []string{
	"Wallet Base",
	"Wallet Avanzado",
	"KYC/KYB",
	"Tarjeta",
	"Trading Platform",
	"Payment Gateway",
	"Liquidity Provider",
	"Compliance",
	"API Integration",
	"White Label Solution",
	"Otro",
}
