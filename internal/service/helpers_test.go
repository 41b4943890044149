package service

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
