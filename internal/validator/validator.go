// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Symbols are uppercase tickers, optionally exchange-suffixed (e.g. PTT.BK).
var symbolRegex = regexp.MustCompile(`^[A-Z0-9]{1,12}(\.[A-Z]{1,4})?$`)

// validCurrencies contains the currencies the app accepts price tags in.
var validCurrencies = map[string]bool{
	"USD": true, "THB": true, "EUR": true, "GBP": true, "JPY": true,
	"HKD": true, "SGD": true, "AUD": true, "CAD": true, "CHF": true,
	"CNY": true, "KRW": true, "TWD": true, "INR": true, "MYR": true,
	"IDR": true, "PHP": true, "VND": true, "NZD": true, "SEK": true,
	"NOK": true, "DKK": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", validateCurrency)
		_ = v.RegisterValidation("symbol", validateSymbol)
		_ = v.RegisterValidation("market", validateMarket)
		_ = v.RegisterValidation("dca_frequency", validateDCAFrequency)
		_ = v.RegisterValidation("scoring_strategy", validateScoringStrategy)
	}
}

func validateCurrency(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateSymbol(fl validator.FieldLevel) bool {
	return symbolRegex.MatchString(fl.Field().String())
}

func validateMarket(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "SET", "NYSE", "NASDAQ":
		return true
	}
	return false
}

func validateDCAFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

func validateScoringStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "buffett", "weighted":
		return true
	}
	return false
}
