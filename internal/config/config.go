package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	Fees   FeeConstants
	Rates  RateConfig
	Locale LocaleConfig
}

// FeeConstants are the payment-provider and platform rates that are not part
// of any per-category fee schedule. Percent fields are expressed as
// percentages (3.9 means 3.9%).
type FeeConstants struct {
	PaymentRatePercent      decimal.Decimal
	PaymentFixedFee         decimal.Decimal
	InternationalFeePercent decimal.Decimal
	VolumeDiscountPercent   decimal.Decimal
	ConversionFeePercent    decimal.Decimal
}

type RateConfig struct {
	CacheTTL              time.Duration
	FallbackBaseRate      decimal.Decimal
	FallbackMarginPercent decimal.Decimal
}

type LocaleConfig struct {
	SellerCountry      string
	SourceCurrency     string
	SellCurrency       string
	SettlementCurrency string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "pricing"),
		DBPassword:  getEnv("DB_PASSWORD", "pricing_secret"),
		DBName:      getEnv("DB_NAME", "pricing"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),

		Fees: FeeConstants{
			PaymentRatePercent:      getEnvDecimal("PAYMENT_RATE_PERCENT", "3.9"),
			PaymentFixedFee:         getEnvDecimal("PAYMENT_FIXED_FEE", "0.30"),
			InternationalFeePercent: getEnvDecimal("INTERNATIONAL_FEE_PERCENT", "1.35"),
			VolumeDiscountPercent:   getEnvDecimal("VOLUME_DISCOUNT_PERCENT", "0"),
			ConversionFeePercent:    getEnvDecimal("CONVERSION_FEE_PERCENT", "2.5"),
		},
		Rates: RateConfig{
			CacheTTL:              time.Duration(getEnvInt("RATE_CACHE_TTL_SECONDS", 3600)) * time.Second,
			FallbackBaseRate:      getEnvDecimal("RATE_FALLBACK_BASE", "148.50"),
			FallbackMarginPercent: getEnvDecimal("RATE_FALLBACK_MARGIN_PERCENT", "5.0"),
		},
		Locale: LocaleConfig{
			SellerCountry:      getEnv("SELLER_COUNTRY", "JP"),
			SourceCurrency:     getEnv("SOURCE_CURRENCY", "JPY"),
			SellCurrency:       getEnv("SELL_CURRENCY", "USD"),
			SettlementCurrency: getEnv("SETTLEMENT_CURRENCY", "USD"),
		},
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}
