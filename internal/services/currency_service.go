package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

// ICurrencyService converts and formats listing prices for display. Rates
// come from a public exchange-rate API and are cached for 24 hours; a rate
// lookup failure degrades to showing the unconverted price, never to an
// error page.
type ICurrencyService interface {
	Convert(ctx context.Context, amount float64, fromCurrency, toCurrency string) (float64, error)
	FormatPrice(amount float64, currency string) string
	FormatPriceWithConversion(ctx context.Context, amount float64, currency, targetCurrency string) string
}

const (
	ratesCacheKey = "currency:exchange_rates"
	baseCurrency  = "USD" // conversions pivot through USD
)

// exchangeRates maps currency code to its rate against the base currency.
type exchangeRates map[string]float64

type ratesResponse struct {
	Rates exchangeRates `json:"rates"`
}

// currencyService implements ICurrencyService.
type currencyService struct {
	cfg        *config.Config
	rdb        *redis.Client
	httpClient *http.Client
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(cfg *config.Config, rdb *redis.Client) ICurrencyService {
	return &currencyService{
		cfg:        cfg,
		rdb:        rdb,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Convert converts amount between currencies via the USD pivot. Identical
// currencies short-circuit without touching the rate source.
func (s *currencyService) Convert(ctx context.Context, amount float64, fromCurrency, toCurrency string) (float64, error) {
	if fromCurrency == toCurrency {
		return amount, nil
	}

	rates, err := s.getRates(ctx)
	if err != nil {
		return 0, err
	}

	amountInUSD := amount
	if fromCurrency != baseCurrency {
		rate, ok := rates[fromCurrency]
		if !ok || rate == 0 {
			return 0, fmt.Errorf("no exchange rate for %s", fromCurrency)
		}
		amountInUSD = amount / rate
	}

	if toCurrency == baseCurrency {
		return amountInUSD, nil
	}
	rate, ok := rates[toCurrency]
	if !ok {
		return 0, fmt.Errorf("no exchange rate for %s", toCurrency)
	}
	return amountInUSD * rate, nil
}

// getRates returns the cached rate table, fetching and re-caching it when
// stale or absent. Cache read/write failures only cost an extra fetch.
func (s *currencyService) getRates(ctx context.Context) (exchangeRates, error) {
	if cached, err := s.rdb.Get(ctx, ratesCacheKey).Bytes(); err == nil {
		var rates exchangeRates
		if jsonErr := json.Unmarshal(cached, &rates); jsonErr == nil {
			return rates, nil
		}
		log.Printf("WARN: discarding unreadable cached exchange rates")
	}

	rates, err := s.fetchRates(ctx)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(rates); jsonErr == nil {
		if cacheErr := s.rdb.Set(ctx, ratesCacheKey, data, s.cfg.ExchangeRateTTL).Err(); cacheErr != nil {
			log.Printf("WARN: failed to cache exchange rates: %v", cacheErr)
		}
	}

	return rates, nil
}

// fetchRates pulls the current table from the exchange-rate API.
func (s *currencyService) fetchRates(ctx context.Context) (exchangeRates, error) {
	url := fmt.Sprintf("%s/%s", s.cfg.ExchangeRateAPIURL, baseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build exchange rate request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("exchange rate API returned no rates")
	}

	return parsed.Rates, nil
}

var (
	clPrinter = message.NewPrinter(language.MustParse("es-CL"))
	usPrinter = message.NewPrinter(language.AmericanEnglish)
)

// FormatPrice renders an amount in its currency's customary notation:
// CLP without decimals, USD with two, UF with the three decimals used in
// real-estate pricing.
func (s *currencyService) FormatPrice(amount float64, currency string) string {
	switch currency {
	case "CLP":
		return clPrinter.Sprintf("$%v", number.Decimal(amount, number.MaxFractionDigits(0)))
	case "USD":
		return usPrinter.Sprintf("$%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	case "UF":
		return clPrinter.Sprintf("UF %v", number.Decimal(amount, number.MinFractionDigits(3), number.MaxFractionDigits(3)))
	default:
		return usPrinter.Sprintf("%s %v", currency, number.Decimal(amount))
	}
}

// FormatPriceWithConversion renders "UF 6.990,000 ($230.000.000)"-style
// strings: the original price, plus the converted one in parentheses when
// a rate is available. Conversion failure falls back to the plain price.
func (s *currencyService) FormatPriceWithConversion(ctx context.Context, amount float64, currency, targetCurrency string) string {
	formatted := s.FormatPrice(amount, currency)
	if targetCurrency == "" || currency == targetCurrency {
		return formatted
	}

	converted, err := s.Convert(ctx, amount, currency, targetCurrency)
	if err != nil {
		log.Printf("WARN: price conversion %s -> %s failed: %v", currency, targetCurrency, err)
		return formatted
	}

	return fmt.Sprintf("%s (%s)", formatted, s.FormatPrice(converted, targetCurrency))
}
