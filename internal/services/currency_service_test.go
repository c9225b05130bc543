package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

func TestCurrencyService_FormatPrice(t *testing.T) {
	svc := NewCurrencyService(&config.Config{}, nil)

	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{250_000_000, "CLP", "$250.000.000"},
		{1500, "CLP", "$1.500"},
		{1234.5, "USD", "$1,234.50"},
		{99, "USD", "$99.00"},
		{6990, "UF", "UF 6.990,000"},
		{12.5, "UF", "UF 12,500"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, svc.FormatPrice(tc.amount, tc.currency), "FormatPrice(%v, %s)", tc.amount, tc.currency)
	}
}

func TestCurrencyService_ConvertSameCurrency(t *testing.T) {
	svc := NewCurrencyService(&config.Config{}, nil)

	// Identical currencies never touch the rate source.
	got, err := svc.Convert(context.Background(), 1000, "CLP", "CLP")
	require.NoError(t, err)
	assert.Equal(t, float64(1000), got)
}

func TestCurrencyService_FormatPriceWithConversion_NoTarget(t *testing.T) {
	svc := NewCurrencyService(&config.Config{}, nil)
	ctx := context.Background()

	assert.Equal(t, "$250.000.000", svc.FormatPriceWithConversion(ctx, 250_000_000, "CLP", ""))
	assert.Equal(t, "$250.000.000", svc.FormatPriceWithConversion(ctx, 250_000_000, "CLP", "CLP"))
}

func TestCurrencyService_FetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rates":{"USD":1,"CLP":950.5,"UF":0.026}}`))
	}))
	defer server.Close()

	svc := &currencyService{
		cfg:        &config.Config{ExchangeRateAPIURL: server.URL},
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}

	rates, err := svc.fetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 950.5, rates["CLP"])
	assert.Equal(t, float64(1), rates["USD"])
}

func TestCurrencyService_FetchRatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := &currencyService{
		cfg:        &config.Config{ExchangeRateAPIURL: server.URL},
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}

	_, err := svc.fetchRates(context.Background())
	assert.Error(t, err)

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates":{}}`))
	}))
	defer empty.Close()

	svc.cfg = &config.Config{ExchangeRateAPIURL: empty.URL}
	_, err = svc.fetchRates(context.Background())
	assert.Error(t, err)
}
