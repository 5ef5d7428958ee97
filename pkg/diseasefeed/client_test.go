package diseasefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/covid-19/countries/Malawi", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("strict"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"country":"Malawi","cases":88000,"todayCases":12,"deaths":2686,"todayDeaths":0,"recovered":85000,"active":314,"updated":1717243200000}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, nil)
	report, err := client.Country(context.Background(), "Malawi")
	require.NoError(t, err)
	assert.Equal(t, "Malawi", report.Country)
	assert.Equal(t, int64(88000), report.Cases)
	assert.Equal(t, int64(314), report.Active)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), report.UpdatedAt())
	assert.Contains(t, string(report.Raw), `"todayCases":12`)
}

func TestClientCountryErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Country not found"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second}, nil)
	_, err := client.Country(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = client.Country(context.Background(), "")
	require.Error(t, err)
}
