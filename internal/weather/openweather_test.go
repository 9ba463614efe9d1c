package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yishak-cs/bites/internal/models"
	"github.com/yishak-cs/bites/internal/weather"
)

func TestCurrentWeatherRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q.Get("lat") != "41.89" || q.Get("lon") != "12.49" || q.Get("appid") != "secret" || q.Get("units") != "imperial" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"weather":[{"main":"Clear"}]}`))
	}))
	defer srv.Close()

	payload, err := weather.NewClient("secret", srv.URL).CurrentWeather(context.Background(), 41.89, 12.49)
	if err != nil {
		t.Fatalf("CurrentWeather failed: %v", err)
	}
	if string(payload) != `{"weather":[{"main":"Clear"}]}` {
		t.Errorf("payload not returned verbatim: %s", payload)
	}
}

func TestCurrentWeatherUpstreamErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>oops</html>"))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := weather.NewClient("k", srv.URL).CurrentWeather(context.Background(), 0, 0)
			if !errors.Is(err, models.ErrUpstreamUnavailable) {
				t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
			}
		})
	}
}

func TestCurrentWeatherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := weather.NewClient("k", url).CurrentWeather(context.Background(), 0, 0)
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
