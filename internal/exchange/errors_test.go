package exchange

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRestrictedLocation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"explicit code",
			&ExchangeError{Code: "-71012", Message: "unavailable"},
			true,
		},
		{
			"http 451",
			&ExchangeError{HTTPStatus: 451, Message: "unavailable"},
			true,
		},
		{
			"message text",
			&ExchangeError{Message: "Service unavailable from a Restricted Location"},
			true,
		},
		{
			"wrapped exchange error",
			fmt.Errorf("connect: %w", &ExchangeError{Code: "-71012"}),
			true,
		},
		{
			"other api error",
			&ExchangeError{Code: "-1003", Message: "too many requests", HTTPStatus: 429},
			false,
		},
		{
			"plain error",
			errors.New("restricted location"), // не ExchangeError
			false,
		},
		{
			"nil",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRestrictedLocation(tt.err); got != tt.want {
				t.Errorf("IsRestrictedLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid key code", &ExchangeError{Code: "-2015"}, true},
		{"http 401", &ExchangeError{HTTPStatus: 401}, true},
		{"wrapped", fmt.Errorf("x: %w", &ExchangeError{Code: "-2015"}), true},
		{"restricted is not auth", &ExchangeError{Code: "-71012", HTTPStatus: 451}, false},
		{"plain error", errors.New("unauthorized"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExchangeError_Error(t *testing.T) {
	withCode := &ExchangeError{Endpoint: "/api/v3/account", Code: "-2015", Message: "Invalid API-key"}
	if got := withCode.Error(); got != "/api/v3/account: -2015: Invalid API-key" {
		t.Errorf("Error() = %q", got)
	}

	noCode := &ExchangeError{Endpoint: "/api/v3/account", Message: "timeout"}
	if got := noCode.Error(); got != "/api/v3/account: timeout" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExchangeError_Unwrap(t *testing.T) {
	base := errors.New("dial tcp: i/o timeout")
	err := &ExchangeError{Endpoint: "/x", Message: "transport", Original: base}

	if !errors.Is(err, base) {
		t.Error("ExchangeError should unwrap to original error")
	}
}
