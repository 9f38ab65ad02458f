package config

import "time"

type ServiceConfig struct {
	Name         string             `yaml:"name"`
	Environment  string             `yaml:"environment"`
	Version      string             `yaml:"version"`
	ClientURL    string             `yaml:"client_url"`
	OpenPayments OpenPaymentsConfig `yaml:"open_payments"`
}

// OpenPaymentsConfig configures the outbound incoming-payment gateway.
type OpenPaymentsConfig struct {
	// AccessToken is sent as a bearer token on every outbound call.
	AccessToken string `yaml:"access_token"`
	// ResourceBaseURL resolves relative resource paths on the poll endpoint.
	ResourceBaseURL string `yaml:"resource_base_url"`
	// RequestTimeout bounds every outbound HTTP call.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}
