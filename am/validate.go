package am

import (
	"net/url"
	"strings"

	"github.com/teranos/wd/errors"
)

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	endpoints := []struct {
		name  string
		value string
	}{
		{"wikidata api url", c.Endpoints.APIURL},
		{"wikidata query url", c.Endpoints.QueryURL},
		{"textifier url", c.Endpoints.TextifierURL},
		{"vector search url", c.Endpoints.VectorSearchURL},
	}
	for _, endpoint := range endpoints {
		if err := validateURL(endpoint.value); err != nil {
			return errors.Wrapf(err, "invalid %s", endpoint.name)
		}
	}

	if c.Request.TimeoutSeconds <= 0 {
		return errors.NewInvalidRequestError("timeout must be greater than zero")
	}
	if strings.TrimSpace(c.Request.UserAgent) == "" {
		return errors.NewInvalidRequestError("user agent cannot be empty")
	}
	if c.Request.RequestsPerSecond < 0 {
		return errors.NewInvalidRequestError("request.requests_per_second must be >= 0, got %g", c.Request.RequestsPerSecond)
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.WithHint(
			errors.NewInvalidRequestError("unsupported output format %q", c.Output.Format),
			"use one of: text, json, yaml",
		)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return errors.Mark(err, errors.ErrInvalidRequest)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewInvalidRequestError("scheme %q not allowed (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return errors.NewInvalidRequestError("URL missing hostname")
	}
	return nil
}
