package core

import "context"

// CountryResolver maps a client IP to a lowercase country code.
// Implementations return domain.UnknownCountry on any failure.
type CountryResolver interface {
	Resolve(ctx context.Context, ip string) string
}
