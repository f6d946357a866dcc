// Package geo resolves client IPs to country codes via ip-api.com.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultURL = "http://ip-api.com/json/%s?fields=status,message,countryCode"

type ipAPIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	CountryCode string `json:"countryCode"`
}

// IPAPIResolver implements core.CountryResolver. Any failure, including a
// non-"success" status, resolves to domain.UnknownCountry.
type IPAPIResolver struct {
	client *http.Client
	url    string
}

func NewIPAPIResolver(client *http.Client, urlTemplate string) *IPAPIResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if urlTemplate == "" {
		urlTemplate = DefaultURL
	}
	return &IPAPIResolver{client: client, url: urlTemplate}
}

func (r *IPAPIResolver) Resolve(ctx context.Context, ip string) string {
	code, err := r.lookup(ctx, ip)
	if err != nil {
		log.Debug().Err(err).Str("module", "geo").Str("ip", ip).Msg("country lookup failed")
		return domain.UnknownCountry
	}
	return code
}

func (r *IPAPIResolver) lookup(ctx context.Context, ip string) (string, error) {
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("not an ip: %q", ip)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(r.url, ip), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if body.Status != "success" || body.CountryCode == "" {
		return "", fmt.Errorf("lookup status %q: %s", body.Status, body.Message)
	}
	return strings.ToLower(body.CountryCode), nil
}
