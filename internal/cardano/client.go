// Package cardano implements the identity/asset verification port over
// the Blockfrost HTTP API.
//
// Lookup failures deliberately degrade to "asset absent" / "balance
// zero" instead of propagating (the FailSafe policy): a Blockfrost
// outage makes verification-gated operations unavailable to unverified
// users, never the whole API.
package cardano

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/tidwall/gjson"

	"github.com/soil-network/platform-api/internal/logging"
)

var (
	mainnetAddr = regexp.MustCompile(`^addr1[0-9a-z]+$`)
	testnetAddr = regexp.MustCompile(`^addr_test1[0-9a-z]+$`)
)

// Client queries Blockfrost for address holdings.
type Client struct {
	baseURL    string
	projectID  string
	httpClient *http.Client
	log        *logging.Logger
}

// Config configures the Blockfrost client.
type Config struct {
	BaseURL   string // e.g. https://cardano-preprod.blockfrost.io/api/v0
	ProjectID string // Blockfrost API key
	Timeout   time.Duration
	Logger    *logging.Logger
}

// New creates a Blockfrost-backed client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewDefault("cardano")
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		projectID:  cfg.ProjectID,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// IsValidAddress reports whether address looks like a Cardano mainnet or
// testnet payment address.
func (c *Client) IsValidAddress(address string) bool {
	return mainnetAddr.MatchString(address) || testnetAddr.MatchString(address)
}

// HasAsset reports whether address holds a positive quantity of assetID.
// Lookup failures report false (FailSafe).
func (c *Client) HasAsset(ctx context.Context, address, assetID string) bool {
	return c.AssetBalance(ctx, address, assetID) > 0
}

// AssetBalance returns the quantity of assetID held by address. Lookup
// failures report zero (FailSafe).
func (c *Client) AssetBalance(ctx context.Context, address, assetID string) int64 {
	body, err := c.get(ctx, "/addresses/"+address)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Warnf("asset lookup for %s", address)
		return 0
	}

	var balance int64
	gjson.GetBytes(body, "amount").ForEach(func(_, amount gjson.Result) bool {
		if amount.Get("unit").String() == assetID {
			balance = amount.Get("quantity").Int()
			return false
		}
		return true
	})
	return balance
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("project_id", c.projectID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blockfrost: %s %s: %s", http.MethodGet, endpoint, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
