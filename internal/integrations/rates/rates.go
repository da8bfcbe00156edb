// Package rates fetches currency conversion rates so that
// currency-tagged milestone prices can be displayed in USD.
package rates

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
	"github.com/workhive/freelance-service/internal/config"
)

// Client fetches the ECB daily reference-rate XML document and caches
// the parsed table for an hour.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu        sync.Mutex
	perEUR    map[string]float64
	fetchedAt time.Time
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.RatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetch retrieves the raw XML rate document
func (c *Client) fetch() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("rates XML response: %s", string(body))

	return body, nil
}

// parse extracts the currency->rate table from the XML document.
// Rates are expressed as units of currency per EUR.
func (c *Client) parse(rawBody []byte) (map[string]float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	cubes := doc.FindElements("//Cube/Cube/Cube")
	if len(cubes) == 0 {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	table := make(map[string]float64, len(cubes)+1)
	table["EUR"] = 1
	for _, cube := range cubes {
		currency := cube.SelectAttrValue("currency", "")
		rateAttr := cube.SelectAttrValue("rate", "")
		if currency == "" || rateAttr == "" {
			continue
		}
		var rate float64
		if _, err := fmt.Sscanf(rateAttr, "%f", &rate); err != nil || rate <= 0 {
			continue
		}
		table[strings.ToUpper(currency)] = rate
	}
	return table, nil
}

// table returns the cached rate table, refreshing it when stale.
func (c *Client) table() (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.perEUR != nil && time.Since(c.fetchedAt) < time.Hour {
		return c.perEUR, nil
	}

	body, err := c.fetch()
	if err != nil {
		// keep serving a stale table over failing hard
		if c.perEUR != nil {
			c.log.Warnf("rate refresh failed, using stale table: %v", err)
			return c.perEUR, nil
		}
		return nil, err
	}
	table, err := c.parse(body)
	if err != nil {
		if c.perEUR != nil {
			c.log.Warnf("rate parse failed, using stale table: %v", err)
			return c.perEUR, nil
		}
		return nil, err
	}

	c.perEUR = table
	c.fetchedAt = time.Now()
	c.log.Infof("Loaded %d currency rates", len(table))
	return table, nil
}

// ConvertToUSD converts an amount in the given currency to USD.
// Unknown currencies convert at 1:1 rather than failing: upstream
// price tags are display data, and a wrong-but-visible number beats a
// broken earnings screen.
func (c *Client) ConvertToUSD(amount float64, currency string) (float64, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" || code == "USD" || code == "$" {
		return amount, nil
	}

	table, err := c.table()
	if err != nil {
		return 0, err
	}

	usdPerEUR, ok := table["USD"]
	if !ok {
		return 0, fmt.Errorf("USD rate missing from table")
	}
	perEUR, ok := table[code]
	if !ok {
		c.log.Warnf("Unknown currency %q, converting 1:1", code)
		return amount, nil
	}

	return amount / perEUR * usdPerEUR, nil
}
