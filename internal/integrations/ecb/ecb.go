package ecb

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/vantrack/vantrack-api/internal/config"
)

// Client fetches daily euro foreign exchange reference rates from the ECB
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// Rates holds a snapshot of reference rates against the euro
type Rates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// NewClient initializes a new ECB client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.ECBRatesURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

func (c *Client) fetch() ([]byte, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("ECB XML response: %d bytes", len(body))
	return body, nil
}

func (c *Client) parseXML(rawBody []byte) (*Rates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	// Daily feed layout: Envelope/Cube/Cube[@time]/Cube[@currency,@rate]
	dayCube := doc.FindElement("//Cube/Cube")
	if dayCube == nil {
		return nil, fmt.Errorf("no rate data found in XML")
	}

	rates := &Rates{
		Base:  "EUR",
		Date:  dayCube.SelectAttrValue("time", ""),
		Rates: make(map[string]float64),
	}
	for _, cube := range dayCube.FindElements("./Cube") {
		currency := cube.SelectAttrValue("currency", "")
		rateStr := cube.SelectAttrValue("rate", "")
		if currency == "" || rateStr == "" {
			continue
		}
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", currency, err)
		}
		rates.Rates[currency] = rate
	}
	if len(rates.Rates) == 0 {
		return nil, fmt.Errorf("no rates found in XML")
	}
	return rates, nil
}

// GetRates retrieves the current daily reference rates
func (c *Client) GetRates() (*Rates, error) {
	body, err := c.fetch()
	if err != nil {
		return nil, err
	}

	rates, err := c.parseXML(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d ECB reference rates for %s", len(rates.Rates), rates.Date)
	return rates, nil
}
