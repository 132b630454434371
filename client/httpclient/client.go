// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with a stakepool node.
// It offers methods to read and operate the staker and the reward pool, query
// balances and events, and drive the clock of a solo node.
package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/events"
	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/client/common"
	"github.com/vechain/stakepool/thor"
)

// Client represents the HTTP client for interacting with a stakepool node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// GetStatus retrieves the clock and commit status of the node.
func (c *Client) GetStatus() (*node.Status, error) {
	var status node.Status
	if err := c.get("/node/status", &status); err != nil {
		return nil, fmt.Errorf("unable to retrieve status - %w", err)
	}
	return &status, nil
}

// AdvanceClock moves the manual clock of a solo node and returns the new tick.
func (c *Client) AdvanceClock(ticks uint64) (uint64, error) {
	var res struct {
		Tick uint64 `json:"tick"`
	}
	if err := c.post("/node/clock/advance", &node.AdvanceRequest{Ticks: ticks}, &res); err != nil {
		return 0, fmt.Errorf("unable to advance clock - %w", err)
	}
	return res.Tick, nil
}

// GetBalance retrieves the balance of holder in asset.
func (c *Client) GetBalance(holder, asset thor.Address) (*accounts.Balance, error) {
	var balance accounts.Balance
	if err := c.get("/accounts/"+holder.String()+"/balances/"+asset.String(), &balance); err != nil {
		return nil, fmt.Errorf("unable to retrieve balance - %w", err)
	}
	return &balance, nil
}

// FilterEvents filters indexed ledger events.
func (c *Client) FilterEvents(req *events.EventFilter) ([]*events.FilteredEvent, error) {
	var evs []*events.FilteredEvent
	if err := c.post("/events", req, &evs); err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}
	return evs, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified path with the provided data.
func (c *Client) RawHTTPPost(path string, payload any) ([]byte, int, error) {
	data, err := marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	return c.rawHTTPRequest(http.MethodPost, c.url+path, bytes.NewReader(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified path.
func (c *Client) RawHTTPGet(path string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+path, nil)
}

func (c *Client) get(path string, out any) error {
	return c.do(http.MethodGet, path, nil, out)
}

func (c *Client) post(path string, payload any, out any) error {
	data, err := marshal(payload)
	if err != nil {
		return err
	}
	return c.do(http.MethodPost, path, bytes.NewReader(data), out)
}

func (c *Client) do(method, path string, body io.Reader, out any) error {
	data, status, err := c.rawHTTPRequest(method, c.url+path, body)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(status, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unable to unmarshal response - %w", err)
	}
	return nil
}

func (c *Client) rawHTTPRequest(method, url string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// statusError turns a non-200 response into an error. Ledger reverts come
// back as *common.RevertError.
func statusError(status int, data []byte) error {
	var res utils.ErrorResponse
	if json.Unmarshal(data, &res) == nil && res.Kind != "" {
		return &common.RevertError{Status: status, Kind: res.Kind, Message: res.Message}
	}
	return fmt.Errorf("http error - Status Code %d - %s - %w", status, bytes.TrimSpace(data), common.ErrNot200Status)
}

func marshal(payload any) ([]byte, error) {
	if data, ok := payload.([]byte); ok {
		return data, nil
	}
	if payload == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return data, nil
}

func poolPath(id uint64) string {
	return "/staker/pools/" + strconv.FormatUint(id, 10)
}

