// Package estimateapi calls the backend price calculation endpoint.
package estimateapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

const calculatePath = "/api/estimates/calculate"

// ErrIncomplete is returned when the backend answers 200 without both prices.
var ErrIncomplete = eris.New("incomplete estimate response")

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL. A nil httpClient uses a fresh
// http.Client; callers bound each call with the context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type calculateBody struct {
	CompanyID int64   `json:"companyId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	SpecName  string  `json:"specName,omitempty"`
	TypeName  string  `json:"typeName,omitempty"`
	OptionIDs []int64 `json:"optionIds,omitempty"`
}

type calculateResponse struct {
	UnitPrice  *int64 `json:"unitPrice"`
	TotalPrice *int64 `json:"totalPrice"`
}

func (c *Client) Calculate(ctx context.Context, req ports.EstimateRequest) (ports.EstimateResult, error) {
	body := calculateBody{
		CompanyID: req.CompanyID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		SpecName:  req.SpecName,
		TypeName:  req.TypeName,
		OptionIDs: req.OptionIDs,
	}
	if req.Width > 0 && req.Height > 0 {
		body.Width, body.Height = req.Width, req.Height
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return ports.EstimateResult{}, eris.Wrap(err, "encode estimate request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+calculatePath, bytes.NewReader(buf))
	if err != nil {
		return ports.EstimateResult{}, eris.Wrap(err, "build estimate request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return ports.EstimateResult{}, eris.Wrapf(err, "calculate product %d", req.ProductID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return ports.EstimateResult{}, eris.New(fmt.Sprintf("calculate product %d: status %d: %s", req.ProductID, resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	var out calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ports.EstimateResult{}, eris.Wrapf(err, "decode estimate for product %d", req.ProductID)
	}
	if out.UnitPrice == nil || out.TotalPrice == nil {
		return ports.EstimateResult{}, eris.Wrapf(ErrIncomplete, "product %d", req.ProductID)
	}
	return ports.EstimateResult{UnitPrice: *out.UnitPrice, TotalPrice: *out.TotalPrice}, nil
}
