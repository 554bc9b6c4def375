package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mslanden/marketpress/pkg/models/domain"
)

// MarketClient fetches market data from a remote feed over JSON/HTTP. It
// satisfies marketdata.Provider for deployments where the feed is a service
// rather than a local store.
type MarketClient struct {
	baseURL string
	client  *http.Client
}

func NewMarketClient(baseURL string) *MarketClient {
	return &MarketClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type pricePointDTO struct {
	Month              int     `json:"month"`
	Year               int     `json:"year"`
	Value              float64 `json:"value"`
	AveragePrice       float64 `json:"average_price"`
	TotalSales         int     `json:"total_sales"`
	MedianDaysOnMarket int     `json:"median_days_on_market"`
}

type marketPointDTO struct {
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	AverageDays float64 `json:"average_days"`
	MedianDays  float64 `json:"median_days"`
}

type listingDTO struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	Beds         int     `json:"beds"`
	Baths        float64 `json:"baths"`
	Area         float64 `json:"area"`
	DaysOnMarket int     `json:"days_on_market"`
	YearBuilt    int     `json:"year_built"`
}

func (c *MarketClient) GetPricePerArea(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.PricePoint, error) {
	var dtos []pricePointDTO
	err := c.get(ctx, fmt.Sprintf("/regions/%s/metrics/price-per-area", url.PathEscape(string(region))), period, months, &dtos)
	if err != nil {
		return nil, err
	}

	points := make([]domain.PricePoint, 0, len(dtos))
	for _, d := range dtos {
		points = append(points, domain.PricePoint{
			Month:              d.Month,
			Year:               d.Year,
			Value:              d.Value,
			AveragePrice:       d.AveragePrice,
			TotalSales:         d.TotalSales,
			MedianDaysOnMarket: d.MedianDaysOnMarket,
		})
	}
	return points, nil
}

func (c *MarketClient) GetDaysOnMarket(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
	months int,
) ([]domain.MarketPoint, error) {
	var dtos []marketPointDTO
	err := c.get(ctx, fmt.Sprintf("/regions/%s/metrics/days-on-market", url.PathEscape(string(region))), period, months, &dtos)
	if err != nil {
		return nil, err
	}

	points := make([]domain.MarketPoint, 0, len(dtos))
	for _, d := range dtos {
		points = append(points, domain.MarketPoint{
			Month:       d.Month,
			Year:        d.Year,
			AverageDays: d.AverageDays,
			MedianDays:  d.MedianDays,
		})
	}
	return points, nil
}

func (c *MarketClient) GetListings(
	ctx context.Context,
	region domain.Region,
	period domain.Period,
) ([]domain.Listing, error) {
	var dtos []listingDTO
	err := c.get(ctx, fmt.Sprintf("/regions/%s/listings", url.PathEscape(string(region))), period, 0, &dtos)
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(dtos))
	for _, d := range dtos {
		listings = append(listings, domain.Listing{
			ID:           d.ID,
			Status:       domain.ListingStatus(d.Status),
			Price:        d.Price,
			Address:      d.Address,
			Beds:         d.Beds,
			Baths:        d.Baths,
			Area:         d.Area,
			DaysOnMarket: d.DaysOnMarket,
			YearBuilt:    d.YearBuilt,
		})
	}
	return listings, nil
}

func (c *MarketClient) get(ctx context.Context, path string, period domain.Period, months int, out interface{}) error {
	q := url.Values{}
	q.Set("month", strconv.Itoa(period.Month))
	q.Set("year", strconv.Itoa(period.Year))
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("market feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("market feed returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode market feed response: %w", err)
	}
	return nil
}
