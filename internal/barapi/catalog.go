package barapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ekoelbar/barclient/internal/domain"
)

func (c *Client) ListBeers(ctx context.Context) ([]domain.Beer, error) {
	return c.listBeers(ctx, "/api/beers")
}

func (c *Client) ListTapBeers(ctx context.Context) ([]domain.Beer, error) {
	return c.listBeers(ctx, "/api/beers/tap")
}

func (c *Client) ListBottledBeers(ctx context.Context) ([]domain.Beer, error) {
	return c.listBeers(ctx, "/api/beers/bottled")
}

func (c *Client) SearchBeers(ctx context.Context, query string) ([]domain.Beer, error) {
	return c.listBeers(ctx, "/api/beers/search?q="+url.QueryEscape(query))
}

func (c *Client) GetBeer(ctx context.Context, id int64) (*domain.Beer, error) {
	var beer domain.Beer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/beers/%d", id), nil, &beer); err != nil {
		return nil, err
	}
	return &beer, nil
}

func (c *Client) listBeers(ctx context.Context, path string) ([]domain.Beer, error) {
	var beers []domain.Beer
	if err := c.do(ctx, http.MethodGet, path, nil, &beers); err != nil {
		return nil, err
	}
	return beers, nil
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return c.listEvents(ctx, "/api/events")
}

func (c *Client) ListUpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	return c.listEvents(ctx, "/api/events/upcoming")
}

func (c *Client) ListEventsByMonth(ctx context.Context, year, month int) ([]domain.Event, error) {
	return c.listEvents(ctx, fmt.Sprintf("/api/events/month/%d/%d", year, month))
}

func (c *Client) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/events/%d", id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) listEvents(ctx context.Context, path string) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) SendContactMessage(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	var out domain.ContactMessage
	if err := c.do(ctx, http.MethodPost, "/api/contact", msg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWeather(ctx context.Context) (*domain.Weather, error) {
	var out domain.Weather
	if err := c.do(ctx, http.MethodGet, "/api/weather", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWeatherByCity(ctx context.Context, city string) (*domain.Weather, error) {
	var out domain.Weather
	if err := c.do(ctx, http.MethodGet, "/api/weather/"+url.PathEscape(city), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
