package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/domain"
)

// Catalog is the read-only part of the bar backend the browsing pages use
type Catalog interface {
	ListTapBeers(ctx context.Context) ([]domain.Beer, error)
	ListBottledBeers(ctx context.Context) ([]domain.Beer, error)
	SearchBeers(ctx context.Context, query string) ([]domain.Beer, error)
	GetBeer(ctx context.Context, id int64) (*domain.Beer, error)
	ListUpcomingEvents(ctx context.Context) ([]domain.Event, error)
	ListEventsByMonth(ctx context.Context, year, month int) ([]domain.Event, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	GetWeather(ctx context.Context) (*domain.Weather, error)
	GetWeatherByCity(ctx context.Context, city string) (*domain.Weather, error)
}

// CartQuantities reports how many of a beer are already in the cart
type CartQuantities interface {
	QuantityOf(beerID int64) int
}

// BeerView is a catalog beer plus what the customer already has in the cart
type BeerView struct {
	domain.Beer
	InCart int `json:"inCart"`
}

// BeerListResponse is the beer menu page
type BeerListResponse struct {
	Tap     []BeerView `json:"tap"`
	Bottled []BeerView `json:"bottled"`
	Error   string     `json:"error,omitempty"`
}

// HandleListBeers handles GET /api/beers. Without filters both menus are
// loaded; one failing still shows the other.
func HandleListBeers(catalog Catalog, cart CartQuantities, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			beers, err := catalog.SearchBeers(ctx, q)
			if err != nil {
				respondError(c, logger, err, "Kunne ikke søge efter øl")
				return
			}
			c.JSON(http.StatusOK, gin.H{"results": beerViews(beers, cart)})
			return
		}

		var resp BeerListResponse
		typ := strings.ToUpper(c.Query("type"))

		if typ == "" || typ == string(domain.BeerTypeTap) {
			beers, err := catalog.ListTapBeers(ctx)
			if err != nil {
				logger.Error("Failed to load tap beers", zap.Error(err))
				resp.Error = "Kunne ikke hente fadøl"
			}
			resp.Tap = beerViews(beers, cart)
		}
		if typ == "" || typ == string(domain.BeerTypeBottled) {
			beers, err := catalog.ListBottledBeers(ctx)
			if err != nil {
				logger.Error("Failed to load bottled beers", zap.Error(err))
				resp.Error = "Kunne ikke hente flaskeøl"
			}
			resp.Bottled = beerViews(beers, cart)
		}

		if resp.Error != "" && len(resp.Tap) == 0 && len(resp.Bottled) == 0 {
			c.JSON(http.StatusBadGateway, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleGetBeer handles GET /api/beers/:id
func HandleGetBeer(catalog Catalog, cart CartQuantities, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		beer, err := catalog.GetBeer(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente øl")
			return
		}

		c.JSON(http.StatusOK, BeerView{Beer: *beer, InCart: cart.QuantityOf(beer.ID)})
	}
}

// HandleListEvents handles GET /api/events. year and month select a calendar
// month, otherwise upcoming events are listed.
func HandleListEvents(catalog Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			events []domain.Event
			err    error
		)
		if c.Query("year") != "" || c.Query("month") != "" {
			year, yErr := strconv.Atoi(c.Query("year"))
			month, mErr := strconv.Atoi(c.Query("month"))
			if yErr != nil || mErr != nil || month < 1 || month > 12 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year or month"})
				return
			}
			events, err = catalog.ListEventsByMonth(ctx, year, month)
		} else {
			events, err = catalog.ListUpcomingEvents(ctx)
		}
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente events")
			return
		}

		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

// HandleGetEvent handles GET /api/events/:id
func HandleGetEvent(catalog Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		event, err := catalog.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err, "Kunne ikke hente event")
			return
		}

		c.JSON(http.StatusOK, event)
	}
}

// HandleWeather handles GET /api/weather[?city=]
func HandleWeather(catalog Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			weather *domain.Weather
			err     error
		)
		if city := strings.TrimSpace(c.Query("city")); city != "" {
			weather, err = catalog.GetWeatherByCity(ctx, city)
		} else {
			weather, err = catalog.GetWeather(ctx)
		}
		if err != nil {
			logger.Error("Failed to load weather", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Weather service unavailable"})
			return
		}

		if !weather.Success {
			msg := weather.ErrorMessage
			if msg == "" {
				msg = "Could not load weather"
			}
			c.JSON(http.StatusOK, gin.H{"weather": weather, "error": msg})
			return
		}

		c.JSON(http.StatusOK, gin.H{"weather": weather})
	}
}

func beerViews(beers []domain.Beer, cart CartQuantities) []BeerView {
	views := make([]BeerView, len(beers))
	for i, b := range beers {
		views[i] = BeerView{Beer: b, InCart: cart.QuantityOf(b.ID)}
	}
	return views
}
