package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type feature struct {
	Emoji       string `json:"emoji"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type historyItem struct {
	Year        string `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var (
	homeFeatures = []feature{
		{Emoji: "🍺", Title: "Vores fadøl", Description: "Frisk tappet hver gang"},
		{Emoji: "🎵", Title: "Live musik", Description: "Hver fredag aften"},
		{Emoji: "🏛️", Title: "Hyggelige lokaler", Description: "Perfekt til studerende"},
	}

	homeHistory = []historyItem{
		{
			Year:        "2020",
			Title:       "Starten",
			Description: "EK Ølbar blev grundlagt af tre passionerede KEA-studerende, der ønskede at skabe et sted hvor medstuderende kunne mødes og nyde god øl i afslappede omgivelser.",
		},
		{
			Year:        "2022",
			Title:       "Ekspansion",
			Description: "Vi udvidede vores lokaler og introducerede vores populære fredag-events med live underholdning, som hurtigt blev en fast tradition blandt studerende.",
		},
		{
			Year:        "2025",
			Title:       "I dag",
			Description: "EK Ølbar er nu et fast mødested for studerende fra hele København. Vi fortsætter med at tilbyde kvalitetsøl, god stemning og underholdning hver fredag.",
		},
	}
)

// CartCounter gives the number of items for the cart badge
type CartCounter interface {
	Count() int
}

// HandleHome handles GET /api/home
func HandleHome(cart CartCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"features":  homeFeatures,
			"history":   homeHistory,
			"cartCount": cart.Count(),
		})
	}
}
