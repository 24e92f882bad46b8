package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cmxu/whereami/internal/entity"
	"github.com/cmxu/whereami/internal/gallery"
	"github.com/cmxu/whereami/internal/games"
)

type Gateway struct {
	gallery *gallery.Gallery
	games   *games.Service
	authURL string
	echo    *echo.Echo
	address string
	logger  *slog.Logger
}

type GatewayConfig struct {
	Gallery *gallery.Gallery
	Games   *games.Service
	AuthURL string
	Address string
	Logger  *slog.Logger
}

func New(c GatewayConfig) *Gateway {
	e := echo.New()

	g := &Gateway{
		gallery: c.Gallery,
		games:   c.Games,
		authURL: c.AuthURL,
		echo:    e,
		address: c.Address,
		logger:  c.Logger,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}

	e.Use(
		middleware.Recover(),
		middleware.Logger(),
		allowOrigin,
	)

	e.GET("/api/images/random", g.hdlrRandomImages)
	e.GET("/api/images/curated", g.hdlrCuratedImages)
	e.GET("/api/images/*", g.hdlrImage)
	e.GET("/api/games/:gameId/images", g.hdlrGameImages)
	e.GET("/api/games/user/:userId", g.hdlrUserGames)
	e.GET("/api/debug/auth", g.hdlrDebugAuth)

	for _, path := range []string{
		"/api/images/random",
		"/api/images/curated",
		"/api/images/*",
		"/api/games/:gameId/images",
		"/api/games/user/:userId",
	} {
		e.OPTIONS(path, g.hdlrPreflight)
	}

	return g
}

func (g *Gateway) Run() error {
	return g.echo.Start(g.address)
}

func (g *Gateway) Shutdown() error {
	return g.echo.Shutdown(context.TODO())
}

// Every response carries the open CORS origin; the routes are consumed
// cross-origin by the web client.
func allowOrigin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		return next(c)
	}
}

func (g *Gateway) hdlrPreflight(c echo.Context) error {
	h := c.Response().Header()
	h.Set(echo.HeaderAccessControlAllowMethods, "GET, OPTIONS")
	h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type, Authorization")

	return c.NoContent(http.StatusOK)
}

// hdlrImage streams a stored image back. Error bodies are plain text since
// the route otherwise serves binary data.
func (g *Gateway) hdlrImage(c echo.Context) error {
	req := gallery.ParseTransform(c.QueryParams())

	object, err := g.gallery.Object(c.Request().Context(), c.Param("*"), req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidInput):
			return c.String(http.StatusBadRequest, "Image path required")
		case errors.Is(err, entity.ErrNotFound):
			return c.String(http.StatusNotFound, "Image not found")
		case errors.Is(err, entity.ErrNotConfigured):
			g.logger.Error("image gateway", slog.String("error", err.Error()))
			return c.String(http.StatusInternalServerError, "Server configuration error")
		default:
			g.logger.Error("image gateway", slog.String("error", err.Error()))
			return c.String(http.StatusInternalServerError, "Failed to retrieve image")
		}
	}
	defer object.Content.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000")
	if object.ContentLength != nil {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(*object.ContentLength, 10))
	}

	return c.Stream(http.StatusOK, *object.ContentType, object.Content)
}

func (g *Gateway) hdlrRandomImages(c echo.Context) error {
	count := queryInt(c, "count", 10)

	images, err := g.gallery.Random(c.Request().Context(), count)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "No public images available. Upload some images first!")
		}

		g.logger.Error("random images", slog.String("error", err.Error()))
		return jsonError(c, http.StatusInternalServerError, "Failed to get random images")
	}

	return c.JSON(http.StatusOK, images)
}

func (g *Gateway) hdlrCuratedImages(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	page, err := g.gallery.Curated(c.Request().Context(), limit, offset)
	if err != nil {
		if errors.Is(err, entity.ErrNotConfigured) {
			g.logger.Error("curated images", slog.String("error", err.Error()))
			return jsonError(c, http.StatusInternalServerError, "Server configuration error")
		}

		g.logger.Error("curated images", slog.String("error", err.Error()))
		return jsonError(c, http.StatusInternalServerError, "Failed to fetch curated images")
	}

	return c.JSON(http.StatusOK, page)
}

func (g *Gateway) hdlrGameImages(c echo.Context) error {
	images, err := g.games.GameImages(c.Request().Context(), c.Param("gameId"))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidInput):
			return jsonError(c, http.StatusBadRequest, "Game ID required")
		case errors.Is(err, entity.ErrNotFound):
			return jsonError(c, http.StatusNotFound, "Game not found")
		case errors.Is(err, entity.ErrNotConfigured):
			g.logger.Error("game images", slog.String("error", err.Error()))
			return jsonError(c, http.StatusInternalServerError, "Server configuration error: KV stores not configured")
		default:
			g.logger.Error("game images", slog.String("error", err.Error()))
			return jsonError(c, http.StatusInternalServerError, "Failed to retrieve game images")
		}
	}

	return c.JSON(http.StatusOK, images)
}

func (g *Gateway) hdlrUserGames(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	page, err := g.games.UserGames(c.Request().Context(), c.Param("userId"), limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidInput):
			return jsonError(c, http.StatusBadRequest, "User ID required")
		case errors.Is(err, entity.ErrNotFound):
			return jsonError(c, http.StatusNotFound, "User not found")
		default:
			g.logger.Error("user games", slog.String("error", err.Error()))
			return jsonError(c, http.StatusInternalServerError, "Internal server error")
		}
	}

	return c.JSON(http.StatusOK, page)
}

// hdlrDebugAuth decodes a bearer JWT without verifying its signature. It
// exists for diagnosing token/issuer mismatches and must never feed
// authorization decisions.
func (g *Gateway) hdlrDebugAuth(c echo.Context) error {
	token := bearerToken(c.Request())
	if token == "" {
		return jsonError(c, http.StatusUnauthorized, "No token provided")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Failed to decode token",
			"details": err.Error(),
		})
	}

	claims := parsed.Claims.(jwt.MapClaims)
	issuer, _ := claims.GetIssuer()
	subject, _ := claims.GetSubject()

	now := float64(time.Now().UnixMilli()) / 1000

	var (
		exp       float64
		isExpired bool
	)
	if expiration, _ := claims.GetExpirationTime(); expiration != nil {
		exp = float64(expiration.Unix())
		isExpired = exp < now
	}

	expectedIssuer := g.authURL + "/auth/v1"

	return c.JSON(http.StatusOK, echo.Map{
		"tokenExists": true,
		"tokenParts":  3,
		"payload": echo.Map{
			"iss":         issuer,
			"sub":         subject,
			"exp":         exp,
			"currentTime": now,
			"isExpired":   isExpired,
		},
		"environment": echo.Map{
			"authUrl":        g.authURL,
			"expectedIssuer": expectedIssuer,
		},
		"issuerMatch": issuer == expectedIssuer,
	})
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func queryInt(c echo.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}

	return v
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}
