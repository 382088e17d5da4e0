package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

var (
	totalItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskfacets_items_total",
		Help: "The total number of items in the catalog",
	})
	catalogVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slaskfacets_catalog_version",
		Help: "The current catalog version",
	})
	itemReplacements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_item_replacements_total",
		Help: "The total number of item collection replacements through the admin api",
	})
)

func CreateAdminToken(secret []byte, username string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"username": username,
			"role":     "admin",
			"exp":      time.Now().Add(ttl).Unix(),
		})
	return token.SignedString(secret)
}

// bearerToken reads the Authorization header. Admin tokens are minted offline
// with cmd/writer, there is no login flow that could set a cookie.
func bearerToken(r *http.Request) string {
	if auth, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return auth
	}
	return ""
}

func (ws *WebServer) validToken(raw string) bool {
	if raw == "" || len(ws.AdminSecret) == 0 {
		return false
	}
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ws.AdminSecret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return ok && claims["role"] == "admin"
}

func (ws *WebServer) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !ws.validToken(bearerToken(r)) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (ws *WebServer) GetItems(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	noCacheHeaders(w, r, true)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ws.Catalog.Snapshot().Items)
}

func (ws *WebServer) ReplaceItems(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	items := make([]types.DataItem, 0)
	if err := jsoncompat.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	ws.Catalog.ReplaceItems(items)
	itemReplacements.Inc()
	log.Printf("Replaced item collection, %d items", len(items))

	if ws.Storage != nil {
		if err := ws.Storage.SaveItems(items); err != nil {
			log.Printf("Failed to save items: %v", err)
		}
	}
	if ws.Publisher != nil {
		if err := ws.Publisher.SendItems(items); err != nil {
			log.Printf("Failed to publish items: %v", err)
		}
	}

	noCacheHeaders(w, r, true)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(ItemsUpdatedResponse{
		Version: ws.Catalog.Snapshot().Version,
		Items:   len(items),
	})
}

func (ws *WebServer) ReplaceCategories(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	categories := make([]types.CategoryConfig, 0)
	if err := jsoncompat.NewDecoder(r.Body).Decode(&categories); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	if err := ws.Catalog.ReplaceCategories(categories); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	if ws.Storage != nil {
		if err := ws.Storage.SaveCategories(categories); err != nil {
			log.Printf("Failed to save categories: %v", err)
		}
	}
	noCacheHeaders(w, r, true)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(categories)
}
