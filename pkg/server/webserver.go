package server

import (
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-facets/pkg/cache"
	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/storage"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
)

// ItemsPublisher announces a replaced item collection to other nodes.
type ItemsPublisher interface {
	SendItems(items []types.DataItem) error
}

type WebServer struct {
	Catalog     *Catalog
	Cache       *cache.Cache
	Tracking    tracking.Tracking
	Storage     *storage.DiskStorage
	Publisher   ItemsPublisher
	AdminSecret []byte
	CacheTTL    time.Duration
}

func NewWebServer(catalog *Catalog) *WebServer {
	return &WebServer{
		Catalog:  catalog,
		Tracking: tracking.NopTracking{},
		CacheTTL: 5 * time.Minute,
	}
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("GET /facets", common.JsonHandler(ws.Tracking, ws.GetFacets))
	srv.HandleFunc("POST /facets/{action}", common.JsonHandler(ws.Tracking, ws.ApplyFacetAction))
	srv.HandleFunc("OPTIONS /facets/{action}", common.RespondToOptions)
	srv.HandleFunc("GET /facets/enabled/{category}", common.JsonHandler(ws.Tracking, ws.GetEnabledCount))
	return srv
}

func (ws *WebServer) AdminHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("GET /items", ws.AuthMiddleware(common.JsonHandler(nil, ws.GetItems)))
	srv.HandleFunc("PUT /items", ws.AuthMiddleware(common.JsonHandler(nil, ws.ReplaceItems)))
	srv.HandleFunc("PUT /categories", ws.AuthMiddleware(common.JsonHandler(nil, ws.ReplaceCategories)))
	return srv
}

// Handler mounts the client api under /api and admin endpoints under /admin.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", ws.ClientHandler()))
	mux.Handle("/admin/", http.StripPrefix("/admin", ws.AdminHandler()))
	mux.HandleFunc("/health", health)
	return mux
}

func health(w http.ResponseWriter, r *http.Request) {
	genericHeaders(w, r, false)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Println("Error writing health check response")
	}
}

func DebugHandler(enableProfiling bool) *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", health)
	srv.Handle("/metrics", promhttp.Handler())
	if enableProfiling {
		srv.HandleFunc("/debug/pprof/", pprof.Index)
		srv.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		srv.HandleFunc("/debug/pprof/profile", pprof.Profile)
		srv.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		srv.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return srv
}
