package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matst80/slask-facets/pkg/cache"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/query"
	"github.com/matst80/slask-facets/pkg/tracking"
)

var (
	facetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_facet_requests_total",
		Help: "The total number of facet state requests",
	})
	facetCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_facet_cache_hits_total",
		Help: "The total number of facet state requests served from cache",
	})
	facetActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskfacets_facet_actions_total",
		Help: "The total number of facet mutations by action",
	}, []string{"action"})
)

func (ws *WebServer) GetFacets(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	ctx, span := tracer.Start(r.Context(), "GetFacets")
	defer span.End()
	facetRequests.Inc()

	req := FacetRequest{}
	if err := GetFacetRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	snapshot := ws.Catalog.Snapshot()

	var res FacetResponse
	helper := cache.NewCacheHelper[FacetResponse](ws.Cache)
	hit, err := helper.Handle(ctx, cache.FacetKey(snapshot.Hash, req.CacheKey()), &res, func() (FacetResponse, error) {
		store := query.NewMemoryStore(req.Selections...)
		e := snapshot.Engine(store)
		return newFacetResponse(e, &req, store.String()), nil
	}, ws.CacheTTL)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return err
	}
	if hit {
		facetCacheHits.Inc()
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("facets.count", res.Count))

	defaultHeaders(w, r, true, "120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func applyAction(e *facet.Engine, action tracking.Action, category, value string) bool {
	switch action {
	case tracking.ActionAdd:
		e.AddFacet(category, value)
	case tracking.ActionRemove:
		e.RemoveFacet(category, value)
	case tracking.ActionToggle:
		e.ToggleFacet(category, value)
	case tracking.ActionClear:
		e.RemoveAllFacets()
	default:
		return false
	}
	return true
}

// ApplyFacetAction replays the selections in the query, applies one mutation
// and answers with the resulting state and rewritten query.
func (ws *WebServer) ApplyFacetAction(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	_, span := tracer.Start(r.Context(), "ApplyFacetAction")
	defer span.End()

	action := tracking.Action(r.PathValue("action"))
	req := FacetRequest{}
	if err := GetFacetRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	if action != tracking.ActionClear && (req.Category == "" || req.Value == "") {
		http.Error(w, "category and value are required", http.StatusBadRequest)
		return nil
	}

	snapshot := ws.Catalog.Snapshot()
	store := query.NewMemoryStore(req.Selections...)
	e := snapshot.Engine(store)
	if !applyAction(e, action, req.Category, req.Value) {
		http.NotFound(w, r)
		return nil
	}
	facetActions.WithLabelValues(string(action)).Inc()

	res := newFacetResponse(e, &req, store.String())
	ws.Tracking.TrackFacet(sessionId, action, req.Category, req.Value, res.Count)
	span.SetAttributes(attribute.String("facets.action", string(action)), attribute.Int("facets.count", res.Count))

	noCacheHeaders(w, r, true)
	w.WriteHeader(http.StatusOK)
	return enc.Encode(res)
}

func (ws *WebServer) GetEnabledCount(w http.ResponseWriter, r *http.Request, sessionId string, enc jsoncompat.Encoder) error {
	category := r.PathValue("category")
	req := FacetRequest{}
	if err := GetFacetRequest(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}
	snapshot := ws.Catalog.Snapshot()
	if !snapshot.HasCategory(category) {
		http.NotFound(w, r)
		return nil
	}
	e := snapshot.Engine(query.NewMemoryStore(req.Selections...))

	defaultHeaders(w, r, true, "120")
	w.WriteHeader(http.StatusOK)
	return enc.Encode(EnabledResponse{
		Category: category,
		Enabled:  e.GetEnabledFacetCount(category),
	})
}
