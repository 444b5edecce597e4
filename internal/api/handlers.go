package api

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/common"
	"github.com/PUSHPAK-96/cartwise/internal/export"
	"github.com/PUSHPAK-96/cartwise/internal/loader"
	"github.com/PUSHPAK-96/cartwise/internal/mining"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/network"
	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
	"github.com/PUSHPAK-96/cartwise/internal/recommend"
	"github.com/PUSHPAK-96/cartwise/internal/storage"
	"github.com/PUSHPAK-96/cartwise/internal/survey"
)

// MaxUploadBytes bounds request bodies.
const MaxUploadBytes = 64 << 20

var errBadQuery = errors.New("invalid query parameter")

// DatasetStore is the subset of the dataset store the API reads from.
type DatasetStore interface {
	GetDataset(ctx context.Context, name string) ([]model.Transaction, error)
	ListDatasets(ctx context.Context) ([]model.Dataset, error)
}

// RulesResponse is the body of POST /api/v1/rules.
type RulesResponse struct {
	Params      pipeline.Params     `json:"params"`
	Fingerprint string              `json:"fingerprint"`
	Rules       []model.DisplayRule `json:"rules"`
	Stats       model.BasketStats   `json:"stats"`
	Itemsets    int                 `json:"itemsets"`
	TotalRules  int                 `json:"total_rules"`
	Cached      bool                `json:"cached"`
}

// RecommendationsResponse is the body of POST /api/v1/recommendations.
type RecommendationsResponse struct {
	Basket          []string               `json:"basket"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// NetworkResponse is the body of POST /api/v1/network.
type NetworkResponse struct {
	Nodes []string       `json:"nodes"`
	Edges []network.Edge `json:"edges"`
}

// SurveyResponse is the body of POST /api/v1/survey.
type SurveyResponse struct {
	Rows     []model.SurveyResponse `json:"rows"`
	Share    []survey.ShareEntry    `json:"share"`
	Keywords []string               `json:"keywords"`
	Segments []survey.SegmentMean   `json:"segments"`
	Summary  survey.Summary         `json:"summary"`
	Total    int                    `json:"total"`
	Filtered int                    `json:"filtered"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// PresetResponse describes one named threshold preset.
type PresetResponse struct {
	Name   string          `json:"name"`
	Params pipeline.Params `json:"params"`
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// Presets lists the threshold presets.
func (s *Server) Presets(w http.ResponseWriter, r *http.Request) {
	names := pipeline.PresetNames()
	out := make([]PresetResponse, 0, len(names))
	for _, name := range names {
		p, err := pipeline.Preset(name)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		out = append(out, PresetResponse{Name: name, Params: p})
	}
	respondJSON(w, r, http.StatusOK, out)
}

// Datasets lists stored datasets.
func (s *Server) Datasets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondJSON(w, r, http.StatusOK, []model.Dataset{})
		return
	}
	datasets, err := s.store.ListDatasets(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, datasets)
}

// Rules mines and filters rules. Format csv or xlsx downloads the table.
func (s *Server) Rules(w http.ResponseWriter, r *http.Request) {
	params, err := s.parseParams(r.URL.Query())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	txns, err := s.transactions(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), txns, params)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.RecordAnalysis(res.Cached, len(res.Filtered))

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		respondJSON(w, r, http.StatusOK, RulesResponse{
			Params:      res.Params,
			Fingerprint: res.Fingerprint,
			Rules:       nonNil(res.Filtered),
			Stats:       res.Stats,
			Itemsets:    len(res.Itemsets),
			TotalRules:  len(res.Rules),
			Cached:      res.Cached,
		})
	case "csv":
		respondFile(w, "text/csv", "association_rules.csv", func(w http.ResponseWriter) error {
			return export.WriteRulesCSV(w, res.Filtered)
		})
	case "xlsx":
		respondFile(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "association_rules.xlsx",
			func(w http.ResponseWriter) error {
				return export.WriteRulesXLSXTo(w, res.Filtered)
			})
	default:
		s.handleError(w, r, fmt.Errorf("%w: format must be json, csv or xlsx, got %q", errBadQuery, format))
	}
}

// Recommendations scores add-on products for the basket query parameter.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := s.parseParams(q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	items := splitList(q.Get("basket"))
	if len(items) == 0 {
		s.handleError(w, r, recommend.ErrEmptyBasket)
		return
	}
	txns, err := s.transactions(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	recs, err := s.analyzer.Recommend(r.Context(), txns, params, items)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if q.Get("format") == "csv" {
		respondFile(w, "text/csv", "recommendations.csv", func(w http.ResponseWriter) error {
			return export.WriteRecommendationsCSV(w, recs)
		})
		return
	}
	respondJSON(w, r, http.StatusOK, RecommendationsResponse{
		Basket:          model.NewItemSet(items...).Items(),
		Recommendations: nonNil(recs),
	})
}

// Network builds the product graph from the top mined rules, ignoring the
// confidence filter and the table cap. Format dot returns Graphviz source.
func (s *Server) Network(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params, err := s.parseParams(q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	topK := network.DefaultTopK
	if v := q.Get("top_k"); v != "" {
		if topK, err = parseInt("top_k", v); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	txns, err := s.transactions(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), txns, params)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.metrics.RecordAnalysis(res.Cached, len(res.Filtered))
	g := network.Build(res.Rules, topK)

	if q.Get("format") == "dot" {
		respondFile(w, "text/vnd.graphviz", "rules.dot", func(w http.ResponseWriter) error {
			return g.WriteDOT(w)
		})
		return
	}
	respondJSON(w, r, http.StatusOK, NetworkResponse{
		Nodes: nonNil(g.Nodes()),
		Edges: nonNil(g.Edges()),
	})
}

// Survey enriches uploaded responses with sentiment and returns one page of
// filtered rows plus aggregate views over the filtered set.
func (s *Server) Survey(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := parseSurveyFilter(q)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	pageSize, page := survey.DefaultPageSize, 0
	if v := q.Get("page_size"); v != "" {
		if pageSize, err = parseInt("page_size", v); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	if v := q.Get("page"); v != "" {
		if page, err = parseInt("page", v); err != nil {
			s.handleError(w, r, err)
			return
		}
	}
	topK := survey.DefaultKeywords
	if v := q.Get("keywords"); v != "" {
		if topK, err = parseInt("keywords", v); err != nil {
			s.handleError(w, r, err)
			return
		}
	}

	responses, err := survey.LoadResponses(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	enriched := s.sentiment.Enrich(responses)
	filtered := survey.Filter(enriched, opts)
	if q.Get("negatives") == "true" {
		filtered = survey.Negatives(filtered)
	}

	if q.Get("format") == "csv" {
		respondFile(w, "text/csv", "survey_enriched.csv", func(w http.ResponseWriter) error {
			return export.WriteSurveyCSV(w, filtered)
		})
		return
	}

	rows, _, err := survey.Paginate(filtered, pageSize, page)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, SurveyResponse{
		Rows:     nonNil(rows),
		Share:    nonNil(survey.Share(filtered)),
		Keywords: nonNil(survey.TopKeywords(survey.Texts(filtered), topK)),
		Segments: nonNil(survey.SegmentMeans(filtered)),
		Summary:  survey.Describe(survey.Scores(filtered)),
		Total:    len(enriched),
		Filtered: len(filtered),
		Page:     page,
		PageSize: pageSize,
	})
}

// transactions reads the named stored dataset, or the CSV request body.
func (s *Server) transactions(r *http.Request) ([]model.Transaction, error) {
	if name := r.URL.Query().Get("dataset"); name != "" {
		if s.store == nil {
			return nil, fmt.Errorf("%w: no dataset store configured", errBadQuery)
		}
		return s.store.GetDataset(r.Context(), name)
	}
	body := io.LimitReader(r.Body, MaxUploadBytes)
	return loader.LoadTransactions(body)
}

// parseParams starts from the named preset (or the server defaults) and
// applies individual overrides.
func (s *Server) parseParams(q url.Values) (pipeline.Params, error) {
	p := s.defaults
	if name := q.Get("preset"); name != "" {
		var err error
		if p, err = pipeline.Preset(name); err != nil {
			return p, err
		}
	}

	floats := map[string]*float64{
		"min_support":    &p.MinSupport,
		"min_confidence": &p.MinConfidence,
		"min_lift":       &p.MinLift,
	}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p, fmt.Errorf("%w: %s=%q is not a number", errBadQuery, key, v)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"max_len":   &p.MaxLen,
		"top_rules": &p.TopRules,
		"top_n":     &p.TopN,
	}
	for key, dst := range ints {
		if v := q.Get(key); v != "" {
			n, err := parseInt(key, v)
			if err != nil {
				return p, err
			}
			*dst = n
		}
	}

	if v := q.Get("sort_by"); v != "" {
		m, err := mining.ParseMetric(v)
		if err != nil {
			return p, fmt.Errorf("%w: %w", errBadQuery, err)
		}
		p.SortBy = m
	}

	return p, p.Validate()
}

func parseSurveyFilter(q url.Values) (survey.FilterOptions, error) {
	opts := survey.FilterOptions{
		Search:   q.Get("search"),
		Segments: splitList(q.Get("segments")),
	}
	floats := map[string]**float64{
		"min_rating": &opts.MinRating,
		"score_min":  &opts.ScoreMin,
		"score_max":  &opts.ScoreMax,
	}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, fmt.Errorf("%w: %s=%q is not a number", errBadQuery, key, v)
			}
			*dst = &f
		}
	}
	return opts, nil
}

func parseInt(key, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", errBadQuery, key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// handleError maps domain errors onto HTTP statuses.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		schemaErr *common.SchemaError
		parseErr  *csv.ParseError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &schemaErr):
		respondError(w, r, http.StatusUnprocessableEntity, "SCHEMA_ERROR", schemaErr.Hint())
	case errors.As(err, &parseErr):
		respondError(w, r, http.StatusBadRequest, "MALFORMED_CSV", err.Error())
	case errors.As(err, &sizeErr):
		respondError(w, r, http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", err.Error())
	case errors.Is(err, storage.ErrDatasetNotFound):
		respondError(w, r, http.StatusNotFound, "DATASET_NOT_FOUND", err.Error())
	case errors.Is(err, pipeline.ErrInvalidParams),
		errors.Is(err, pipeline.ErrUnknownPreset),
		errors.Is(err, recommend.ErrEmptyBasket),
		errors.Is(err, recommend.ErrInvalidTopN),
		errors.Is(err, survey.ErrInvalidPage),
		errors.Is(err, common.ErrInvalidFile),
		errors.Is(err, errBadQuery):
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, context.Canceled):
		respondError(w, r, http.StatusServiceUnavailable, "CANCELED", "request canceled")
	default:
		common.LogError(err, "Request failed", common.Fields{
			"path":       r.URL.Path,
			"request_id": GetRequestID(r.Context()),
		})
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
