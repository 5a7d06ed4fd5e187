package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

func newTestEnv(t *testing.T) *enrichEnv {
	t.Helper()

	cfg = &config.Config{}
	cfg.Batch.Concurrency = 2

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	return &enrichEnv{
		Store: st,
		Orch:  enrich.New(enrich.Deps{}),
	}
}

func TestServeHealth(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeEnrich(t *testing.T) {
	env := newTestEnv(t)
	router := newRouter(env)

	body := bytes.NewBufferString(`{"name":"Acme Plumbing","website":"https://acmeplumbing.co.uk"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		model.Lead
		Signals []string `json:"signals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Acme Plumbing", resp.BusinessName)
	assert.Equal(t, model.EnrichmentStatusComplete, resp.Enrichment.Status)
	require.NotNil(t, resp.LeadScore)
	assert.NotEmpty(t, resp.Signals)

	// The lead is persisted and retrievable.
	stored, err := env.Store.GetLead(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Acme Plumbing", stored.BusinessName)
}

func TestServeEnrichValidation(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich", bytes.NewBufferString(`{"website":"https://a.co.uk"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich", bytes.NewBufferString(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeEnrichBatch(t *testing.T) {
	router := newRouter(newTestEnv(t))

	body := bytes.NewBufferString(`{"businesses":[{"name":"Acme Plumbing"},{"name":"Beta Roofing"}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich/batch", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Items, 2)
	assert.Equal(t, 2, summary.Succeeded)
}

func TestServeEnrichBatchValidation(t *testing.T) {
	router := newRouter(newTestEnv(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich/batch", bytes.NewBufferString(`{"businesses":[]}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeEnrichBatchTooLarge(t *testing.T) {
	router := newRouter(newTestEnv(t))

	oversized := struct {
		Businesses []model.BasicBusiness `json:"businesses"`
	}{Businesses: make([]model.BasicBusiness, maxBatchRequest+1)}
	for i := range oversized.Businesses {
		oversized.Businesses[i].Name = "Acme Plumbing"
	}
	body, err := json.Marshal(oversized)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich/batch", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too many businesses")
}

func TestServeEnrichBatchMissingNameReportedPerItem(t *testing.T) {
	router := newRouter(newTestEnv(t))

	body := bytes.NewBufferString(`{"businesses":[{"name":"Acme Plumbing"},{"website":"https://nameless.co.uk"}]}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/enrich/batch", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var summary BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Items, 2)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, model.EnrichmentStatusFailed, summary.Items[1].Status)
	assert.Equal(t, "business name is required", summary.Items[1].Error)
}

func TestServeListLeads(t *testing.T) {
	env := newTestEnv(t)
	router := newRouter(env)

	lead := &model.Lead{
		ID:           "lead-1",
		BusinessName: "Acme Plumbing",
		Enrichment:   model.EnrichmentMeta{Status: model.EnrichmentStatusComplete},
		LeadScore:    &model.LeadScore{Total: 80, PriorityRank: model.PriorityHot},
	}
	require.NoError(t, env.Store.SaveLead(context.Background(), lead))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads?rank=hot&min_score=70", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Leads []model.Lead `json:"leads"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "lead-1", resp.Leads[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads?min_score=banana", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeGetLead(t *testing.T) {
	env := newTestEnv(t)
	router := newRouter(env)

	lead := &model.Lead{
		ID:           "lead-1",
		BusinessName: "Acme Plumbing",
		Enrichment:   model.EnrichmentMeta{Status: model.EnrichmentStatusComplete},
	}
	require.NoError(t, env.Store.SaveLead(context.Background(), lead))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/lead-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
