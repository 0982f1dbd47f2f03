package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"adsignal/internal/domain"
	"adsignal/internal/usecase"
	"adsignal/pkg/config"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Prometheus collectors register against the default registry, so the
// package shares one Metrics value across all tests.
var (
	testMetrics     *metrics.Metrics
	testMetricsOnce sync.Once
)

func newTestMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() {
		testMetrics = metrics.New()
	})
	return testMetrics
}

type stubTransparencyAPI struct {
	creatives func(ctx context.Context, q domain.AdQuery) (*domain.CreativesPayload, error)
}

func (s *stubTransparencyAPI) FetchCreatives(ctx context.Context, q domain.AdQuery) (*domain.CreativesPayload, error) {
	if s.creatives == nil {
		return nil, errors.New("unexpected FetchCreatives call")
	}
	return s.creatives(ctx, q)
}

func (s *stubTransparencyAPI) FetchAdvertiserSearch(context.Context, string) (*domain.AdvertiserSearchPayload, error) {
	return nil, errors.New("unexpected FetchAdvertiserSearch call")
}

func (s *stubTransparencyAPI) FetchAdDetails(context.Context, string, string) (*domain.AdDetailsPayload, error) {
	return nil, errors.New("unexpected FetchAdDetails call")
}

func (s *stubTransparencyAPI) FetchTranscript(context.Context, string) (*domain.TranscriptPayload, error) {
	return nil, errors.New("unexpected FetchTranscript call")
}

func newTestRouter(api domain.TransparencyAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := logger.New("error")
	m := newTestMetrics()
	cfg := config.AnalysisConfig{
		WindowDays:       365,
		Region:           "US",
		Vertical:         "other",
		SnapshotLookback: 120,
		CreativeLookback: 60,
	}

	snapshots := usecase.NewSnapshotService(api, log, m, cfg)
	creatives := usecase.NewCreativeService(api, log, m, cfg)
	handler := NewRPCHandler(NewDispatcher(snapshots, creatives, log, m), log)

	router := gin.New()
	router.POST("/mcp", handler.Handle)
	return router
}

func postRPC(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeRPC(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestToolsListCatalog(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRPC(t, w)
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, float64(1), resp["id"])
	require.NotContains(t, resp, "error")

	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	require.Len(t, tools, 4)

	names := make([]string, 0, len(tools))
	for _, raw := range tools {
		tool := raw.(map[string]any)
		names = append(names, tool["name"].(string))

		annotations := tool["annotations"].(map[string]any)
		assert.Equal(t, true, annotations["readOnlyHint"])

		schema := tool["inputSchema"].(map[string]any)
		assert.Equal(t, "object", schema["type"])
		assert.Equal(t, false, schema["additionalProperties"])
		require.NotEmpty(t, schema["required"])
	}
	assert.Equal(t, []string{
		ToolDomainAdsSummary,
		ToolSearchAdCreative,
		ToolDisplayAdCreative,
		ToolVideoAdCreative,
	}, names)
}

func TestInitialize(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":"init-1","method":"initialize","params":{"protocolVersion":"2025-03-26"}}`)
	resp := decodeRPC(t, w)

	result := resp["result"].(map[string]any)
	assert.Equal(t, "2025-03-26", result["protocolVersion"])

	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, serverName, serverInfo["name"])
	assert.Equal(t, serverVersion, serverInfo["version"])

	capabilities := result["capabilities"].(map[string]any)
	assert.Contains(t, capabilities, "tools")
}

func TestInitializeDefaultsProtocolVersion(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":2,"method":"initialize"}`)
	resp := decodeRPC(t, w)

	result := resp["result"].(map[string]any)
	assert.Equal(t, protocolVersionDefault, result["protocolVersion"])
}

func TestNotificationGetsNoBody(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestMalformedJSON(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRPC(t, w)
	assert.Nil(t, resp["id"])
	rpcErr := resp["error"].(map[string]any)
	assert.Equal(t, float64(codeInvalidRequest), rpcErr["code"])
}

func TestWrongProtocolVersion(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"1.0","id":3,"method":"tools/list"}`)
	resp := decodeRPC(t, w)

	rpcErr := resp["error"].(map[string]any)
	assert.Equal(t, float64(codeInvalidRequest), rpcErr["code"])
}

func TestUnknownMethod(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":4,"method":"resources/list"}`)
	resp := decodeRPC(t, w)

	rpcErr := resp["error"].(map[string]any)
	assert.Equal(t, float64(codeMethodNotFound), rpcErr["code"])
	assert.Equal(t, "unknown method: resources/list", rpcErr["message"])
}

func TestUnknownTool(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)
	resp := decodeRPC(t, w)

	rpcErr := resp["error"].(map[string]any)
	assert.Equal(t, float64(codeMethodNotFound), rpcErr["code"])
	assert.Equal(t, "unknown tool: nope", rpcErr["message"])
}

func TestToolsCallMissingParams(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	for _, body := range []string{
		`{"jsonrpc":"2.0","id":6,"method":"tools/call"}`,
		`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"arguments":{}}}`,
	} {
		resp := decodeRPC(t, postRPC(t, router, body))
		rpcErr := resp["error"].(map[string]any)
		assert.Equal(t, float64(codeInvalidParams), rpcErr["code"])
	}
}

func TestDomainAdsSummaryInvalidDomainToolError(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"domain_ads_summary","arguments":{"domain":"not a domain"}}}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRPC(t, w)
	require.NotContains(t, resp, "error")

	result := resp["result"].(map[string]any)
	toolErr := result["error"].(map[string]any)
	assert.Equal(t, CodeInvalidDomain, toolErr["code"])
	assert.Equal(t, "Domain must be a valid apex domain.", toolErr["message"])
}

func TestDomainAdsSummaryUpstreamToolError(t *testing.T) {
	api := &stubTransparencyAPI{
		creatives: func(context.Context, domain.AdQuery) (*domain.CreativesPayload, error) {
			return nil, &domain.UpstreamError{Kind: domain.UpstreamKindHTTP, Status: 503, Message: "service unavailable"}
		},
	}
	router := newTestRouter(api)

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"domain_ads_summary","arguments":{"domain":"example.com"}}}`)
	resp := decodeRPC(t, w)

	result := resp["result"].(map[string]any)
	toolErr := result["error"].(map[string]any)
	assert.Equal(t, CodeUpstreamError, toolErr["code"])

	details := toolErr["details"].(map[string]any)
	assert.Equal(t, "http", details["cause"])
	assert.Equal(t, float64(503), details["status"])
}

func TestDomainAdsSummarySuccess(t *testing.T) {
	lastShown := time.Now().UTC().AddDate(0, 0, -5).Format("2006-01-02")
	firstShown := time.Now().UTC().AddDate(0, 0, -40).Format("2006-01-02")

	api := &stubTransparencyAPI{
		creatives: func(_ context.Context, q domain.AdQuery) (*domain.CreativesPayload, error) {
			payload := &domain.CreativesPayload{
				SearchMetadata: domain.SearchMetadata{Status: "Success"},
				Engine:         domain.EngineCreatives,
				AdFormat:       q.Format,
			}
			if q.Format == domain.VendorFormatText {
				payload.AdCreatives = []domain.RawCreative{
					{FirstShown: firstShown, LastShown: lastShown},
				}
			}
			return payload, nil
		},
	}
	router := newTestRouter(api)

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"domain_ads_summary","arguments":{"domain":"Example.COM"}}}`)
	resp := decodeRPC(t, w)

	result := resp["result"].(map[string]any)

	content := result["content"].([]any)
	require.Len(t, content, 1)
	block := content[0].(map[string]any)
	assert.Equal(t, "text", block["type"])
	assert.Contains(t, block["text"], `"domain":"example.com"`)

	structured := result["structuredContent"].(map[string]any)
	assert.Equal(t, "example.com", structured["domain"])
	assert.Equal(t, domain.StatusActive, structured["status"])

	totals := structured["totals"].(map[string]any)
	assert.Equal(t, float64(1), totals["ads"])
}

func TestToolErrorMapping(t *testing.T) {
	validation := toolError(domain.NewValidationError("bad input"), CodeInvalidQuery)
	assert.Equal(t, CodeInvalidQuery, validation.Error.Code)
	assert.Equal(t, "bad input", validation.Error.Message)

	network := toolError(&domain.UpstreamError{Kind: domain.UpstreamKindNetwork, Message: "refused"}, CodeInvalidDomain)
	assert.Equal(t, CodeUpstreamError, network.Error.Code)
	details := network.Error.Details.(map[string]any)
	assert.Equal(t, "network", details["cause"])
	assert.NotContains(t, details, "status")
}

func TestToolsCallForwardsTimePeriod(t *testing.T) {
	var mu sync.Mutex
	var periods []domain.TimePeriod

	api := &stubTransparencyAPI{
		creatives: func(_ context.Context, q domain.AdQuery) (*domain.CreativesPayload, error) {
			mu.Lock()
			periods = append(periods, q.Period)
			mu.Unlock()
			return &domain.CreativesPayload{
				SearchMetadata: domain.SearchMetadata{Status: "Success"},
				Engine:         domain.EngineCreatives,
				AdFormat:       q.Format,
			}, nil
		},
	}
	router := newTestRouter(api)

	w := postRPC(t, router, `{"jsonrpc":"2.0","id":11,"method":"tools/call","params":{"name":"domain_ads_summary","arguments":{"domain":"example.com","time_period":"last_30_days"}}}`)
	resp := decodeRPC(t, w)
	require.NotContains(t, resp, "error")

	require.Len(t, periods, 3)
	for _, period := range periods {
		assert.Equal(t, domain.TimePeriod{Preset: domain.PeriodLast30Days}, period)
	}
}

func TestToolSchemasExposeTimePeriod(t *testing.T) {
	router := newTestRouter(&stubTransparencyAPI{})

	resp := decodeRPC(t, postRPC(t, router, `{"jsonrpc":"2.0","id":12,"method":"tools/list"}`))
	result := resp["result"].(map[string]any)

	for _, raw := range result["tools"].([]any) {
		tool := raw.(map[string]any)
		schema := tool["inputSchema"].(map[string]any)
		properties := schema["properties"].(map[string]any)
		require.Contains(t, properties, "time_period", "tool %s", tool["name"])

		required := schema["required"].([]any)
		assert.NotContains(t, required, "time_period")
	}
}
