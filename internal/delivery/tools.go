package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"adsignal/internal/domain"
	"adsignal/internal/usecase"
	"adsignal/pkg/logger"
	"adsignal/pkg/metrics"
)

// Tool error codes of the dispatcher envelope
const (
	CodeInvalidDomain = "invalid_domain"
	CodeInvalidQuery  = "invalid_query"
	CodeUpstreamError = "upstream_error"
)

// Tool names
const (
	ToolDomainAdsSummary  = "domain_ads_summary"
	ToolSearchAdCreative  = "search_ad_creative"
	ToolDisplayAdCreative = "display_ad_creative"
	ToolVideoAdCreative   = "video_ad_creative"
)

// ToolAnnotations carries the MCP behavior hints for a tool
type ToolAnnotations struct {
	ReadOnlyHint bool `json:"readOnlyHint"`
}

// ToolDefinition is one entry of the tools/list catalog
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema map[string]any  `json:"inputSchema"`
	Annotations ToolAnnotations `json:"annotations"`
}

// ContentItem is one block of a tool result
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolSuccess is the success wrapper returned inside the JSON-RPC result
type ToolSuccess struct {
	Content           []ContentItem `json:"content"`
	StructuredContent any           `json:"structuredContent"`
}

// ToolErrorBody is the typed error payload
type ToolErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ToolError is the error wrapper returned inside the JSON-RPC result
type ToolError struct {
	Error ToolErrorBody `json:"error"`
}

// Dispatcher resolves tool names to pipeline invocations and wraps
// outcomes into the envelope expected by the host runtime.
type Dispatcher struct {
	snapshots *usecase.SnapshotService
	creatives *usecase.CreativeService
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewDispatcher creates a tool dispatcher
func NewDispatcher(
	snapshots *usecase.SnapshotService,
	creatives *usecase.CreativeService,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Dispatcher {
	return &Dispatcher{
		snapshots: snapshots,
		creatives: creatives,
		logger:    logger,
		metrics:   metrics,
	}
}

// List returns the tool catalog
func (d *Dispatcher) List() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        ToolDomainAdsSummary,
			Description: "Build a seller-facing advertising activity snapshot for a web domain from ads transparency data.",
			InputSchema: domainInputSchema(),
			Annotations: ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        ToolSearchAdCreative,
			Description: "Fetch and enrich the most recent search (text) ad creative for a domain or advertiser.",
			InputSchema: queryInputSchema(),
			Annotations: ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        ToolDisplayAdCreative,
			Description: "Fetch and enrich the most recent display (image) ad creative for a domain or advertiser.",
			InputSchema: queryInputSchema(),
			Annotations: ToolAnnotations{ReadOnlyHint: true},
		},
		{
			Name:        ToolVideoAdCreative,
			Description: "Fetch the most recent video ad creative for a domain or advertiser, with YouTube transcript when available.",
			InputSchema: queryInputSchema(),
			Annotations: ToolAnnotations{ReadOnlyHint: true},
		},
	}
}

// Call runs the named tool. The second return is false for unknown tools.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (any, bool) {
	start := time.Now()
	d.metrics.IncToolCallsInFlight()
	defer d.metrics.DecToolCallsInFlight()

	var payload any
	switch name {
	case ToolDomainAdsSummary:
		payload = d.domainAdsSummary(ctx, args)
	case ToolSearchAdCreative:
		payload = d.adCreative(ctx, args, domain.VendorFormatText)
	case ToolDisplayAdCreative:
		payload = d.adCreative(ctx, args, domain.VendorFormatImage)
	case ToolVideoAdCreative:
		payload = d.adCreative(ctx, args, domain.VendorFormatVideo)
	default:
		return nil, false
	}

	status := "success"
	if toolErr, ok := payload.(ToolError); ok {
		status = toolErr.Error.Code
	}
	d.metrics.RecordToolCall(name, status, time.Since(start))

	return payload, true
}

func (d *Dispatcher) domainAdsSummary(ctx context.Context, args map[string]any) any {
	rawDomain, _ := args["domain"].(string)
	vertical, _ := args["vertical"].(string)
	period, _ := args["time_period"].(string)

	summary, err := d.snapshots.DomainAdsSummary(ctx, rawDomain, vertical, period)
	if err != nil {
		d.logger.WithContext(ctx).WithError(err).Warn("domain_ads_summary failed")
		return toolError(err, CodeInvalidDomain)
	}
	return toolSuccess(summary)
}

func (d *Dispatcher) adCreative(ctx context.Context, args map[string]any, vendorFormat string) any {
	query, _ := args["query"].(string)
	period, _ := args["time_period"].(string)

	result, err := d.creatives.LookupCreative(ctx, query, vendorFormat, period)
	if err != nil {
		d.logger.WithContext(ctx).WithError(err).WithField("ad_format", vendorFormat).Warn("Creative lookup failed")
		return toolError(err, CodeInvalidQuery)
	}
	return toolSuccess(result)
}

// toolSuccess wraps a pipeline result as text content plus structured content
func toolSuccess(v any) ToolSuccess {
	text, err := json.Marshal(v)
	if err != nil {
		text = []byte("{}")
	}
	return ToolSuccess{
		Content:           []ContentItem{{Type: "text", Text: string(text)}},
		StructuredContent: v,
	}
}

// toolError maps validation errors to the tool-specific invalid_* code
// and everything else to upstream_error
func toolError(err error, validationCode string) ToolError {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return ToolError{Error: ToolErrorBody{
			Code:    validationCode,
			Message: validationErr.Message,
		}}
	}

	body := ToolErrorBody{Code: CodeUpstreamError, Message: err.Error()}
	var upErr *domain.UpstreamError
	if errors.As(err, &upErr) {
		details := map[string]any{"cause": string(upErr.Kind)}
		if upErr.Status > 0 {
			details["status"] = upErr.Status
		}
		body.Details = details
	}
	return ToolError{Error: body}
}

func domainInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"domain": map[string]any{
				"type":        "string",
				"description": "Web domain to analyze, e.g. example.com",
			},
			"vertical": map[string]any{
				"type":        "string",
				"description": "Optional advertiser vertical used for scoring pressure",
			},
			"time_period": periodProperty(),
		},
		"required":             []string{"domain"},
		"additionalProperties": false,
	}
}

func queryInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Web domain or advertiser name to look up",
			},
			"time_period": periodProperty(),
		},
		"required":             []string{"query"},
		"additionalProperties": false,
	}
}

func periodProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Optional time period: a preset (today, yesterday, last_7_days, last_30_days) or a YYYY-MM-DD..YYYY-MM-DD range; anything else falls back to quarter-to-date",
	}
}
