package delivery

import (
	"context"
	"encoding/json"
	"net/http"

	"adsignal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// JSON-RPC protocol error codes
const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

const (
	protocolVersionDefault = "2024-11-05"
	serverName             = "adsignal"
	serverVersion          = "1.0.0"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// RPCHandler serves the JSON-RPC 2.0 tool protocol on a single POST path
type RPCHandler struct {
	dispatcher *Dispatcher
	logger     *logger.Logger
}

// NewRPCHandler creates the JSON-RPC handler
func NewRPCHandler(dispatcher *Dispatcher, logger *logger.Logger) *RPCHandler {
	return &RPCHandler{dispatcher: dispatcher, logger: logger}
}

// Handle processes one JSON-RPC request. Requests without an id are
// notifications and receive HTTP 204 with no body; everything else gets
// a JSON-RPC result or protocol error with HTTP 200.
func (h *RPCHandler) Handle(c *gin.Context) {
	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      json.RawMessage("null"),
			Error:   &rpcError{Code: codeInvalidRequest, Message: "invalid request"},
		})
		return
	}

	notification := isNullID(req.ID)

	if req.JSONRPC != "2.0" {
		if notification {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidRequest, Message: "jsonrpc must be \"2.0\""},
		})
		return
	}

	result, protoErr := h.dispatch(c.Request.Context(), &req)

	if notification {
		c.Status(http.StatusNoContent)
		return
	}

	if protoErr != nil {
		c.JSON(http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: protoErr})
		return
	}
	c.JSON(http.StatusOK, rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (h *RPCHandler) dispatch(ctx context.Context, req *rpcRequest) (any, *rpcError) {
	switch req.Method {
	case "initialize":
		var params struct {
			ProtocolVersion string `json:"protocolVersion"`
		}
		if len(req.Params) > 0 {
			// Param shape is advisory; a best-effort read keeps older hosts working
			_ = json.Unmarshal(req.Params, &params)
		}
		version := params.ProtocolVersion
		if version == "" {
			version = protocolVersionDefault
		}
		return gin.H{
			"protocolVersion": version,
			"serverInfo":      gin.H{"name": serverName, "version": serverVersion},
			"capabilities":    gin.H{"tools": gin.H{}},
		}, nil

	case "notifications/initialized":
		return gin.H{"ok": true}, nil

	case "tools/list":
		return gin.H{"tools": h.dispatcher.List()}, nil

	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if len(req.Params) == 0 || json.Unmarshal(req.Params, &params) != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: "tools/call params must carry a name and arguments"}
		}
		if params.Name == "" {
			return nil, &rpcError{Code: codeInvalidParams, Message: "tool name is required"}
		}
		payload, found := h.dispatcher.Call(ctx, params.Name, params.Arguments)
		if !found {
			return nil, &rpcError{Code: codeMethodNotFound, Message: "unknown tool: " + params.Name}
		}
		return payload, nil

	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "unknown method: " + req.Method}
	}
}

func isNullID(id json.RawMessage) bool {
	return len(id) == 0 || string(id) == "null"
}
