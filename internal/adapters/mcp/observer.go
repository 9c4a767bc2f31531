package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"tokentrace/internal/domain"
	"tokentrace/internal/ports"
)

// observer forwards search events to the requesting client. Send failures
// are logged and otherwise ignored.
type observer struct {
	ctx    context.Context
	notify Notifier
	token  mcp.ProgressToken
	logger zerolog.Logger
}

var _ ports.SearchObserver = (*observer)(nil)

func (o *observer) OnProgress(p domain.Progress) {
	params := map[string]any{
		"progress":             p.Current,
		"total":                p.Total,
		"percentage":           p.Percentage,
		"nodesFound":           p.NodesFound,
		"currentVariableName":  p.CurrentVariableName,
		"currentVariableIndex": p.CurrentVariableIndex,
		"totalVariables":       p.TotalVariables,
	}
	if o.token != nil {
		params["progressToken"] = o.token
	}
	o.send(MethodProgress, params)
}

func (o *observer) OnStreamingResult(r domain.StreamingResult) {
	o.send(MethodStreamingResult, map[string]any{
		"variableId":   r.VariableID,
		"variableName": r.VariableName,
		"instanceNode": map[string]any{
			"id":       r.InstanceNode.ID,
			"name":     r.InstanceNode.Name,
			"type":     string(r.InstanceNode.Type),
			"pageName": r.InstanceNode.PageName,
		},
	})
}

func (o *observer) OnComplete() {
	o.send(MethodSearchComplete, map[string]any{})
}

func (o *observer) send(method string, params map[string]any) {
	// the request may be finishing because it was cancelled
	ctx := context.WithoutCancel(o.ctx)
	if err := o.notify(ctx, method, params); err != nil {
		o.logger.Debug().Err(err).Str("method", method).Msg("notification not delivered")
	}
}
