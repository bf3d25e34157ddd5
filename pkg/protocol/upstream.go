package protocol

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// upstream is the part of the call both handlers share: the exchange itself
// and response normalization.
type upstream struct {
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

func (u *upstream) exchange(ctx context.Context, call Call, req *http.Request) (*types.Response, error) {
	log := logging.FromContext(ctx)

	ctx, span := u.tracer.Start(ctx, "egress.upstream", tracing.ClientSpan())
	defer span.End()
	tracing.SetUpstreamAttributes(span, req.Method, req.URL.Host)

	log.Debug("outbound headers", "count", len(req.Header))

	start := time.Now()
	reply, err := call.Egress.Exchange(ctx, req)
	if err != nil {
		u.metrics.RecordUpstreamError(call.Region, string(call.Mode))
		tracing.SetError(span, err)
		return nil, err
	}
	latency := time.Since(start)

	u.metrics.RecordUpstreamResponse(call.Region, string(call.Mode), reply.Status, latency, len(reply.Body))
	tracing.SetResponseAttributes(span, reply.Status, len(reply.Body))

	log.Info("upstream responded", "status", reply.Status)
	log.Debug("response headers", "count", len(reply.Header))
	log.Debug("response body", "bytes", len(reply.Body))

	return normalize(reply), nil
}

// normalize converts an upstream reply into the success shape.
func normalize(reply *egress.Reply) *types.Response {
	return types.NewResponse(reply.Status, flattenHeaders(reply.Header), decodeBody(reply.Header.Get("Content-Type"), reply.Body))
}

// flattenHeaders lower-cases names and joins repeated values with ", ".
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.ToLower(name)
		value := strings.Join(h[name], ", ")
		if prev, ok := out[key]; ok {
			value = prev + ", " + value
		}
		out[key] = value
	}
	return out
}

// decodeBody returns the body as a JSON document when the upstream declared
// a JSON media type and the body parses, otherwise as a JSON string.
func decodeBody(contentType string, body []byte) json.RawMessage {
	if isJSON(contentType) && json.Valid(body) {
		return json.RawMessage(body)
	}
	return types.TextBody(string(body))
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
