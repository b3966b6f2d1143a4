package har

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const maxRedirects = 10

// Replayer serves recorded responses to a Rod page.
type Replayer struct {
	exact       map[string]*Entry
	byPath      map[string]*Entry
	passthrough bool
	log         *zap.Logger
}

// ReplayerOption configures a Replayer.
type ReplayerOption func(*Replayer)

// WithPassthrough lets unmatched requests reach the network. By default
// they get a 404.
func WithPassthrough(enabled bool) ReplayerOption {
	return func(r *Replayer) { r.passthrough = enabled }
}

// WithLogger logs request matching at debug level.
func WithLogger(l *zap.Logger) ReplayerOption {
	return func(r *Replayer) {
		if l != nil {
			r.log = l
		}
	}
}

func NewReplayer(log *Log, opts ...ReplayerOption) *Replayer {
	r := &Replayer{
		exact:  make(map[string]*Entry),
		byPath: make(map[string]*Entry),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i := range log.Entries {
		entry := &log.Entries[i]
		r.exact[entry.Request.URL] = entry
		// The first recording of a path wins the query-less fallback.
		if key, ok := pathKey(entry.Request.URL); ok {
			if _, exists := r.byPath[key]; !exists {
				r.byPath[key] = entry
			}
		}
	}
	return r
}

func pathKey(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path, true
}

// Lookup finds the recording for a URL, by exact match first and then by
// path without query, following recorded redirects.
func (r *Replayer) Lookup(reqURL string) (*Entry, bool) {
	entry, found := r.find(reqURL)
	if !found {
		return nil, false
	}
	return r.followRedirects(entry), true
}

func (r *Replayer) find(reqURL string) (*Entry, bool) {
	if entry, ok := r.exact[reqURL]; ok {
		return entry, true
	}
	if key, ok := pathKey(reqURL); ok {
		entry, found := r.byPath[key]
		return entry, found
	}
	return nil, false
}

func (r *Replayer) followRedirects(entry *Entry) *Entry {
	current := entry
	for range maxRedirects {
		status := current.Response.Status
		if status < 300 || status >= 400 {
			return current
		}
		location := headerValue(current.Response.Headers, "location")
		if location == "" {
			return current
		}
		target, found := r.find(location)
		if !found {
			r.log.Debug("redirect target not recorded", zap.String("location", location))
			return current
		}
		current = target
	}
	return current
}

// Middleware returns a Rod hijack handler serving recorded responses.
func (r *Replayer) Middleware() func(*rod.Hijack) {
	return func(ctx *rod.Hijack) {
		reqURL := ctx.Request.URL().String()

		entry, found := r.Lookup(reqURL)
		if !found {
			r.log.Debug("no recording", zap.String("url", reqURL), zap.Bool("passthrough", r.passthrough))
			if r.passthrough {
				_ = ctx.LoadResponse(http.DefaultClient, true)
				return
			}
			payload := ctx.Response.Payload()
			payload.ResponseCode = http.StatusNotFound
			payload.ResponseHeaders = []*proto.FetchHeaderEntry{{Name: "Content-Type", Value: "application/json"}}
			payload.Body = []byte(`{"error": "no recording found for URL"}`)
			return
		}

		r.log.Debug("replaying", zap.String("url", reqURL), zap.Int("status", entry.Response.Status))

		payload := ctx.Response.Payload()
		payload.ResponseCode = entry.Response.Status
		payload.ResponseHeaders = responseHeaders(entry.Response)
		payload.Body = decodeBody(entry.Response.Content)
	}
}

// Stats reports the index sizes.
func (r *Replayer) Stats() map[string]int {
	return map[string]int{
		"exact_matches": len(r.exact),
		"path_matches":  len(r.byPath),
	}
}

func decodeBody(c Content) []byte {
	if c.Encoding == "base64" {
		if body, err := base64.StdEncoding.DecodeString(c.Text); err == nil {
			return body
		}
	}
	return []byte(c.Text)
}

// responseHeaders drops headers that no longer describe the replayed body
// and adds a content type from the recorded MIME type when missing.
func responseHeaders(resp Response) []*proto.FetchHeaderEntry {
	var out []*proto.FetchHeaderEntry
	hasType := false
	for _, h := range resp.Headers {
		switch strings.ToLower(h.Name) {
		case "content-encoding", "content-length", "location":
			continue
		case "content-type":
			hasType = true
		}
		out = append(out, &proto.FetchHeaderEntry{Name: h.Name, Value: h.Value})
	}
	if !hasType && resp.Content.MimeType != "" {
		out = append(out, &proto.FetchHeaderEntry{Name: "Content-Type", Value: resp.Content.MimeType})
	}
	return out
}

func headerValue(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
