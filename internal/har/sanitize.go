package har

import (
	"net/url"
	"regexp"
	"strings"
)

const Redacted = "[REDACTED]"

// sensitiveKey matches parameter, header and JSON field names whose values
// identify a respondent or authenticate a session.
var sensitiveKey = regexp.MustCompile(`(?i)(password|passwd|secret|token|session|sess_|auth|jwt|bearer|api_?key|credential|cookie|openid|unionid|nonce|jqsign|respondent|email|phone|mobile)`)

// sensitiveHeaders are always redacted, regardless of sensitiveKey.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"proxy-authorization": true,
	"x-csrf-token":        true,
	"x-xsrf-token":        true,
	"x-forwarded-for":     true,
	"x-real-ip":           true,
}

var (
	jsonStringField = regexp.MustCompile(`("([^"]*)")\s*:\s*"[^"]*"`)
	jsonScalarField = regexp.MustCompile(`("([^"]*)")\s*:\s*([^",{}\[\]\s][^,}\]]*)`)
)

// Sanitize returns a copy of log with respondent identifiers, tokens and
// cookies replaced by Redacted.
func Sanitize(log *Log) *Log {
	out := &Log{Entries: make([]Entry, len(log.Entries))}
	for i, e := range log.Entries {
		out.Entries[i] = Entry{
			Request: Request{
				Method:  e.Request.Method,
				URL:     sanitizeURL(e.Request.URL),
				Headers: sanitizeHeaders(e.Request.Headers),
				Body:    sanitizeBody(e.Request.Body),
			},
			Response: Response{
				Status:  e.Response.Status,
				Headers: sanitizeHeaders(e.Response.Headers),
				Content: Content{
					MimeType: e.Response.Content.MimeType,
					Text:     sanitizeBody(e.Response.Content.Text),
					Encoding: e.Response.Content.Encoding,
					Size:     e.Response.Content.Size,
				},
			},
		}
	}
	return out
}

// IsSensitiveKey reports whether values stored under key get redacted.
func IsSensitiveKey(key string) bool {
	return sensitiveKey.MatchString(key)
}

func sanitizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.RawQuery == "" {
		return raw
	}
	parsed.RawQuery = sanitizeValues(parsed.Query()).Encode()
	return parsed.String()
}

func sanitizeValues(values url.Values) url.Values {
	for key := range values {
		if IsSensitiveKey(key) {
			values.Set(key, Redacted)
		}
	}
	return values
}

func sanitizeHeaders(headers []Header) []Header {
	if headers == nil {
		return nil
	}
	out := make([]Header, len(headers))
	for i, h := range headers {
		out[i] = h
		if sensitiveHeaders[strings.ToLower(h.Name)] || IsSensitiveKey(h.Name) {
			out[i].Value = Redacted
		}
	}
	return out
}

func sanitizeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	switch {
	case trimmed == "":
		return body
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		return sanitizeJSON(body)
	case strings.Contains(body, "=") && !strings.ContainsAny(trimmed, "<\n"):
		values, err := url.ParseQuery(body)
		if err != nil {
			return body
		}
		return sanitizeValues(values).Encode()
	default:
		return body
	}
}

func sanitizeJSON(body string) string {
	redact := func(re *regexp.Regexp) func(string) string {
		return func(match string) string {
			sub := re.FindStringSubmatch(match)
			if !IsSensitiveKey(sub[2]) {
				return match
			}
			return sub[1] + `: "` + Redacted + `"`
		}
	}
	body = jsonStringField.ReplaceAllStringFunc(body, redact(jsonStringField))
	return jsonScalarField.ReplaceAllStringFunc(body, redact(jsonScalarField))
}
