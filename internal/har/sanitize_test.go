package har

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := &Log{Entries: []Entry{{
		Request: Request{
			Method: "POST",
			URL:    "https://survey.example.com/joinnew/processjq.ashx?jqsign=abc123&submittype=1&openid=o-42",
			Headers: []Header{
				{Name: "Cookie", Value: "ASP.NET_SessionId=xyz"},
				{Name: "X-Auth-Token", Value: "t"},
				{Name: "Accept", Value: "text/html"},
			},
			Body: "submitdata=1%242&respondent_email=a%40b.c",
		},
		Response: Response{
			Status:  200,
			Headers: []Header{{Name: "Set-Cookie", Value: "sid=1"}},
			Content: Content{
				MimeType: "application/json",
				Text:     `{"token": "abc", "nested": {"session_id": 99}, "score": 10, "list": [1, 2]}`,
			},
		},
	}}}

	out := Sanitize(in)
	require.Len(t, out.Entries, 1)
	req, resp := out.Entries[0].Request, out.Entries[0].Response

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	assert.Equal(t, Redacted, u.Query().Get("jqsign"))
	assert.Equal(t, Redacted, u.Query().Get("openid"))
	assert.Equal(t, "1", u.Query().Get("submittype"))

	assert.Equal(t, Redacted, req.Headers[0].Value)
	assert.Equal(t, Redacted, req.Headers[1].Value)
	assert.Equal(t, "text/html", req.Headers[2].Value)

	form, err := url.ParseQuery(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "1$2", form.Get("submitdata"))
	assert.Equal(t, Redacted, form.Get("respondent_email"))

	assert.Equal(t, Redacted, resp.Headers[0].Value)
	assert.Equal(t, `{"token": "[REDACTED]", "nested": {"session_id": "[REDACTED]"}, "score": 10, "list": [1, 2]}`, resp.Content.Text)

	// The input is left untouched.
	assert.Equal(t, "ASP.NET_SessionId=xyz", in.Entries[0].Request.Headers[0].Value)
}

func TestSanitizeBody_LeavesMarkupAlone(t *testing.T) {
	html := `<input type="hidden" id="q5_1" value="3"><a href="?token=x">`
	assert.Equal(t, html, sanitizeBody(html))
	assert.Equal(t, "", sanitizeBody(""))
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"password", "JQSign", "openid", "X-Session-Id", "api_key", "apikey", "Mobile"} {
		assert.True(t, IsSensitiveKey(key), key)
	}
	for _, key := range []string{"q1", "submitdata", "starttime", "Accept"} {
		assert.False(t, IsSensitiveKey(key), key)
	}
}
