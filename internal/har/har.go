// Package har loads, sanitizes and replays HAR (HTTP Archive) recordings of
// survey pages so browser runs can be reproduced offline.
package har

import (
	"encoding/json"
	"fmt"
	"os"
)

// Log is the simplified recording format used by this repository.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Entry is a single request/response pair.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

type Request struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Headers []Header `json:"headers,omitempty"`
	Body    string   `json:"body,omitempty"`
}

type Response struct {
	Status  int      `json:"status"`
	Headers []Header `json:"headers,omitempty"`
	Content Content  `json:"content"`
}

type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Content is a response body, plain or base64 encoded.
type Content struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Encoding string `json:"encoding,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// chromeLog is the HAR 1.2 layout exported by Chrome DevTools: entries
// wrapped in a "log" object and request bodies under postData.
type chromeLog struct {
	Log struct {
		Entries []struct {
			Request struct {
				Method   string   `json:"method"`
				URL      string   `json:"url"`
				Headers  []Header `json:"headers,omitempty"`
				PostData *struct {
					Text string `json:"text"`
				} `json:"postData,omitempty"`
			} `json:"request"`
			Response Response `json:"response"`
		} `json:"entries"`
	} `json:"log"`
}

// Load reads a recording, accepting both the DevTools export and the
// simplified format.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read HAR file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a recording from JSON.
func Parse(data []byte) (*Log, error) {
	var chrome chromeLog
	if err := json.Unmarshal(data, &chrome); err == nil && len(chrome.Log.Entries) > 0 {
		out := &Log{Entries: make([]Entry, len(chrome.Log.Entries))}
		for i, ce := range chrome.Log.Entries {
			req := Request{Method: ce.Request.Method, URL: ce.Request.URL, Headers: ce.Request.Headers}
			if ce.Request.PostData != nil {
				req.Body = ce.Request.PostData.Text
			}
			out.Entries[i] = Entry{Request: req, Response: ce.Response}
		}
		return out, nil
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse HAR JSON: %w", err)
	}
	return &log, nil
}

// Save writes a recording in the simplified format.
func Save(path string, log *Log) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal HAR: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write HAR file: %w", err)
	}
	return nil
}
