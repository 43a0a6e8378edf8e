package carrier

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"strings"

	"github.com/tidwall/gjson"
)

// Expect selects how a response body is interpreted.
type Expect int

const (
	// ExpectJSON treats the body as structured data.
	ExpectJSON Expect = iota

	// ExpectBinary expects an artifact of a given media type.
	ExpectBinary
)

// String returns the name of the expectation.
func (e Expect) String() string {
	if e == ExpectBinary {
		return "binary"
	}
	return "json"
}

// MarkerFields are the top-level keys that signal an in-band rejection in a
// 2xx body.
var MarkerFields = []string{"error", "errors", "context", "message"}

// maxReasonLength bounds LogicalFailure.Reason.
const maxReasonLength = 512

// Classify turns a raw transport result into exactly one Result.
//
// On the binary path a 2xx is BinarySuccess only when the declared media
// type equals artifactType (case-insensitive, parameters ignored). Any other
// 2xx on that path is a LogicalFailure. Classification is a pure function
// of raw, expect and artifactType.
func Classify(raw RawResponse, expect Expect, artifactType string) Result {
	if raw.Err != nil {
		return &TransportFailure{Err: raw.Err}
	}

	ok := raw.StatusCode >= 200 && raw.StatusCode < 300

	if expect == ExpectBinary && ok && mediaTypeMatches(raw.ContentType, artifactType) {
		return &BinarySuccess{
			StatusCode:  raw.StatusCode,
			ContentType: raw.ContentType,
			Data:        raw.Body,
		}
	}

	body, parsed := parseJSON(raw.Body)

	if !ok {
		return &HTTPFailure{
			StatusCode:  raw.StatusCode,
			ContentType: raw.ContentType,
			Body:        body,
			Raw:         raw.Body,
		}
	}

	if parsed {
		if marker, reason, found := findMarker(raw.Body); found {
			return &LogicalFailure{
				StatusCode:  raw.StatusCode,
				ContentType: raw.ContentType,
				Marker:      marker,
				Reason:      reason,
				Body:        body,
				Raw:         raw.Body,
			}
		}
	}

	if expect == ExpectBinary {
		return &LogicalFailure{
			StatusCode:  raw.StatusCode,
			ContentType: raw.ContentType,
			Reason:      "unexpected content type " + quoteOrEmpty(raw.ContentType) + ", want " + artifactType,
			Body:        body,
			Raw:         raw.Body,
		}
	}

	return &JSONSuccess{
		StatusCode: raw.StatusCode,
		Body:       body,
		Raw:        raw.Body,
	}
}

// parseJSON decodes data keeping numbers as json.Number. It reports false
// for empty, malformed or trailing-garbage input.
func parseJSON(data []byte) (any, bool) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// findMarker looks for a set marker field at the top level of a JSON object.
func findMarker(data []byte) (marker, reason string, found bool) {
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return "", "", false
	}

	for _, name := range MarkerFields {
		v := doc.Get(name)
		if isSet(v) {
			return name, describe(v), true
		}
	}
	return "", "", false
}

// isSet reports whether a marker value is truthy. Any array or object
// counts, empty ones included. Only null, false, "" and 0 do not.
func isSet(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return true
	}
}

// describe extracts a short reason from a marker value: the string itself,
// a nested "message", or the first element of an array.
func describe(v gjson.Result) string {
	var s string
	switch {
	case v.Type == gjson.String:
		s = v.Str
	case v.IsArray():
		if items := v.Array(); len(items) > 0 {
			return describe(items[0])
		}
		s = v.Raw
	case v.IsObject():
		if m := v.Get("message"); m.Type == gjson.String && m.Str != "" {
			s = m.Str
		} else {
			s = v.Raw
		}
	default:
		s = v.Raw
	}

	if len(s) > maxReasonLength {
		s = s[:maxReasonLength] + "..."
	}
	return s
}

// mediaTypeMatches compares the media types of two Content-Type values.
func mediaTypeMatches(contentType, want string) bool {
	if contentType == "" || want == "" {
		return false
	}
	got, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	expected, _, err := mime.ParseMediaType(want)
	if err != nil {
		expected = strings.ToLower(strings.TrimSpace(want))
	}
	return got == expected
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "(none)"
	}
	return `"` + s + `"`
}
