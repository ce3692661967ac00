package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Actions accepted by the endpoint.
const (
	ActionExists     = "exists"
	ActionUpsertNote = "upsert_note"
	ActionAddTrack   = "add_track"
)

// Request is the JSON command posted to the endpoint.
type Request struct {
	Action string         `json:"action"`
	User   string         `json:"user"`
	ID     FlexString     `json:"id,omitempty"`
	Record *RecordInput   `json:"record,omitempty"`
	Items  []IncomingItem `json:"items,omitempty"`
}

// RecordInput is the wire form of a Record. Emotions and Tags are kept raw so
// the dispatcher can reject values that are not arrays of strings.
type RecordInput struct {
	ID       FlexString      `json:"id"`
	When     FlexString      `json:"when,omitempty"`
	What     FlexString      `json:"what,omitempty"`
	Emotions json.RawMessage `json:"emotions,omitempty"`
	Tags     json.RawMessage `json:"tags,omitempty"`
}

// NewRecordInput converts a Record into its wire form.
func NewRecordInput(rec Record) (*RecordInput, error) {
	emotions, err := marshalList(rec.Emotions)
	if err != nil {
		return nil, fmt.Errorf("marshal emotions: %w", err)
	}
	tags, err := marshalList(rec.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return &RecordInput{
		ID:       FlexString(rec.ID),
		When:     FlexString(rec.Timestamp),
		What:     FlexString(rec.FreeText),
		Emotions: emotions,
		Tags:     tags,
	}, nil
}

func marshalList(list []string) (json.RawMessage, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

// FlexString decodes from a JSON string, number, boolean, or null. Message
// ids arrive as numbers from some callers. Objects and arrays are rejected.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*f = ""
		return nil
	case "true", "false":
		*f = FlexString(data)
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number: %w", err)
	}
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// Response is the uniform result envelope.
type Response struct {
	OK     bool   `json:"ok"`
	Exists *bool  `json:"exists,omitempty"`
	Added  *int   `json:"added,omitempty"`
	Error  string `json:"error,omitempty"`
	Stack  string `json:"stack,omitempty"`
}

// Succeeded returns {ok:true}.
func Succeeded() Response {
	return Response{OK: true}
}

// ExistsResult returns {ok:true, exists:found}.
func ExistsResult(found bool) Response {
	return Response{OK: true, Exists: &found}
}

// AddedResult returns {ok:true, added:n}.
func AddedResult(n int) Response {
	return Response{OK: true, Added: &n}
}

// Failed returns {ok:false, error:err.Error()}.
func Failed(err error) Response {
	return Response{OK: false, Error: err.Error()}
}
