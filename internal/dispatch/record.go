package dispatch

import (
	"bytes"
	"encoding/json"

	"github.com/mesh-intelligence/playnotes/pkg/types"
)

// recordFromInput validates the wire record of an upsert. Emotions and tags
// must be arrays of strings when present; null or absent means empty.
func recordFromInput(in *types.RecordInput) (types.Record, error) {
	if in == nil || in.ID == "" {
		return types.Record{}, types.Validationf("record.id required")
	}
	emotions, err := stringList("record.emotions", in.Emotions)
	if err != nil {
		return types.Record{}, err
	}
	tags, err := stringList("record.tags", in.Tags)
	if err != nil {
		return types.Record{}, err
	}
	return types.Record{
		ID:        string(in.ID),
		Timestamp: string(in.When),
		FreeText:  string(in.What),
		Emotions:  emotions,
		Tags:      tags,
	}, nil
}

func stringList(field string, raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		return nil, types.Validationf("%s must be an array of strings", field)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, types.Validationf("%s must be an array of strings", field)
	}
	return list, nil
}
