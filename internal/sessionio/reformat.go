package sessionio

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// reformatColumns lists the raw JSON fields in export order, dotted paths
// included. The rename map strips the prefixes the downstream analysis does
// not expect.
var reformatColumns = []string{
	"block.name",
	"block.repetition",
	"block.trial",
	"blockNumber",
	"cameraLayout",
	"coherence",
	"coherences.combined",
	"coherences.left",
	"coherences.right",
	"cycle",
	"data.confidenceEnd",
	"data.confidenceRT",
	"data.confidenceStart",
	"data.correct",
	"data.referenceEnd",
	"data.referenceRT",
	"data.referenceSelection",
	"data.referenceStart",
	"data.trialEnd",
	"data.trialStart",
	"referenceDuration",
	"showFeedback",
	"startTime",
	"trialNumber",
}

var renamedColumns = map[string]string{
	"block.name":              "name",
	"block.repetition":        "repetition",
	"block.trial":             "trial",
	"coherences.combined":     "combinedCoherences",
	"coherences.left":         "leftCoherences",
	"coherences.right":        "rightCoherences",
	"data.confidenceEnd":      "confidenceEnd",
	"data.confidenceRT":       "confidenceRT",
	"data.confidenceStart":    "confidenceStart",
	"data.correct":            "correct",
	"data.referenceEnd":       "referenceEnd",
	"data.referenceRT":        "referenceRT",
	"data.referenceSelection": "referenceSelection",
	"data.referenceStart":     "referenceStart",
	"data.trialEnd":           "trialEnd",
	"data.trialStart":         "trialStart",
}

// Reformat normalizes one raw JSON trial dump into CSV records, header first.
// The dump nests all trials under a single randomly generated top-level key;
// trials are keyed by their zero-based index as strings. Trials are emitted
// in index order until the first missing index.
func Reformat(data []byte) ([][]string, error) {
	var root map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse trial dump: %w", err)
	}
	if len(root) == 0 {
		return nil, fmt.Errorf("trial dump has no top-level entry")
	}

	// The top-level key is a generated identifier; take the first in sorted
	// order so the result is deterministic when more than one is present.
	keys := make([]string, 0, len(root))
	for k := range root {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	dump := root[keys[0]]

	header := make([]string, len(reformatColumns))
	for i, col := range reformatColumns {
		if renamed, ok := renamedColumns[col]; ok {
			header[i] = renamed
		} else {
			header[i] = col
		}
	}

	out := [][]string{header}
	for i := 0; ; i++ {
		raw, ok := dump[strconv.Itoa(i)]
		if !ok {
			break
		}
		var trial map[string]interface{}
		if err := json.Unmarshal(raw, &trial); err != nil {
			return nil, fmt.Errorf("failed to parse trial %d: %w", i, err)
		}

		flat := make(map[string]string)
		flatten("", trial, flat)

		row := make([]string, len(reformatColumns))
		for j, col := range reformatColumns {
			row[j] = flat[col]
		}
		out = append(out, row)
	}

	if len(out) == 1 {
		return nil, fmt.Errorf("trial dump has no indexed trials")
	}
	return out, nil
}

// flatten joins nested object keys with "." to match the column layout of
// the original export.
func flatten(prefix string, v interface{}, out map[string]string) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, inner, out)
		}
	case string:
		out[prefix] = val
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			out[prefix] = "True"
		} else {
			out[prefix] = "False"
		}
	case nil:
		out[prefix] = ""
	default:
		// Arrays (per-trial coherence lists) keep their JSON form in one cell.
		if b, err := json.Marshal(val); err == nil {
			out[prefix] = string(b)
		}
	}
}
