package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"healthpredict-web/models"
)

// maxBodyBytes bounds the statistics payload read from the backend.
const maxBodyBytes = 4 << 20

// fields is a decoded JSON object whose members are decoded on demand.
type fields map[string]json.RawMessage

// readObject decodes r as a JSON object.
func readObject(op string, r io.Reader) (fields, error) {
	var obj fields
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&obj); err != nil {
		return nil, &models.MalformedResponseError{Op: op, Err: err}
	}
	if obj == nil {
		return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("body is null")}
	}
	return obj, nil
}

// missing returns the names that are absent or null in obj, sorted.
func (f fields) missing(names ...string) []string {
	var out []string
	for _, name := range names {
		raw, ok := f[name]
		if !ok || isNull(raw) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// DecodeAdminSnapshot validates and decodes an admin statistics body.
func DecodeAdminSnapshot(r io.Reader) (*models.AdminSnapshot, error) {
	const op = "admin stats"

	obj, err := readObject(op, r)
	if err != nil {
		return nil, err
	}
	if miss := obj.missing("total_users", "prediction_breakdown", "recent_predictions"); len(miss) > 0 {
		return nil, &models.MalformedResponseError{Op: op, Missing: miss}
	}

	var snap models.AdminSnapshot
	if err := json.Unmarshal(obj["total_users"], &snap.TotalUsers); err != nil {
		return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("total_users: %w", err)}
	}
	snap.PredictionBreakdown, err = decodeBreakdown(op, obj["prediction_breakdown"])
	if err != nil {
		return nil, err
	}
	snap.RecentPredictions, err = decodeRecords(op, "recent_predictions", obj["recent_predictions"], true)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// DecodeUserSnapshot validates and decodes a user statistics body.
func DecodeUserSnapshot(r io.Reader) (*models.UserSnapshot, error) {
	const op = "user stats"

	obj, err := readObject(op, r)
	if err != nil {
		return nil, err
	}
	if miss := obj.missing("wellness_score", "predictions"); len(miss) > 0 {
		return nil, &models.MalformedResponseError{Op: op, Missing: miss}
	}

	var snap models.UserSnapshot
	snap.WellnessScore, err = decodeScore(obj["wellness_score"])
	if err != nil {
		return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("wellness_score: %w", err)}
	}
	snap.Predictions, err = decodeRecords(op, "predictions", obj["predictions"], false)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// decodeBreakdown decodes the per-type counts. Every count must be a
// non-null integer.
func decodeBreakdown(op string, raw json.RawMessage) (map[string]int, error) {
	var counts fields
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("prediction_breakdown: %w", err)}
	}

	var nulls []string
	for name, v := range counts {
		if isNull(v) {
			nulls = append(nulls, "prediction_breakdown."+name)
		}
	}
	if len(nulls) > 0 {
		sort.Strings(nulls)
		return nil, &models.MalformedResponseError{Op: op, Missing: nulls}
	}

	out := make(map[string]int, len(counts))
	for name, v := range counts {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("prediction_breakdown.%s: %w", name, err)}
		}
		out[name] = n
	}
	return out, nil
}

// decodeScore accepts a JSON string or number and returns its display text.
func decodeScore(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("expected string or number")
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return n.String(), nil
}

// decodeRecords decodes an array of prediction records, requiring type,
// outcome and timestamp on each and fullname when withOwner is set.
func decodeRecords(op, name string, raw json.RawMessage, withOwner bool) ([]models.PredictionRecord, error) {
	var items []fields
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("%s: %w", name, err)}
	}

	required := []string{"type", "outcome", "timestamp"}
	if withOwner {
		required = append(required, "fullname")
	}

	records := make([]models.PredictionRecord, 0, len(items))
	var err error
	for i, item := range items {
		if item == nil {
			return nil, &models.MalformedResponseError{Op: op, Missing: []string{fmt.Sprintf("%s[%d]", name, i)}}
		}
		if miss := item.missing(required...); len(miss) > 0 {
			for j := range miss {
				miss[j] = fmt.Sprintf("%s[%d].%s", name, i, miss[j])
			}
			return nil, &models.MalformedResponseError{Op: op, Missing: miss}
		}

		var rec models.PredictionRecord
		if err := json.Unmarshal(item["type"], &rec.Type); err != nil {
			return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("%s[%d].type: %w", name, i, err)}
		}
		if err := json.Unmarshal(item["timestamp"], &rec.Timestamp); err != nil {
			return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("%s[%d].timestamp: %w", name, i, err)}
		}
		// Outcomes are free-form labels; some models report a bare number.
		if rec.Outcome, err = decodeScore(item["outcome"]); err != nil {
			return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("%s[%d].outcome: %w", name, i, err)}
		}
		if withOwner {
			if err := json.Unmarshal(item["fullname"], &rec.Fullname); err != nil {
				return nil, &models.MalformedResponseError{Op: op, Err: fmt.Errorf("%s[%d].fullname: %w", name, i, err)}
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
