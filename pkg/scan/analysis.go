package scan

import (
	"LabelWise-Backend/domain"
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSONObject pulls the substring between the first '{' and the last '}'
// so that models wrapping their JSON in commentary or code fences still parse.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || start >= end {
		return "", domain.ErrMalformedLLMJSON
	}
	return raw[start : end+1], nil
}

// ParseAnalysis treats the raw model output as untrusted text: it extracts the
// JSON region defensively and then checks the parsed value structurally before
// any field is trusted. Findings must be two-key {ingredient, reason} objects;
// a collapsed single-string entry is rejected.
func ParseAnalysis(raw string) (*domain.Analysis, error) {
	jsonString, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonString), &top); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedLLMJSON, err)
	}

	analysis := &domain.Analysis{}
	buckets := []struct {
		key string
		dst *[]domain.IngredientFinding
	}{
		{"beneficial", &analysis.Beneficial},
		{"harmful", &analysis.Harmful},
		{"neutral", &analysis.Neutral},
	}

	for _, bucket := range buckets {
		rawList, ok := top[bucket.key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", domain.ErrInvalidAnalysis, bucket.key)
		}
		findings, err := parseFindings(rawList)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %s", domain.ErrInvalidAnalysis, bucket.key, err)
		}
		*bucket.dst = findings
	}

	rawSummary, ok := top["summary"]
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", domain.ErrInvalidAnalysis, "summary")
	}
	if err := json.Unmarshal(rawSummary, &analysis.Summary); err != nil {
		return nil, fmt.Errorf("%w: summary must be a string", domain.ErrInvalidAnalysis)
	}

	return analysis, nil
}

func parseFindings(raw json.RawMessage) ([]domain.IngredientFinding, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("must be an array of objects")
	}

	findings := make([]domain.IngredientFinding, 0, len(entries))
	for i, entry := range entries {
		rawIngredient, ok := entry["ingredient"]
		if !ok {
			return nil, fmt.Errorf("entry %d is missing the ingredient key", i)
		}
		rawReason, ok := entry["reason"]
		if !ok {
			return nil, fmt.Errorf("entry %d is missing the reason key", i)
		}

		var finding domain.IngredientFinding
		if err := json.Unmarshal(rawIngredient, &finding.Ingredient); err != nil {
			return nil, fmt.Errorf("entry %d: ingredient must be a string", i)
		}
		if err := json.Unmarshal(rawReason, &finding.Reason); err != nil {
			return nil, fmt.Errorf("entry %d: reason must be a string", i)
		}
		if finding.Ingredient == "" {
			return nil, fmt.Errorf("entry %d: ingredient must not be empty", i)
		}

		findings = append(findings, finding)
	}

	return findings, nil
}

// marshalFindings always yields a JSON array, never null, so the stored
// analysis round-trips to the same shape the schema gate accepted.
func marshalFindings(findings []domain.IngredientFinding) string {
	if findings == nil {
		findings = []domain.IngredientFinding{}
	}
	data, _ := json.Marshal(findings)
	return string(data)
}

func unmarshalFindings(raw string) []domain.IngredientFinding {
	if raw == "" {
		return []domain.IngredientFinding{}
	}
	var findings []domain.IngredientFinding
	if err := json.Unmarshal([]byte(raw), &findings); err != nil {
		return []domain.IngredientFinding{}
	}
	if findings == nil {
		findings = []domain.IngredientFinding{}
	}
	return findings
}
