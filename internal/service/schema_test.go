package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyValidatorRelatedness(t *testing.T) {
	v, err := NewReplyValidator()
	require.NoError(t, err)

	assert.NoError(t, v.CheckRelatedness(map[string]any{
		"score":   0.82,
		"label":   "related",
		"explain": []any{"PO number matches"},
	}))

	assert.Error(t, v.CheckRelatedness(map[string]any{"score": 1.4, "label": "related", "explain": []any{}}))
	assert.Error(t, v.CheckRelatedness(map[string]any{"score": 0.5, "label": "maybe", "explain": []any{}}))
	assert.Error(t, v.CheckRelatedness(map[string]any{"score": 0.5}))
	assert.Error(t, v.CheckRelatedness([]any{}))
}

func TestReplyValidatorFinding(t *testing.T) {
	v, err := NewReplyValidator()
	require.NoError(t, err)

	good := map[string]any{
		"code":       "UNIT_RATE_EXCEEDS",
		"type":       "monetary",
		"severity":   "high",
		"confidence": 0.9,
		"expected":   "$120/hr",
		"actual":     135.0,
		"a_excerpt":  "Senior engineer 10h @ $135",
		"b_excerpt":  "Rate: $120 per hour",
	}
	assert.NoError(t, v.CheckFinding(good))

	bad := map[string]any{"code": "MADE_UP", "type": "monetary", "severity": "high"}
	assert.Error(t, v.CheckFinding(bad))

	long := map[string]any{"code": "QTY_EXCEEDS", "type": "monetary", "severity": "low", "a_excerpt": strings.Repeat("x", 161)}
	assert.Error(t, v.CheckFinding(long))
}
