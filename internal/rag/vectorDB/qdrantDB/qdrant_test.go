package qdrantDB

import "testing"

func TestPointID_Deterministic(t *testing.T) {
	a := pointID("refund-policy-chunk-0")
	b := pointID("refund-policy-chunk-0")
	if a != b {
		t.Errorf("same record id produced different point ids: %s vs %s", a, b)
	}
}

func TestPointID_DistinctRecords(t *testing.T) {
	seen := map[string]string{}
	ids := []string{
		"refund-policy-chunk-0",
		"refund-policy-chunk-1",
		"warranty-chunk-0",
	}
	for _, recordID := range ids {
		p := pointID(recordID)
		if prev, dup := seen[p]; dup {
			t.Errorf("point id collision between %s and %s", prev, recordID)
		}
		seen[p] = recordID
	}
}
