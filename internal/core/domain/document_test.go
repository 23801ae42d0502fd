package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDatesNullRoundTrip(t *testing.T) {
	issued := "2025-09-29"
	in := Dates{Issued: &issued}

	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"deadline":null`) {
		t.Fatalf("expected explicit null deadline, got %s", raw)
	}
	if !strings.Contains(string(raw), `"review_date":null`) {
		t.Fatalf("expected explicit null review_date, got %s", raw)
	}

	var out Dates
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Deadline != nil || out.ReviewDate != nil {
		t.Fatalf("expected nulls back as nil, got %#v", out)
	}
	if out.Issued == nil || *out.Issued != issued {
		t.Fatalf("expected issued preserved, got %#v", out.Issued)
	}
}

func TestSummaryOmitsAbsentKeys(t *testing.T) {
	raw, err := json.Marshal(Summary{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "{}" {
		t.Fatalf("expected empty object, got %s", raw)
	}
}

func TestFailureReasonCoversTaxonomy(t *testing.T) {
	cases := map[error]string{
		ErrUnsupportedFileKind: "UnsupportedFileKind",
		ErrNoExtractableText:   "NoExtractableText",
		ErrAnalysisFailed:      "AnalysisFailed",
		ErrExtractionTimeout:   "ExtractionTimeout",
		ErrModelTimeout:        "ModelTimeout",
		ErrStorage:             "StorageError",
	}
	for kind, want := range cases {
		wrapped := WrapError(kind, "stage", kind)
		if got := FailureReason(wrapped); got != want {
			t.Fatalf("FailureReason(%v) = %q, want %q", kind, got, want)
		}
	}
}
