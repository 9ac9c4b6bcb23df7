package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", convert.ErrUnsupportedFormat), "unsupported"},
		{convert.ErrConverterUnavailable, "unavailable"},
		{fmt.Errorf("%w: bad zip", convert.ErrConversionFailed), "failed"},
		{errors.New("disk full"), "other"},
	}
	for _, tt := range tests {
		if got := FailureKind(tt.err); got != tt.want {
			t.Errorf("FailureKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordDocument(t *testing.T) {
	before := testutil.ToFloat64(documentsTotal.WithLabelValues("completed"))
	RecordDocument("completed")
	RecordDocument("completed")
	if got := testutil.ToFloat64(documentsTotal.WithLabelValues("completed")); got != before+2 {
		t.Errorf("expected %v, got %v", before+2, got)
	}
}

func TestRecordClauses(t *testing.T) {
	clauses := testutil.ToFloat64(clausesTotal)
	refs := testutil.ToFloat64(crossReferencesTotal)
	RecordClauses(5, 2)
	if got := testutil.ToFloat64(clausesTotal); got != clauses+5 {
		t.Errorf("clauses: expected %v, got %v", clauses+5, got)
	}
	if got := testutil.ToFloat64(crossReferencesTotal); got != refs+2 {
		t.Errorf("refs: expected %v, got %v", refs+2, got)
	}
}
