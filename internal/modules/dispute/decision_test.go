package dispute

import (
	"testing"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestApplyDecisionGate(t *testing.T) {
	cases := []struct {
		name     string
		v        verdict
		want     string
		wantErr  bool
		wantAns  *bool
		wantExpl string
	}{
		{
			name: "low confidence overrides acceptance",
			v:    verdict{Decision: strp("accepted"), Confidence: 0.69, SuggestedAnswer: boolp(false)},
			want: "rejected",
		},
		{
			name:     "threshold is inclusive on the accept side",
			v:        verdict{Decision: strp("accepted"), Confidence: 0.7, SuggestedAnswer: boolp(false), UpdatedExplanation: "new"},
			want:     "accepted",
			wantAns:  boolp(false),
			wantExpl: "new",
		},
		{
			name: "high confidence rejection stays rejected",
			v:    verdict{Decision: strp("rejected"), Confidence: 0.95},
			want: "rejected",
		},
		{
			name: "missing confidence rejects",
			v:    verdict{Decision: strp("accepted"), SuggestedAnswer: boolp(true)},
			want: "rejected",
		},
		{
			name: "unknown decision normalizes to rejected",
			v:    verdict{Decision: strp("maybe"), Confidence: 0.9},
			want: "rejected",
		},
		{
			name:    "acceptance without suggested answer fails",
			v:       verdict{Decision: strp("accepted"), Confidence: 0.9},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := applyDecisionGate(tc.v, 0.7)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.Decision != tc.want {
				t.Fatalf("decision %q, want %q", out.Decision, tc.want)
			}
			if tc.wantAns == nil && out.SuggestedAnswer != nil {
				t.Fatal("rejected outcome carries a suggested answer")
			}
			if tc.wantAns != nil {
				if out.SuggestedAnswer == nil || *out.SuggestedAnswer != *tc.wantAns {
					t.Fatalf("suggested answer %v, want %v", out.SuggestedAnswer, *tc.wantAns)
				}
				if out.UpdatedExplanation != tc.wantExpl {
					t.Fatalf("explanation %q, want %q", out.UpdatedExplanation, tc.wantExpl)
				}
			}
		})
	}
}
