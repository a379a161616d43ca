package condexpr

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    *Expr
	}{
		{
			name: "single quoted equals",
			raw:  `{{data.status}} equals 'open'`,
			want: &Expr{Path: "data.status", Op: OpEquals, Literal: "open"},
		},
		{
			name: "double quoted contains",
			raw:  `{{data.subject}} contains "invoice"`,
			want: &Expr{Path: "data.subject", Op: OpContains, Literal: "invoice"},
		},
		{
			name: "not equals",
			raw:  `{{data.status}} not equals 'closed'`,
			want: &Expr{Path: "data.status", Op: OpNotEquals, Literal: "closed"},
		},
		{
			name: "not contains with empty literal",
			raw:  `{{data.body}} not contains ''`,
			want: &Expr{Path: "data.body", Op: OpNotContains, Literal: ""},
		},
		{
			name:    "missing braces",
			raw:     `data.status equals 'open'`,
			wantErr: true,
		},
		{
			name:    "unknown operator",
			raw:     `{{data.status}} resembles 'open'`,
			wantErr: true,
		},
		{
			name:    "unterminated literal",
			raw:     `{{data.status}} equals 'open`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %+v, want error", tt.raw, got)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.raw, err)
			}

			if *got != *tt.want {
				t.Fatalf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestExprEval(t *testing.T) {
	data := map[string]any{
		"data": map[string]any{
			"status": "Open",
			"count":  3,
		},
	}

	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"equals case insensitive", Expr{Path: "data.status", Op: OpEquals, Literal: "open"}, true},
		{"equals mismatch", Expr{Path: "data.status", Op: OpEquals, Literal: "closed"}, false},
		{"not equals", Expr{Path: "data.status", Op: OpNotEquals, Literal: "closed"}, true},
		{"contains", Expr{Path: "data.status", Op: OpContains, Literal: "pe"}, true},
		{"not contains", Expr{Path: "data.status", Op: OpNotContains, Literal: "zzz"}, true},
		{"numeric stringified", Expr{Path: "data.count", Op: OpEquals, Literal: "3"}, true},
		{"missing path yields empty string", Expr{Path: "data.missing", Op: OpEquals, Literal: ""}, true},
		{"unknown op is false", Expr{Path: "data.status", Op: "bogus", Literal: "open"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Eval(data); got != tt.want {
				t.Fatalf("Eval() = %v, want %v", got, tt.want)
			}
		})
	}
}
