package webhook

import "testing"

func TestWrapForSlack(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		payload any
		want    any
	}{
		{
			name:    "slack url with string payload wraps as text",
			url:     "https://hooks.slack.com/services/T000/B000/xxx",
			payload: "hello",
			want:    map[string]any{"text": "hello"},
		},
		{
			name:    "non-slack url with string payload left untouched",
			url:     "https://example.com/hook",
			payload: "hello",
			want:    "hello",
		},
		{
			name:    "slack url with map payload left untouched",
			url:     "https://hooks.slack.com/services/T000/B000/xxx",
			payload: map[string]any{"text": "already structured"},
			want:    map[string]any{"text": "already structured"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapForSlack(tt.url, tt.payload)

			gotMap, gotIsMap := got.(map[string]any)
			wantMap, wantIsMap := tt.want.(map[string]any)

			if gotIsMap != wantIsMap {
				t.Fatalf("WrapForSlack() = %#v, want %#v", got, tt.want)
			}

			if gotIsMap {
				if gotMap["text"] != wantMap["text"] {
					t.Fatalf("WrapForSlack() = %#v, want %#v", got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Fatalf("WrapForSlack() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
