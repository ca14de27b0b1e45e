package model

import "testing"

func TestNote_Render(t *testing.T) {
	type test struct {
		note Note
		want string
	}
	tests := map[string]test{
		"content only": {
			note: Note{Content: "  hello  "},
			want: "hello",
		},
		"with tags": {
			note: Note{Content: "hello", Tags: []string{"daily", "#weather"}},
			want: "hello\n#daily #weather",
		},
		"blank tags are dropped": {
			note: Note{Content: "hello", Tags: []string{" ", "#"}},
			want: "hello",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.note.Render(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
