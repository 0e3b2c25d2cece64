package render

import "testing"

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`Ann & "Bob" <Smith>`); got != "Ann &amp; &#34;Bob&#34; &lt;Smith&gt;" {
		t.Errorf("EscapeXML = %q", got)
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		width float64
		want  string
	}{
		{"Ann", 160, "Ann"},
		{"Maximilian Alexander von Habsburg-Lothringen", 160, "Maximilian Alexand.."},
		{"Zoë Müller-Lüdenscheidt", 60, "Zoë M.."},
		{"abcdef", 1, "a.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.width, 12); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}
