package sanitize

import "testing"

func TestStripHTML(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"<b>bold</b> text", "bold text"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", "alert(1)"},
		{"  a &amp; b  ", "a & b"},
	}
	for _, tc := range cases {
		if got := StripHTML(tc.in); got != tc.want {
			t.Fatalf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextKeepsLineBreaks(t *testing.T) {
	got := Text("line one\r\nline <i>two</i>\rthree")
	if want := "line one\nline two\nthree"; got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestLineCollapsesWhitespace(t *testing.T) {
	got := Line("  Jane \n\t <em>Doe</em> ")
	if want := "Jane Doe"; got != want {
		t.Fatalf("Line = %q, want %q", got, want)
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil")
	}
	s := "<p>x</p>"
	if got := TextPtr(&s); got == nil || *got != "x" {
		t.Fatalf("TextPtr = %v", got)
	}
}
