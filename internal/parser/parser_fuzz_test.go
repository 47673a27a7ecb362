package parser

import (
	"strings"
	"testing"
)

func FuzzDelimitedParserParse(f *testing.F) {
	f.Add("2024-01-01 10:00:01;ERROR;disk fail")
	f.Add("2024-01-01 10:00:01;INFO;a;b;c")
	f.Add("garbage-line")
	f.Add(";;")

	p := NewDelimitedParser()
	f.Fuzz(func(t *testing.T, s string) {
		rec, err := p.Parse(s)
		if err != nil {
			return
		}
		if !rec.Severity.Valid() {
			t.Fatalf("accepted invalid severity %q", rec.Severity)
		}
		if !strings.HasSuffix(s, rec.Message) {
			t.Fatalf("message %q is not the tail of %q", rec.Message, s)
		}
	})
}
