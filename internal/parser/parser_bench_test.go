package parser

import "testing"

func BenchmarkDelimitedParserParse(b *testing.B) {
	p := NewDelimitedParser()
	line := "2024-01-01 10:00:01;ERROR;Connection to db-primary failed after 3 retries"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(line); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNDJSONParserParse(b *testing.B) {
	p := NewNDJSONParser()
	line := `{"timestamp":"2024-01-01 10:00:01","severity":"ERROR","message":"Connection to db-primary failed after 3 retries"}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Parse(line); err != nil {
			b.Fatal(err)
		}
	}
}
