package application

import (
	"fmt"
	"testing"
)

func BenchmarkLinkService_CanonicalString(b *testing.B) {
	service := createTestLinkService()
	urls := generateBenchmarkURLs(1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = service.CanonicalString(urls[i%len(urls)])
			i++
		}
	})
}

func BenchmarkLinkService_Visit(b *testing.B) {
	service := createTestLinkService()
	urls := generateBenchmarkURLs(1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _, _ = service.Visit(urls[i%len(urls)])
			i++
		}
	})
}

func BenchmarkLinkService_InScope(b *testing.B) {
	service := createTestLinkService()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = service.InScope("http://example.com/docs", "https://www.example.com/docs/intro")
	}
}

func generateBenchmarkURLs(count int) []string {
	urls := make([]string, count)
	for i := 0; i < count; i++ {
		switch i % 4 {
		case 0:
			urls[i] = fmt.Sprintf("HTTP://Site%d.Example.com:80/a/../page%d", i, i)
		case 1:
			urls[i] = fmt.Sprintf("https://site%d.example.com/?z=%d&a=1&utm_source=x", i, i)
		case 2:
			urls[i] = fmt.Sprintf("http://тест%d.рф/index.html", i)
		default:
			urls[i] = fmt.Sprintf("http://example.com/%%7euser%d#frag", i)
		}
	}
	return urls
}
