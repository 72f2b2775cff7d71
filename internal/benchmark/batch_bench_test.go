package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/conveyor-go/conveyor/pkg/pipeline/batch"
)

func workerLabel(workers int) string {
	return fmt.Sprintf("workers-%d", workers)
}

// BenchmarkBatchThroughput measures end-to-end push/drain throughput for a
// single-stage batch at different pool sizes.
func BenchmarkBatchThroughput(b *testing.B) {
	workerCounts := []int{1, 4, 8}

	for _, workers := range workerCounts {
		b.Run(workerLabel(workers), func(b *testing.B) {
			noop := func(_ context.Context, data interface{}) (interface{}, error) {
				return data, nil
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				bt, err := batch.New(batch.StageConfig{Name: "noop", Workers: workers, Transform: noop})
				if err != nil {
					b.Fatalf("failed to create batch: %v", err)
				}
				if err := bt.Start(); err != nil {
					b.Fatalf("failed to start batch: %v", err)
				}
				for j := 0; j < 100; j++ {
					_ = bt.Push(j)
				}
				if _, err := bt.Results(); err != nil {
					b.Fatalf("failed to drain batch: %v", err)
				}
			}
		})
	}
}

// BenchmarkPush measures submission cost on a running batch.
func BenchmarkPush(b *testing.B) {
	noop := func(_ context.Context, data interface{}) (interface{}, error) {
		return data, nil
	}

	bt, err := batch.New(batch.StageConfig{Name: "noop", Workers: 4, Transform: noop})
	if err != nil {
		b.Fatalf("failed to create batch: %v", err)
	}
	if err := bt.Start(); err != nil {
		b.Fatalf("failed to start batch: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bt.Push(i)
	}
	b.StopTimer()

	if _, err := bt.Results(); err != nil {
		b.Fatalf("failed to drain batch: %v", err)
	}
}

// BenchmarkDeepPipeline measures an item's traversal cost across stage depth.
func BenchmarkDeepPipeline(b *testing.B) {
	depths := []int{1, 3, 5}

	for _, depth := range depths {
		b.Run(fmt.Sprintf("stages-%d", depth), func(b *testing.B) {
			stages := make([]batch.StageConfig, depth)
			for i := range stages {
				stages[i] = batch.StageConfig{
					Name:    fmt.Sprintf("pass-%d", i),
					Workers: 2,
					Transform: func(_ context.Context, data interface{}) (interface{}, error) {
						return data, nil
					},
				}
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				bt, err := batch.New(stages...)
				if err != nil {
					b.Fatalf("failed to create batch: %v", err)
				}
				if err := bt.Start(); err != nil {
					b.Fatalf("failed to start batch: %v", err)
				}
				for j := 0; j < 50; j++ {
					_ = bt.Push(j)
				}
				if _, err := bt.Results(); err != nil {
					b.Fatalf("failed to drain batch: %v", err)
				}
			}
		})
	}
}
