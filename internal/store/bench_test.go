package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mkaraca/taskpad/internal/types"
)

const benchTasks = 1000

func newBenchStore(b *testing.B) *Store {
	b.Helper()
	s, err := Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatalf("Open: %v", err)
	}
	b.Cleanup(func() { s.Close() })

	ctx := context.Background()
	if err := s.InitSchema(ctx); err != nil {
		b.Fatalf("InitSchema: %v", err)
	}

	listID, err := s.CreateList(ctx, "bench")
	if err != nil {
		b.Fatalf("CreateList: %v", err)
	}
	for i := 0; i < benchTasks; i++ {
		task := &types.Task{
			Name:   fmt.Sprintf("task %d", i),
			ListID: listID,
		}
		if _, err := s.CreateTask(ctx, task); err != nil {
			b.Fatalf("CreateTask: %v", err)
		}
	}
	return s
}

func BenchmarkGetTask(b *testing.B) {
	s := newBenchStore(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.GetTask(ctx, int64(i%benchTasks)+1); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkListTasks(b *testing.B) {
	s := newBenchStore(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.ListTasks(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearchTasks(b *testing.B) {
	s := newBenchStore(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.SearchTasks(ctx, "task 5"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetTask_Parallel(b *testing.B) {
	s := newBenchStore(b)
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var i int64
		for pb.Next() {
			i++
			if _, err := s.GetTask(ctx, i%benchTasks+1); err != nil {
				b.Fatal(err)
			}
		}
	})
}
