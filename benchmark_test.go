package scout

import (
	"testing"
)

// Benchmark scope construction.
func BenchmarkBuild_Singleton(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = NewScope("bench", func(r Builder) error {
			return Singleton(r, serviceNamed("value"))
		})
	}
}

// Benchmark object resolution.
func BenchmarkGet_Singleton_Cached(b *testing.B) {
	s, _ := NewScope("bench", func(r Builder) error {
		return Singleton(r, serviceNamed("value"))
	})
	a := s.Accessor()

	// Warm up cache
	_, _ = Get[*mockService](a)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Get[*mockService](a)
	}
}

func BenchmarkGet_Factory(b *testing.B) {
	s, _ := NewScope("bench", func(r Builder) error {
		return Factory(r, serviceNamed("value"))
	})
	a := s.Accessor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Get[*mockService](a)
	}
}

func BenchmarkGet_DeepAncestor(b *testing.B) {
	s, _ := NewScope("root", func(r Builder) error {
		return Singleton(r, serviceNamed("value"))
	})
	for i := 0; i < 10; i++ {
		parent := s
		s, _ = NewScope("level", func(r Builder) error {
			return r.DependsOn(parent)
		})
	}
	a := s.Accessor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Get[*mockService](a)
	}
}

func BenchmarkCollect(b *testing.B) {
	s, _ := NewScope("bench", func(r Builder) error {
		for i := 0; i < 10; i++ {
			if err := Element(r, func(Accessor) (int, error) { return i, nil }); err != nil {
				return err
			}
		}
		return nil
	})
	a := s.Accessor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Collect[int](a, true)
	}
}

func BenchmarkGet_WithInterceptor(b *testing.B) {
	cfg := NewConfig()
	_ = cfg.Interceptors().Register(&FuncInterceptor{})
	s, _ := NewScope("bench", func(r Builder) error {
		return Singleton(r, serviceNamed("value"))
	}, WithConfig(cfg))
	a := s.Accessor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Get[*mockService](a)
	}
}
