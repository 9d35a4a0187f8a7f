package digo_test

import (
	"context"
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/mock"
)

func BenchmarkBinding(b *testing.B) {
	b.Run("TransientBinding", func(b *testing.B) {
		ctx := digo.NewContainerContext(context.Background())
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			digo.Reset()
			_ = digo.BindTransient[mock.Database](&mock.MockDB{}, ctx)
		}
	})

	b.Run("SingletonBinding", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			digo.Reset()
			_ = digo.BindSingleton[mock.Database](&mock.MockDB{})
		}
	})
}

func BenchmarkResolution(b *testing.B) {
	b.Run("Singleton", func(b *testing.B) {
		digo.Reset()
		_ = digo.BindSingleton[mock.Database](&mock.MockDB{})
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = digo.Resolve[mock.Database]()
		}
	})

	b.Run("Request", func(b *testing.B) {
		digo.Reset()
		_ = digo.BindRequest[mock.Database](&mock.MockDB{}, digo.NewRequestContext(context.Background()))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = digo.Resolve[mock.Database]()
		}
	})

	b.Run("Optional", func(b *testing.B) {
		digo.Reset()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _, _ = digo.ResolveOptional[mock.Cache]()
		}
	})

	b.Run("AllPlugins", func(b *testing.B) {
		digo.Reset()
		for _, id := range []string{"a", "b", "c", "d"} {
			_ = digo.BindSingleton[mock.Plugin](&mock.NamedPlugin{ID: id})
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = digo.ResolveAll[mock.Plugin]()
		}
	})
}

func BenchmarkConcurrentResolution(b *testing.B) {
	digo.Reset()
	_ = digo.BindSingleton[mock.Service](&mock.SingletonTestService{})
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = digo.Resolve[mock.Service]()
		}
	})
}

func BenchmarkValidate(b *testing.B) {
	digo.Reset()
	ctx := digo.NewContainerContext(context.Background())
	_ = digo.BindSingleton[mock.Logger](&mock.MockLogger{})
	_ = digo.BindTransient[mock.Database](&mock.MockDB{}, ctx)
	_ = digo.BindTransient[mock.Cache](&mock.MockCache{}, ctx)
	_ = digo.BindSingleton[*mock.PluginHost](&mock.PluginHost{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := digo.Validate(); err != nil {
			b.Fatal(err)
		}
	}
}
