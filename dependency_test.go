package digo_test

import (
	"reflect"
	"testing"

	"github.com/centraunit/digo"
	"github.com/centraunit/digo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDependency(t *testing.T) {
	t.Run("ConstructorRoundTrip", func(t *testing.T) {
		types := []digo.Type{
			digo.TypeOf[mock.Logger](),
			digo.TypeOf[mock.Plugin](),
			digo.TypeOf[*mock.MockDB](),
			digo.TypeOf[string](),
			{},
		}
		for _, typ := range types {
			for _, c := range digo.Cardinalities() {
				dep := digo.NewServiceDependency(typ, c)
				assert.Equal(t, typ, dep.InjectedType())
				assert.Equal(t, c, dep.Cardinality())
			}
		}
	})

	t.Run("LoggerExactlyOne", func(t *testing.T) {
		dep := digo.NewServiceDependency(digo.TypeOf[mock.Logger](), digo.ExactlyOne)
		assert.Equal(t, digo.TypeOf[mock.Logger](), dep.InjectedType())
		assert.Equal(t, digo.ExactlyOne, dep.Cardinality())
		assert.Equal(t, "mock.Logger (ExactlyOne)", dep.String())
	})

	t.Run("StructuralEquality", func(t *testing.T) {
		a := digo.NewServiceDependency(digo.TypeOf[mock.Cache](), digo.ZeroOrOne)
		b := digo.DependencyOn[mock.Cache](digo.ZeroOrOne)
		assert.True(t, a == b)

		assert.False(t, a == digo.DependencyOn[mock.Cache](digo.ExactlyOne), "cardinality differs")
		assert.False(t, a == digo.DependencyOn[mock.Plugin](digo.ZeroOrOne), "type differs")
	})

	t.Run("UsableAsMapKey", func(t *testing.T) {
		seen := map[digo.ServiceDependency]int{}
		seen[digo.DependencyOn[mock.Plugin](digo.ZeroOrMore)]++
		seen[digo.NewServiceDependency(digo.TypeFor(reflect.TypeOf((*mock.Plugin)(nil)).Elem()), digo.ZeroOrMore)]++
		seen[digo.DependencyOn[mock.Plugin](digo.ZeroOrOne)]++

		require.Len(t, seen, 2)
		assert.Equal(t, 2, seen[digo.DependencyOn[mock.Plugin](digo.ZeroOrMore)])
	})

	t.Run("Immutable", func(t *testing.T) {
		dep := digo.DependencyOn[mock.Logger](digo.ZeroOrMore)
		copied := dep
		for i := 0; i < 3; i++ {
			assert.Equal(t, digo.TypeOf[mock.Logger](), dep.InjectedType())
			assert.Equal(t, digo.ZeroOrMore, dep.Cardinality())
		}
		assert.Equal(t, copied, dep)
	})
}

func TestServiceCardinality(t *testing.T) {
	t.Run("ExactlyThreeVariants", func(t *testing.T) {
		all := digo.Cardinalities()
		require.Len(t, all, 3)
		assert.Equal(t, []digo.ServiceCardinality{digo.ZeroOrOne, digo.ExactlyOne, digo.ZeroOrMore}, all)
		for _, c := range all {
			assert.True(t, c.Valid(), c.String())
		}
	})

	t.Run("ZeroValueIsInvalid", func(t *testing.T) {
		var c digo.ServiceCardinality
		assert.False(t, c.Valid())
		assert.Equal(t, "ServiceCardinality(0)", c.String())
		assert.False(t, digo.ServiceCardinality(4).Valid())
	})

	t.Run("Formatting", func(t *testing.T) {
		cases := []struct {
			c        digo.ServiceCardinality
			name     string
			notation string
		}{
			{digo.ZeroOrOne, "ZeroOrOne", "0:1"},
			{digo.ExactlyOne, "ExactlyOne", "1:1"},
			{digo.ZeroOrMore, "ZeroOrMore", "0:*"},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.name, tc.c.String())
			assert.Equal(t, tc.notation, tc.c.Notation())
		}
	})
}

func TestType(t *testing.T) {
	var zero digo.Type
	assert.True(t, zero.IsZero())
	assert.Nil(t, zero.Reflect())
	assert.Equal(t, "<nil>", zero.String())

	logger := digo.TypeOf[mock.Logger]()
	assert.False(t, logger.IsZero())
	assert.Equal(t, reflect.Interface, logger.Reflect().Kind())
	assert.Equal(t, "mock.Logger", logger.String())
	assert.Equal(t, logger, digo.TypeFor(logger.Reflect()))
	assert.NotEqual(t, logger, digo.TypeOf[*mock.MockLogger]())
}
