package extender

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/webkit/errors"
)

func TestTypeRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewTypeRegistry()

	require.NoError(t, reg.Register(reflect.TypeOf(dog{})))

	ext, ok := reg.Lookup(reflect.TypeOf(animal{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(dog{}), ext)
}

func TestTypeRegistry_LookupMissIsNotAnError(t *testing.T) {
	reg := NewTypeRegistry()

	ext, ok := reg.Lookup(reflect.TypeOf(cat{}))
	assert.False(t, ok)
	assert.Nil(t, ext)
}

func TestTypeRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewTypeRegistry()

	// dog and cat share the animal base; the second registration must
	// silently overwrite the first.
	require.NoError(t, reg.Register(reflect.TypeOf(dog{})))
	require.NoError(t, reg.Register(reflect.TypeOf(cat{})))

	ext, ok := reg.Lookup(reflect.TypeOf(animal{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(cat{}), ext)
	assert.Equal(t, 1, reg.Len())
}

func TestTypeRegistry_RegisterNil(t *testing.T) {
	reg := NewTypeRegistry()

	err := reg.Register(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Equal(t, 0, reg.Len())
}

func TestTypeRegistry_RegisterAbstract(t *testing.T) {
	reg := NewTypeRegistry()

	type speaker interface{ Speak() string }
	err := reg.Register(reflect.TypeOf((*speaker)(nil)).Elem())
	require.Error(t, err)
	assert.True(t, errors.IsType(err))
	assert.Equal(t, 0, reg.Len())
}

func TestTypeRegistry_RegisterWithoutBase(t *testing.T) {
	reg := NewTypeRegistry()

	err := reg.Register(reflect.TypeOf(orphan{}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err))

	_, ok := reg.Lookup(reflect.TypeOf(orphan{}))
	assert.False(t, ok)
}

func TestTypeRegistry_DeepChainBindsDirectBaseOnly(t *testing.T) {
	reg := NewTypeRegistry()

	require.NoError(t, reg.Register(reflect.TypeOf(goldenRetriever{})))

	// goldenRetriever's direct base is dog, not animal.
	ext, ok := reg.Lookup(reflect.TypeOf(dog{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(goldenRetriever{}), ext)

	_, ok = reg.Lookup(reflect.TypeOf(animal{}))
	assert.False(t, ok)
}

func TestTypeRegistry_RegisterAll(t *testing.T) {
	reg := NewTypeRegistry()

	types := []reflect.Type{
		reflect.TypeOf(dog{}),
		reflect.TypeOf(tabby{}),
		reflect.TypeOf(cat{}),
	}

	// Only names containing "t" pass the predicate: tabby (binds cat)
	// and cat (binds animal). dog is skipped.
	err := reg.RegisterAll(types, func(t reflect.Type) bool {
		return strings.Contains(t.Name(), "t")
	})
	require.NoError(t, err)

	ext, ok := reg.Lookup(reflect.TypeOf(cat{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(tabby{}), ext)

	ext, ok = reg.Lookup(reflect.TypeOf(animal{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(cat{}), ext)

	_, ok = reg.Lookup(reflect.TypeOf(dog{}))
	assert.False(t, ok, "dog was filtered out by the predicate")
}

func TestTypeRegistry_RegisterAllNaturalOrderOverwrites(t *testing.T) {
	reg := NewTypeRegistry()

	types := []reflect.Type{
		reflect.TypeOf(dog{}),
		reflect.TypeOf(cat{}),
	}

	require.NoError(t, reg.RegisterAll(types, func(reflect.Type) bool { return true }))

	ext, ok := reg.Lookup(reflect.TypeOf(animal{}))
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(cat{}), ext, "later entry wins for the shared base")
}

func TestTypeRegistry_RegisterAllValidation(t *testing.T) {
	reg := NewTypeRegistry()

	err := reg.RegisterAll(nil, func(reflect.Type) bool { return true })
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	err = reg.RegisterAll([]reflect.Type{reflect.TypeOf(dog{})}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))

	assert.Equal(t, 0, reg.Len())
}

func TestTypeRegistry_New(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Register(reflect.TypeOf(dog{})))

	inst, ok := reg.New(reflect.TypeOf(animal{}))
	require.True(t, ok)
	_, isDog := inst.(*dog)
	assert.True(t, isDog)

	_, ok = reg.New(reflect.TypeOf(cat{}))
	assert.False(t, ok)
}

func TestTypeRegistry_BindingsSnapshot(t *testing.T) {
	reg := NewTypeRegistry()
	require.NoError(t, reg.Register(reflect.TypeOf(dog{})))

	snapshot := reg.Bindings()
	snapshot[reflect.TypeOf(cat{})] = reflect.TypeOf(tabby{})

	// Mutating the snapshot must not leak into the registry.
	assert.Equal(t, 1, reg.Len())
}
