package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass_String(t *testing.T) {
	testCases := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorInvalid, "invalid"},
		{ErrorType, "type"},
		{ErrorFatal, "fatal"},
		{ErrorClass(99), "unknown"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tc.class.String())
	}
}

func TestWrap_Format(t *testing.T) {
	base := stderrors.New("boom")
	err := Wrap(base, "TypeRegistry", "Register", "base type resolution")

	require.Error(t, err)
	assert.Equal(t, "TypeRegistry.Register: base type resolution failed: boom", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "C", "M", "a"))
	assert.NoError(t, WrapInvalid(nil, "C", "M", "a"))
	assert.NoError(t, WrapType(nil, "C", "M", "a"))
	assert.NoError(t, WrapFatal(nil, "C", "M", "a"))
}

func TestWrapInvalid_Classification(t *testing.T) {
	err := WrapInvalid(ErrNilArgument, "Manager", "RegisterExtension", "argument validation")

	assert.True(t, IsInvalid(err))
	assert.False(t, IsType(err))
	assert.False(t, IsFatal(err))
	assert.True(t, stderrors.Is(err, ErrNilArgument))
}

func TestWrapType_Classification(t *testing.T) {
	err := WrapType(ErrInvalidType, "SubscriberRegistry", "Register", "concrete type check")

	assert.True(t, IsType(err))
	assert.False(t, IsInvalid(err))
	assert.True(t, stderrors.Is(err, ErrInvalidType))
}

func TestWrapFatal_Classification(t *testing.T) {
	err := WrapFatal(stderrors.New("registry corrupted"), "Manager", "Reset", "state check")

	assert.True(t, IsFatal(err))
	assert.False(t, IsInvalid(err))
	assert.False(t, IsType(err))
}

func TestClassification_PreservedThroughChain(t *testing.T) {
	inner := WrapType(ErrInvalidType, "Resolver", "ResolveArgument", "template match")
	outer := fmt.Errorf("while scanning assembly: %w", inner)

	assert.True(t, IsType(outer))
	assert.Equal(t, ErrorType, Classify(outer))
}

func TestSentinels_ClassifyWithoutWrapping(t *testing.T) {
	assert.True(t, IsInvalid(ErrNilArgument))
	assert.True(t, IsInvalid(ErrInvalidConfig))
	assert.True(t, IsInvalid(ErrMissingConfig))
	assert.True(t, IsType(ErrInvalidType))
}

func TestClassify_UnknownDefaultsToInvalid(t *testing.T) {
	assert.Equal(t, ErrorInvalid, Classify(stderrors.New("mystery")))
}

func TestClassifiedError_As(t *testing.T) {
	err := WrapInvalid(ErrNilArgument, "TypeRegistry", "RegisterAll", "predicate validation")

	var ce *ClassifiedError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, "TypeRegistry", ce.Component)
	assert.Equal(t, "RegisterAll", ce.Operation)
	assert.Equal(t, ErrorInvalid, ce.Class)
}

func TestIsHelpers_NilError(t *testing.T) {
	assert.False(t, IsInvalid(nil))
	assert.False(t, IsType(nil))
	assert.False(t, IsFatal(nil))
}
