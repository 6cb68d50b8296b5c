package extender

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/webkit/errors"
)

func TestSubscriberRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewSubscriberRegistry()

	require.NoError(t, reg.Register(reflect.TypeOf(welcomeMailer{}), reflect.TypeOf(userCreated{})))

	subs, ok := reg.Lookup(reflect.TypeOf(userCreated{}))
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(welcomeMailer{})}, subs)
}

func TestSubscriberRegistry_InsertionOrderPreserved(t *testing.T) {
	reg := NewSubscriberRegistry()
	source := reflect.TypeOf(userCreated{})

	require.NoError(t, reg.Register(reflect.TypeOf(welcomeMailer{}), source))
	require.NoError(t, reg.Register(reflect.TypeOf(auditLogger{}), source))

	subs, ok := reg.Lookup(source)
	require.True(t, ok)
	require.Len(t, subs, 2)
	assert.Equal(t, reflect.TypeOf(welcomeMailer{}), subs[0])
	assert.Equal(t, reflect.TypeOf(auditLogger{}), subs[1])
}

func TestSubscriberRegistry_DuplicatesAppended(t *testing.T) {
	reg := NewSubscriberRegistry()
	source := reflect.TypeOf(userCreated{})

	// No dedup: the same subscriber registered twice appears twice.
	require.NoError(t, reg.Register(reflect.TypeOf(welcomeMailer{}), source))
	require.NoError(t, reg.Register(reflect.TypeOf(welcomeMailer{}), source))

	subs, ok := reg.Lookup(source)
	require.True(t, ok)
	assert.Len(t, subs, 2)
}

func TestSubscriberRegistry_ValidationOrder(t *testing.T) {
	type handlerIface interface{ Handle() }

	reg := NewSubscriberRegistry()
	source := reflect.TypeOf(userCreated{})

	testCases := []struct {
		name    string
		sub     reflect.Type
		source  reflect.Type
		invalid bool // expect ErrorInvalid instead of ErrorType
	}{
		{"nil subscriber", nil, source, true},
		{"nil source", reflect.TypeOf(welcomeMailer{}), nil, true},
		{"abstract subscriber", reflect.TypeOf((*handlerIface)(nil)).Elem(), source, false},
		{"non-constructible subscriber", reflect.TypeOf(func() {}), source, false},
		{"source missing marker", reflect.TypeOf(welcomeMailer{}), reflect.TypeOf(notAnEvent{}), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := reg.Register(tc.sub, tc.source)
			require.Error(t, err)
			if tc.invalid {
				assert.True(t, errors.IsInvalid(err))
			} else {
				assert.True(t, errors.IsType(err))
			}
		})
	}

	// Every rejected registration must leave the table untouched.
	assert.Equal(t, 0, reg.Len())
	_, ok := reg.Lookup(source)
	assert.False(t, ok)
}

func TestSubscriberRegistry_SourceThroughIntermediateBase(t *testing.T) {
	reg := NewSubscriberRegistry()

	// orderPlaced descends from Event through baseEvent.
	require.NoError(t, reg.Register(reflect.TypeOf(orderNotifier{}), reflect.TypeOf(orderPlaced{})))

	subs, ok := reg.Lookup(reflect.TypeOf(orderPlaced{}))
	require.True(t, ok)
	assert.Len(t, subs, 1)
}

func TestSubscriberRegistry_RegisterType(t *testing.T) {
	reg := NewSubscriberRegistry()

	require.NoError(t, reg.RegisterType(reflect.TypeOf(welcomeMailer{})))

	subs, ok := reg.Lookup(reflect.TypeOf(userCreated{}))
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(welcomeMailer{})}, subs)
}

func TestSubscriberRegistry_RegisterTypeDeepChain(t *testing.T) {
	reg := NewSubscriberRegistry()

	require.NoError(t, reg.RegisterType(reflect.TypeOf(deepMailer{})))

	subs, ok := reg.Lookup(reflect.TypeOf(userCreated{}))
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(deepMailer{})}, subs)
}

func TestSubscriberRegistry_RegisterTypeNoTemplate(t *testing.T) {
	reg := NewSubscriberRegistry()

	err := reg.RegisterType(reflect.TypeOf(notAnEvent{}))
	require.Error(t, err)
	assert.True(t, errors.IsType(err))
	assert.Equal(t, 0, reg.Len())
}

func TestSubscriberRegistry_RegisterTypeNil(t *testing.T) {
	reg := NewSubscriberRegistry()

	err := reg.RegisterType(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestSubscriberRegistry_RegisterAllSkipsNonMatching(t *testing.T) {
	reg := NewSubscriberRegistry()

	types := []reflect.Type{
		reflect.TypeOf(welcomeMailer{}),
		reflect.TypeOf(notAnEvent{}), // no template: skipped, not an error
		reflect.TypeOf(dog{}),        // unrelated extension type: skipped
		nil,                          // tolerated in bulk scans
		reflect.TypeOf(auditLogger{}),
	}

	require.NoError(t, reg.RegisterAll(types))

	subs, ok := reg.Lookup(reflect.TypeOf(userCreated{}))
	require.True(t, ok)
	assert.Equal(t, []reflect.Type{
		reflect.TypeOf(welcomeMailer{}),
		reflect.TypeOf(auditLogger{}),
	}, subs)
}

func TestSubscriberRegistry_RegisterAllBadSourceStillErrors(t *testing.T) {
	reg := NewSubscriberRegistry()

	// badSubscriber resolves against the template, but its event source
	// does not descend from the marker. Resolution succeeded, so the
	// structural failure propagates.
	err := reg.RegisterAll([]reflect.Type{reflect.TypeOf(badSubscriber{})})
	require.Error(t, err)
	assert.True(t, errors.IsType(err))
}

func TestSubscriberRegistry_RegisterAllNilCollection(t *testing.T) {
	reg := NewSubscriberRegistry()

	err := reg.RegisterAll(nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestSubscriberRegistry_ConcurrentRegistrationsNoLostUpdates(t *testing.T) {
	reg := NewSubscriberRegistry()
	source := reflect.TypeOf(userCreated{})

	subscriberTypes := []reflect.Type{
		reflect.TypeOf(welcomeMailer{}),
		reflect.TypeOf(auditLogger{}),
		reflect.TypeOf(deepMailer{}),
		reflect.TypeOf(muteSubscriber{}),
	}

	const perGoroutine = 50
	var wg sync.WaitGroup
	for _, subType := range subscriberTypes {
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func(st reflect.Type) {
				defer wg.Done()
				for i := 0; i < perGoroutine; i++ {
					_ = reg.Register(st, source)
				}
			}(subType)
		}
	}

	// Concurrent readers must never observe a partial list.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			if subs, ok := reg.Lookup(source); ok {
				for _, s := range subs {
					if s == nil {
						t.Error("observed corrupt entry")
						return
					}
				}
			}
		}
	}()

	wg.Wait()
	<-done

	subs, ok := reg.Lookup(source)
	require.True(t, ok)
	assert.Len(t, subs, len(subscriberTypes)*4*perGoroutine)
}
