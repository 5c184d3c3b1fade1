package mutation

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errAlwaysFails = errors.New("boom")

func TestKeyedSerializer_MutualExclusion(t *testing.T) {
	s := NewKeyedSerializer()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = s.Do("assessment:1", func() error {
				// A racing increment would lose updates without the lock.
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestKeyedSerializer_IndependentKeys(t *testing.T) {
	s := NewKeyedSerializer()

	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = s.Do("assessment:1", func() error {
			close(holding)
			<-release
			return nil
		})
	}()

	<-holding

	// A different key must not wait on the held one.
	done := make(chan struct{})
	go func() {
		_ = s.Do("assessment:2", func() error { return nil })
		close(done)
	}()

	<-done
	close(release)
}

func TestKeyedSerializer_ReleasesIdleKeys(t *testing.T) {
	s := NewKeyedSerializer()

	_ = s.Do("task:7", func() error { return nil })

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Empty(t, s.entries)
}

func TestKeyedSerializer_PropagatesError(t *testing.T) {
	s := NewKeyedSerializer()

	want := errAlwaysFails
	err := s.Do("term:1:3A", func() error { return want })
	require.ErrorIs(t, err, want)
}

func TestItemKeyAndOwnerKey(t *testing.T) {
	require.Equal(t, "assessment:42", ItemKey("assessment", 42))
	require.Equal(t, "term:7:3A", OwnerKey("term", 7, "3A"))
	require.NotEqual(t, OwnerKey("term", 7, "3A"), OwnerKey("term", 8, "3A"))
}
