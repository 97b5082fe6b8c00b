package firestore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConstructedOnce(t *testing.T) {
	var dials int32
	shared := new(fs.Client)

	c := NewConn(WithProjectID("test-project"))
	c.dial = func(ctx context.Context) (*fs.Client, error) {
		atomic.AddInt32(&dials, 1)
		return shared, nil
	}

	const callers = 16
	got := make([]*fs.Client, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cl, err := c.Client(context.Background())
			require.NoError(t, err)
			got[i] = cl
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
	for _, cl := range got {
		assert.Same(t, shared, cl)
	}
}

func TestClientFailureIsMemoized(t *testing.T) {
	var dials int32
	dialErr := errors.New("bad credentials")

	c := NewConn(WithProjectID("test-project"), WithCredentialsFile("/does/not/exist.json"))
	c.dial = func(ctx context.Context) (*fs.Client, error) {
		atomic.AddInt32(&dials, 1)
		return nil, dialErr
	}

	for i := 0; i < 3; i++ {
		cl, err := c.Client(context.Background())
		assert.Nil(t, cl)
		assert.ErrorIs(t, err, dialErr)
	}
	assert.Equal(t, int32(1), dials)

	assert.Error(t, c.Health(context.Background()))
	assert.NoError(t, c.Close())
}
