package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantHash makes every literal collide.
func constantHash(_ []byte) uint32 { return 0xdeadbeef }

func TestRegistry_SameLiteralTwice(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.record(0xdeadbeef, []byte("jump")))
	require.NoError(t, r.record(0xdeadbeef, []byte("jump")))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Collision(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.record(0xdeadbeef, []byte("jump")))
	err := r.record(0xdeadbeef, []byte("idle"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashCollision)
	assert.Contains(t, err.Error(), "jump")
	assert.Contains(t, err.Error(), "idle")
}

func TestBytes_CollisionDetection(t *testing.T) {
	p := &Preprocessor{Hash: constantHash, Registry: NewRegistry()}
	_, _, err := p.Bytes([]byte(`SID("a") SID("b")`), "test.c")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashCollision)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "test.c", perr.Path)
}

func TestBytes_NoRegistryMeansNoChecking(t *testing.T) {
	p := &Preprocessor{Hash: constantHash}
	out, modified, err := p.Bytes([]byte(`SID("a") SID("b")`), "test.c")
	require.NoError(t, err)
	assert.True(t, modified)
	assert.Equal(t, `0xdeadbeef /* "a" */ 0xdeadbeef /* "b" */`, string(out))
}

func TestRegistry_SharedAcrossFiles(t *testing.T) {
	r := NewRegistry()
	p := &Preprocessor{Hash: constantHash, Registry: r}

	_, _, err := p.Bytes([]byte(`SID("a")`), "one.c")
	require.NoError(t, err)

	_, _, err = p.Bytes([]byte(`SID("b")`), "two.c")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashCollision)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "two.c", perr.Path)
}
