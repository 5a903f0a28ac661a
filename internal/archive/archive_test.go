package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCreatesBuckets(t *testing.T) {
	root := t.TempDir()

	_, err := New(root)
	assert.NoError(t, err)

	for _, b := range []Bucket{BucketPending, BucketConfirmed, BucketRejected} {
		info, err := os.Stat(filepath.Join(root, string(b)))
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestStoreAndMove(t *testing.T) {
	a, err := New(t.TempDir())
	assert.NoError(t, err)

	path, err := a.Store("pay_1_1", []byte("proof"))
	assert.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, BucketPending, a.Locate("pay_1_1"))

	err = a.Move("pay_1_1", BucketPending, BucketConfirmed)
	assert.NoError(t, err)
	assert.Equal(t, BucketConfirmed, a.Locate("pay_1_1"))

	data, err := os.ReadFile(a.path("pay_1_1", BucketConfirmed))
	assert.NoError(t, err)
	assert.Equal(t, []byte("proof"), data)
}

func TestMoveMissingSourceFails(t *testing.T) {
	a, err := New(t.TempDir())
	assert.NoError(t, err)

	err = a.Move("pay_unknown", BucketPending, BucketRejected)
	assert.Error(t, err)
}

func TestLocateMissingProof(t *testing.T) {
	a, err := New(t.TempDir())
	assert.NoError(t, err)

	assert.Equal(t, Bucket(""), a.Locate("pay_unknown"))
}
