// Package archive stores payment-proof images on disk, keyed by payment id.
// A proof lives in exactly one of three buckets matching the review outcome.
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type Bucket string

const (
	BucketPending   Bucket = "proofs"
	BucketConfirmed Bucket = "confirmed"
	BucketRejected  Bucket = "rejected"
)

type Archive struct {
	root string
}

// New creates the bucket directories under root.
func New(root string) (*Archive, error) {
	for _, b := range []Bucket{BucketPending, BucketConfirmed, BucketRejected} {
		if err := os.MkdirAll(filepath.Join(root, string(b)), 0o755); err != nil {
			return nil, fmt.Errorf("can't create archive bucket %s: %w", b, err)
		}
	}
	return &Archive{root: root}, nil
}

func (a *Archive) path(paymentID string, bucket Bucket) string {
	return filepath.Join(a.root, string(bucket), paymentID+".jpg")
}

// Store writes a proof image into the pending bucket and returns its path.
func (a *Archive) Store(paymentID string, data []byte) (string, error) {
	path := a.path(paymentID, BucketPending)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		zap.L().Error("can't store proof", zap.String("payment_id", paymentID), zap.Error(err))
		return "", fmt.Errorf("can't store proof for %s: %w", paymentID, err)
	}
	return path, nil
}

// Move renames a proof between buckets. A missing source is an error, never a
// silent drop: the proof is review evidence.
func (a *Archive) Move(paymentID string, from, to Bucket) error {
	src := a.path(paymentID, from)
	dst := a.path(paymentID, to)
	if err := os.Rename(src, dst); err != nil {
		zap.L().Error("can't move proof",
			zap.String("payment_id", paymentID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err))
		return fmt.Errorf("can't move proof for %s from %s to %s: %w", paymentID, from, to, err)
	}
	return nil
}

// Locate reports which bucket currently holds the proof, or "" when missing.
func (a *Archive) Locate(paymentID string) Bucket {
	for _, b := range []Bucket{BucketPending, BucketConfirmed, BucketRejected} {
		if _, err := os.Stat(a.path(paymentID, b)); err == nil {
			return b
		}
	}
	return ""
}
