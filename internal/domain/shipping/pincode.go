// Package shipping answers one question at checkout: can we deliver to this
// pincode. The serviceable set is large and append-only, so it is held as a
// bloom filter built offline from pincode shard files and loaded by the
// server as a single binary blob. False positives are acceptable — a rare
// undeliverable order is caught downstream — false negatives never happen.
package shipping

import (
	"bufio"
	"io"
	"os"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
)

// Defaults for building a fresh index.
const (
	DefaultCapacity = 200_000
	DefaultFPR      = 0.001
)

// Index is a set of serviceable pincodes.
type Index struct {
	filter *bloom.BloomFilter
}

// NewIndex creates an empty index sized for the expected pincode count.
func NewIndex(capacity uint, fpr float64) *Index {
	return &Index{filter: bloom.NewWithEstimates(capacity, fpr)}
}

// Add marks a pincode as serviceable. Malformed pincodes are ignored.
func (i *Index) Add(pin string) {
	if ValidPincode(pin) {
		i.filter.Add([]byte(pin))
	}
}

// Serviceable reports whether the pincode is (probably) deliverable.
// Malformed pincodes are never serviceable.
func (i *Index) Serviceable(pin string) bool {
	return ValidPincode(pin) && i.filter.Test([]byte(pin))
}

// Merge folds another index built with identical parameters into this one.
func (i *Index) Merge(other *Index) error {
	return i.filter.Merge(other.filter)
}

// WriteTo serializes the index.
func (i *Index) WriteTo(w io.Writer) (int64, error) {
	return i.filter.WriteTo(w)
}

// ReadIndex deserializes an index written by WriteTo.
func ReadIndex(r io.Reader) (*Index, error) {
	var f bloom.BloomFilter
	if _, err := f.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "read bloom filter")
	}
	return &Index{filter: &f}, nil
}

// LoadIndexFile reads a serialized index from disk.
func LoadIndexFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open index file")
	}
	defer f.Close()
	return ReadIndex(bufio.NewReader(f))
}

// ScanShard feeds every valid pincode from a gzip-compressed,
// newline-separated shard file into the index. It returns the number of
// pincodes added.
func (i *Index) ScanShard(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open shard %s", path)
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return 0, errors.Wrapf(err, "read shard %s", path)
	}
	defer zr.Close()

	added := 0
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		pin := sc.Text()
		if !ValidPincode(pin) {
			continue
		}
		i.filter.Add([]byte(pin))
		added++
	}
	if err := sc.Err(); err != nil {
		return added, errors.Wrapf(err, "scan shard %s", path)
	}
	return added, nil
}

// ValidPincode reports whether pin is a well-formed Indian postal code:
// six digits, not starting with zero.
func ValidPincode(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	if pin[0] < '1' || pin[0] > '9' {
		return false
	}
	for i := 1; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
