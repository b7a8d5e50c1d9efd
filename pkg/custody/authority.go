package custody

import (
	"crypto/subtle"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
	"github.com/gaze-network/sale-engine/pkg/leb128"
	"github.com/gaze-network/uint128"
	"golang.org/x/crypto/blake2b"
)

// MinSecretLength is the minimum length of the deriver secret.
const MinSecretLength = 16

// Authority is the capability that allows moving value out of the holdings owned by one
// entity. It can only be obtained from a [Deriver]; possession of the value is the proof.
type Authority struct {
	owner string
	proof [blake2b.Size256]byte
}

// Owner returns the seed label of the entity that owns this authority.
func (a Authority) Owner() string {
	return a.owner
}

// IsZero reports whether the authority was not derived.
func (a Authority) IsZero() bool {
	return a.owner == "" && a.proof == [blake2b.Size256]byte{}
}

// digest binds the authority to a single holding. Only the digest is persisted.
func (a Authority) digest(holding HoldingID) []byte {
	h, _ := blake2b.New256(a.proof[:])
	_, _ = h.Write([]byte(holding))
	return h.Sum(nil)
}

func (a Authority) verify(holding HoldingID, digest []byte) bool {
	if a.IsZero() || len(digest) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a.digest(holding), digest) == 1
}

// Deriver derives entity authorities deterministically from a service secret,
// the same entity always gets the same authority.
type Deriver struct {
	secret []byte
}

func NewDeriver(secret string) (*Deriver, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.Wrapf(errs.InvalidArgument, "custody secret must be at least %d bytes", MinSecretLength)
	}
	if len(secret) > blake2b.Size {
		return nil, errors.Wrapf(errs.InvalidArgument, "custody secret must be at most %d bytes", blake2b.Size)
	}
	return &Deriver{secret: []byte(secret)}, nil
}

// Derive returns the authority for the entity identified by label and id.
func (d *Deriver) Derive(label string, id uint64) Authority {
	h, _ := blake2b.New256(d.secret)
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(leb128.AppendUint128(nil, uint128.From64(id)))

	a := Authority{owner: label + "/" + strconv.FormatUint(id, 10)}
	copy(a.proof[:], h.Sum(nil))
	return a
}
