package custody

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/common/errs"
)

const nativeAssetName = "native"

// Asset identifies the denomination of a balance. The zero value is the native currency,
// any other value is a token identified by its mint.
type Asset struct {
	Mint string
}

// Native returns the native currency asset.
func Native() Asset {
	return Asset{}
}

// Token returns the token asset for the given mint.
func Token(mint string) Asset {
	return Asset{Mint: mint}
}

// NewAsset builds an asset from the two mutually exclusive denomination fields used by the
// external API: exactly one of native or a non-empty token mint must be set.
func NewAsset(native bool, mint string) (Asset, error) {
	mint = strings.TrimSpace(mint)
	switch {
	case native && mint != "":
		return Asset{}, errors.Wrap(errs.ValidationError, "denomination can't be both native and token")
	case !native && mint == "":
		return Asset{}, errors.Wrap(errs.ValidationError, "denomination must be either native or token")
	case native:
		return Native(), nil
	}
	if strings.EqualFold(mint, nativeAssetName) {
		return Asset{}, errors.Wrapf(errs.ValidationError, "%q is not a valid token mint", mint)
	}
	return Token(mint), nil
}

// ParseAsset is the inverse of [Asset.String].
func ParseAsset(s string) Asset {
	if s == "" || s == nativeAssetName {
		return Native()
	}
	return Token(s)
}

func (a Asset) IsNative() bool {
	return a.Mint == ""
}

func (a Asset) String() string {
	if a.IsNative() {
		return nativeAssetName
	}
	return a.Mint
}
