package validation

import (
	"github.com/pkg/errors"

	"github.com/bytom/escrow/application/order/common"
	"github.com/bytom/escrow/application/order/contract"
)

// Every rejection wraps exactly one of these; match with errors.Cause.
var (
	ErrMalformedDatum            = common.ErrMalformedDatum
	ErrMalformedRedeemer         = contract.ErrMalformedRedeemer
	ErrZeroOrNegativeAmount      = errors.New("order amount must be positive")
	ErrSelfTradeAsset            = errors.New("order offers the asset it requests")
	ErrNothingOffered            = errors.New("order offers no asset")
	ErrMissingValidityToken      = errors.New("missing validity token")
	ErrInvalidMintAmount         = errors.New("invalid validity token mint amount")
	ErrUnmatchedOrder            = errors.New("unmatched order")
	ErrValueConservationViolated = errors.New("value conservation violated")
	ErrValidityTokenLost         = errors.New("validity token lost")
	ErrUnauthorizedCloser        = errors.New("order closed without owner signature")
	ErrInvalidBurnAmount         = errors.New("invalid validity token burn amount")
	ErrMixedActions              = errors.New("script inputs mix trade and close actions")
)
