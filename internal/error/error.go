package error

import (
	"errors"
	"fmt"
)

// RuleError is a violation of the game rules. The player that
// caused it is asked to repeat their action with Reason.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return e.Reason
}

func newRuleError(format string, a ...any) error {
	return &RuleError{Reason: fmt.Sprintf(format, a...)}
}

// IsRuleError reports whether err (or anything it wraps) is a RuleError.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}

var (
	ErrRankingEmpty     = errors.New("ranking is empty")
	ErrNoFreeRegion     = errors.New("no free region left on the board")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrGameFull         = errors.New("game is full")
	ErrMalformedMessage = errors.New("malformed message")
	ErrNameTaken        = errors.New("name already in use")
)

func ErrPlayerNotExist(playerId int) error {
	return fmt.Errorf("player with this id does not exist, id: %d", playerId)
}

func ErrSessionNotFound(playerId int) error {
	return fmt.Errorf("session not found for player id: %d", playerId)
}

func ErrNameInUse(name string) error {
	return fmt.Errorf("%w: %s", ErrNameTaken, name)
}

func ErrInvalidName() error {
	return newRuleError("name must be between 1 and 20 characters")
}

func ErrShipNotExist(shipId int) error {
	return newRuleError("ship with this id does not exist, id: %d", shipId)
}

func ErrShipDamaged(shipId int) error {
	return newRuleError("ship %d is damaged and cannot move", shipId)
}

func ErrXorYOutOfGridBound(x, y int) error {
	return newRuleError("x or y is out of grid bound\tx: %d\ty: %d", x, y)
}

func ErrNoRoomAtDestination(x, y int) error {
	return newRuleError("no free region at destination\tx: %d\ty: %d", x, y)
}

func ErrInvalidPurchaseTier(tier int) error {
	return newRuleError("invalid purchase tier: %d", tier)
}

func ErrInsufficientCurrency(price, currency int) error {
	return newRuleError("insufficient currency: price %d, available %d", price, currency)
}

func ErrPurchaseNoRoom() error {
	return newRuleError("%s", ErrNoFreeRegion.Error())
}

func ErrRankingUnavailable(err error) error {
	if errors.Is(err, ErrRankingEmpty) {
		return newRuleError("%s", ErrRankingEmpty.Error())
	}
	return newRuleError("ranking unavailable: %v", err)
}

func ErrInvalidInstruction(code uint8) error {
	return newRuleError("invalid instruction code: %d", code)
}

func ErrMalformedInstruction(err error) error {
	return newRuleError("%s: %v", ErrMalformedMessage.Error(), err)
}
