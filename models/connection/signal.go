package connection

// Server to client codes
const (
	CodeRegister uint8 = iota
	CodeNameInUse
	CodeStartVote
	CodeWaiting
	CodeGameStarted
	CodeTakeAction
	CodeBoard
	CodeRepeatAction
	CodePoints
	CodeShipHit
	CodeShipSunk
	CodeAttackInfo
	CodeSurpriseEvent
	CodeSurpriseEventResult
	CodeRanking
	CodePurchaseSuccess
	CodePurchaseNotice
	CodePlayerEliminated
	CodeGameOver
	CodeLost
	CodeWon
	CodeTurnTimeout
	CodeInvalidSignal
)

// Client to server codes. They start at 100 so a
// client echoing a server code is never mistaken
// for an instruction.
const (
	CodeRegisterName uint8 = iota + 100
	CodeStartVoteAnswer
	CodeSurpriseClaim
	CodeAttack
	CodeMove
	CodePurchase
	CodeSkip
	CodeShowRanking
)

// The keyword that claims the surprise event
const SurpriseClaimKeyword = "primero"

type Signal struct {
	Code uint8 `json:"code"`
}
