package connection

import (
	mb "github.com/saeidalz13/armada/models/battleship"
)

type RespBoard struct {
	Grid     []string         `json:"grid"`
	Fleet    []mb.ShipSummary `json:"fleet"`
	Currency int              `json:"currency"`
}

func NewRespBoard(view mb.PlayerView) RespBoard {
	return RespBoard{
		Grid:     view.Grid.Rows(),
		Fleet:    view.Fleet,
		Currency: view.Currency,
	}
}

type RespRepeatAction struct {
	Reason   string           `json:"reason"`
	Fleet    []mb.ShipSummary `json:"fleet"`
	Currency int              `json:"currency"`
}

type RespPoints struct {
	Score int `json:"score"`
}

type RespShipHit struct {
	Coordinates mb.Coordinates `json:"coordinates"`
}

type RespAttackInfo struct {
	Points   int `json:"points"`
	Currency int `json:"currency"`
}

type RespSurpriseResult struct {
	Won bool `json:"won"`
}

type RespRankingEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type RespRanking struct {
	Entries []RespRankingEntry `json:"entries"`
}

type RespPurchaseSuccess struct {
	Size     int `json:"size"`
	Currency int `json:"currency"`
}

type RespPurchaseNotice struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type RespPlayerEliminated struct {
	Name string `json:"name"`
}

type RespGameOver struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Sent with CodeWon and CodeLost
type RespMatchResult struct {
	Score int `json:"score"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
