package connection

import (
	mb "github.com/saeidalz13/armada/models/battleship"
)

type ReqRegister struct {
	Name string `json:"name"`
}

type ReqStartVote struct {
	Accept bool `json:"accept"`
}

type ReqSurpriseClaim struct {
	Keyword string `json:"keyword"`
}

type ReqAttack struct {
	ShipId      int            `json:"ship_id"`
	Coordinates mb.Coordinates `json:"coordinates"`
}

type ReqMove struct {
	ShipId      int            `json:"ship_id"`
	Coordinates mb.Coordinates `json:"coordinates"`
}

type ReqPurchase struct {
	Tier int `json:"tier"`
}
