package api

import (
	"context"
	"log"
	"strings"
	"sync"

	mc "github.com/saeidalz13/armada/models/connection"
)

const noSurpriseWinner = -1

// runSurprise fires the one-shot surprise event. Claims from every
// connection land on one channel, so the first to arrive wins.
func (c *Coordinator) runSurprise(ctx context.Context) {
	surpriseCtx, cancel := context.WithTimeout(ctx, c.cfg.SurpriseTimeout)
	defer cancel()

	ids := c.sessions.PlayerIds()
	claims := make(chan int, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		session, err := c.sessions.FindSession(id)
		if err != nil {
			continue
		}
		session.Drain()
		if err := c.sessions.Communicate(id, mc.NewMessage[mc.NoPayload](mc.CodeSurpriseEvent)); err != nil {
			continue
		}

		wg.Add(1)
		go func(id int, session *mc.Session) {
			defer wg.Done()
			collectClaim(surpriseCtx, id, session, claims)
		}(id, session)
	}

	winnerId := c.firstClaim(surpriseCtx, claims)
	cancel()
	wg.Wait()

	for _, id := range c.sessions.PlayerIds() {
		result := mc.NewMessage[mc.RespSurpriseResult](mc.CodeSurpriseEventResult)
		result.AddPayload(mc.RespSurpriseResult{Won: id == winnerId})
		_ = c.sessions.Communicate(id, result)
	}

	attack, err := c.game.ResolveSurprise(winnerId)
	if err != nil {
		log.Println("surprise winner is gone:", err)
		return
	}
	if winnerId == noSurpriseWinner {
		log.Println("surprise event closed without a winner")
		return
	}

	winner, err := c.game.FindPlayer(winnerId)
	if err != nil {
		return
	}
	log.Printf("surprise event won by %s\n", winner.Name)
	c.announceAttack(winner, attack)
}

// firstClaim returns the first player id on claims, or
// noSurpriseWinner if ctx ends first. Connection commands are served
// while waiting.
func (c *Coordinator) firstClaim(ctx context.Context, claims <-chan int) int {
	for {
		select {
		case id := <-claims:
			return id
		case cmd := <-c.commands:
			c.handleCommand(cmd)
		case <-ctx.Done():
			return noSurpriseWinner
		}
	}
}

// collectClaim reads frames until one carries the claim keyword.
// Anything else is ignored.
func collectClaim(ctx context.Context, playerId int, session *mc.Session, claims chan<- int) {
	for {
		payload, err := session.Receive(ctx)
		if err != nil {
			return
		}

		code, err := mc.FetchCode(payload)
		if err != nil || code != mc.CodeSurpriseClaim {
			continue
		}
		msg, err := mc.DecodeMessage[mc.ReqSurpriseClaim](payload)
		if err != nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(msg.Payload.Keyword), mc.SurpriseClaimKeyword) {
			claims <- playerId
			return
		}
	}
}
