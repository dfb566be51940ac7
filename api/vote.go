package api

import (
	"context"
	"log"
	"sync"

	mb "github.com/saeidalz13/armada/models/battleship"
	mc "github.com/saeidalz13/armada/models/connection"
)

type voteAnswer struct {
	playerId int
	accept   bool
}

// runStartVote asks every connected player whether to start. Only a
// unanimous yes starts the game; a missing answer counts as no.
func (c *Coordinator) runStartVote(ctx context.Context) bool {
	if !c.game.AskStartConfirmation() {
		return false
	}

	voteCtx, cancel := context.WithTimeout(ctx, c.cfg.VoteTimeout)
	defer cancel()

	ids := c.sessions.PlayerIds()
	answers := make(chan voteAnswer, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		session, err := c.sessions.FindSession(id)
		if err != nil {
			answers <- voteAnswer{playerId: id}
			continue
		}
		session.Drain()
		if err := c.sessions.Communicate(id, mc.NewMessage[mc.NoPayload](mc.CodeStartVote)); err != nil {
			answers <- voteAnswer{playerId: id}
			continue
		}

		wg.Add(1)
		go func(id int, session *mc.Session) {
			defer wg.Done()
			answers <- voteAnswer{playerId: id, accept: c.collectVote(voteCtx, session)}
		}(id, session)
	}

	unanimous := len(ids) > 0
	for pending := len(ids); pending > 0 && unanimous; {
		select {
		case answer := <-answers:
			pending--
			if !answer.accept {
				log.Printf("player %d declined to start\n", answer.playerId)
				unanimous = false
			}
		case cmd := <-c.commands:
			c.deferOrHandle(cmd)
		}
	}

	// the collectors must be gone before anyone reads these sessions again
	cancel()
	wg.Wait()

	started := c.game.ResolveStartVote(unanimous) == mb.GameStateInProgress
	if !started {
		c.sessions.Broadcast(mc.NewMessage[mc.NoPayload](mc.CodeWaiting))
	}
	c.flushDeferred()
	return started
}

// collectVote reads frames until a vote answer arrives or ctx ends.
func (c *Coordinator) collectVote(ctx context.Context, session *mc.Session) bool {
	for {
		payload, err := session.Receive(ctx)
		if err != nil {
			return false
		}

		code, err := mc.FetchCode(payload)
		if err != nil || code != mc.CodeStartVoteAnswer {
			_ = session.Send(invalidSignal(code, err))
			continue
		}

		msg, err := mc.DecodeMessage[mc.ReqStartVote](payload)
		if err != nil {
			_ = session.Send(invalidSignal(code, err))
			continue
		}
		return msg.Payload.Accept
	}
}
