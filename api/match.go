package api

import (
	"context"
	"errors"
	"fmt"
	"log"

	cerr "github.com/saeidalz13/armada/internal/error"
	"github.com/saeidalz13/armada/internal/ranking"
	mb "github.com/saeidalz13/armada/models/battleship"
	mc "github.com/saeidalz13/armada/models/connection"
)

var errGameDecided = errors.New("game decided while waiting")

type frame struct {
	payload []byte
	err     error
}

// playTurns runs the game until at most one fleet is left.
func (c *Coordinator) playTurns(ctx context.Context) error {
	for {
		if winner, over := c.game.CheckGameOver(); over {
			return c.finish(ctx, winner)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if c.game.SurpriseDue() {
			c.runSurprise(ctx)
			continue
		}

		player := c.game.CurrentPlayer()
		if player == nil {
			continue
		}
		c.playTurn(ctx, player)
		c.game.EndTurn()
	}
}

// playTurn prompts player until one instruction consumes the turn or
// the turn deadline passes.
func (c *Coordinator) playTurn(ctx context.Context, player *mb.Player) {
	session, err := c.sessions.FindSession(player.Id)
	if err != nil {
		c.leave(player.Id)
		return
	}

	turnCtx, cancel := context.WithTimeout(ctx, c.cfg.TurnTimeout)
	defer cancel()

	session.Drain()
	prompt := true
	for {
		if prompt {
			if err := c.prompt(player); err != nil {
				c.leave(player.Id)
				return
			}
			prompt = false
		}

		f := c.awaitInstruction(turnCtx, session)
		if f.err != nil {
			switch {
			case errors.Is(f.err, errGameDecided):
			case errors.Is(f.err, context.DeadlineExceeded) && ctx.Err() == nil:
				log.Printf("turn of %s timed out\n", player.Name)
				_ = c.sessions.Communicate(player.Id, mc.NewMessage[mc.NoPayload](mc.CodeTurnTimeout))
			case mc.IsConnClosed(f.err):
				c.leave(player.Id)
			}
			return
		}

		// the player may have been eliminated while we waited
		if !player.HasShips() {
			return
		}

		consumed, reprompt, err := c.apply(player, f.payload)
		if err != nil {
			if !cerr.IsRuleError(err) {
				log.Printf("instruction of %s failed: %s\n", player.Name, err)
			}
			c.repeatAction(player, err)
			continue
		}
		if consumed {
			return
		}
		prompt = reprompt
	}
}

func (c *Coordinator) prompt(player *mb.Player) error {
	view, err := c.game.View(player.Id)
	if err != nil {
		return err
	}

	if err := c.sessions.Communicate(player.Id, mc.NewMessage[mc.NoPayload](mc.CodeTakeAction)); err != nil {
		return err
	}

	board := mc.NewMessage[mc.RespBoard](mc.CodeBoard)
	board.AddPayload(mc.NewRespBoard(view))
	if err := c.sessions.Communicate(player.Id, board); err != nil {
		return err
	}

	points := mc.NewMessage[mc.RespPoints](mc.CodePoints)
	points.AddPayload(mc.RespPoints{Score: view.Score})
	return c.sessions.Communicate(player.Id, points)
}

// awaitInstruction waits for the next frame of session and keeps
// serving connection commands meanwhile. If a command leaves at most
// one fleet the wait ends with errGameDecided. It returns only after
// the reader goroutine is done.
func (c *Coordinator) awaitInstruction(ctx context.Context, session *mc.Session) frame {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan frame, 1)
	go func() {
		payload, err := session.Receive(waitCtx)
		frames <- frame{payload: payload, err: err}
	}()

	decided := false
	for {
		select {
		case f := <-frames:
			if decided {
				return frame{err: errGameDecided}
			}
			return f
		case cmd := <-c.commands:
			c.handleCommand(cmd)
			if _, over := c.game.CheckGameOver(); over && !decided {
				decided = true
				cancel()
			}
		}
	}
}

// apply runs one instruction. consumed reports whether the turn is
// over; reprompt whether the player should get a fresh prompt.
func (c *Coordinator) apply(player *mb.Player, payload []byte) (consumed, reprompt bool, err error) {
	code, err := mc.FetchCode(payload)
	if err != nil {
		return false, false, cerr.ErrMalformedInstruction(err)
	}

	switch code {
	case mc.CodeAttack:
		msg, err := mc.DecodeMessage[mc.ReqAttack](payload)
		if err != nil {
			return false, false, cerr.ErrMalformedInstruction(err)
		}
		return true, false, c.handleAttack(player, msg.Payload)

	case mc.CodeMove:
		msg, err := mc.DecodeMessage[mc.ReqMove](payload)
		if err != nil {
			return false, false, cerr.ErrMalformedInstruction(err)
		}
		return true, false, c.handleMove(player, msg.Payload)

	case mc.CodePurchase:
		msg, err := mc.DecodeMessage[mc.ReqPurchase](payload)
		if err != nil {
			return false, false, cerr.ErrMalformedInstruction(err)
		}
		return true, false, c.handlePurchase(player, msg.Payload)

	case mc.CodeSkip:
		return true, false, nil

	case mc.CodeShowRanking:
		return false, true, c.handleShowRanking(player)

	default:
		return false, false, cerr.ErrInvalidInstruction(code)
	}
}

func (c *Coordinator) handleAttack(player *mb.Player, req mc.ReqAttack) error {
	result, err := c.game.Attack(player.Id, req.ShipId, req.Coordinates)
	if err != nil {
		return err
	}
	c.announceAttack(player, result)
	return nil
}

// announceAttack tells the defenders what was hit, the attacker what
// it earned, and everyone who got eliminated.
func (c *Coordinator) announceAttack(attacker *mb.Player, result mb.AttackResult) {
	for _, hit := range result.Hits {
		shipHit := mc.NewMessage[mc.RespShipHit](mc.CodeShipHit)
		shipHit.AddPayload(mc.RespShipHit{Coordinates: hit.Coordinates})
		_ = c.sessions.Communicate(hit.PlayerId, shipHit)

		if hit.Outcome == mb.HitOutcomeSunk {
			_ = c.sessions.Communicate(hit.PlayerId, mc.NewMessage[mc.NoPayload](mc.CodeShipSunk))
		}
	}

	info := mc.NewMessage[mc.RespAttackInfo](mc.CodeAttackInfo)
	info.AddPayload(mc.RespAttackInfo{Points: result.Points, Currency: result.Currency})
	_ = c.sessions.Communicate(attacker.Id, info)

	points := mc.NewMessage[mc.RespPoints](mc.CodePoints)
	points.AddPayload(mc.RespPoints{Score: attacker.Score()})
	_ = c.sessions.Communicate(attacker.Id, points)

	for _, eliminated := range result.Eliminated {
		c.eliminate(eliminated)
	}
}

// The eliminated player gets the final score and is dropped from the
// registry.
func (c *Coordinator) eliminate(player *mb.Player) {
	lost := mc.NewMessage[mc.RespMatchResult](mc.CodeLost)
	lost.AddPayload(mc.RespMatchResult{Score: player.Score()})
	_ = c.sessions.Communicate(player.Id, lost)

	if session := c.sessions.Remove(player.Id); session != nil {
		session.Close()
	}
	log.Printf("player eliminated: %s (id %d)\n", player.Name, player.Id)
	c.notifyEliminated(player)
}

func (c *Coordinator) handleMove(player *mb.Player, req mc.ReqMove) error {
	if _, err := c.game.Move(player.Id, req.ShipId, req.Coordinates); err != nil {
		return err
	}

	view, err := c.game.View(player.Id)
	if err != nil {
		return err
	}
	board := mc.NewMessage[mc.RespBoard](mc.CodeBoard)
	board.AddPayload(mc.NewRespBoard(view))
	_ = c.sessions.Communicate(player.Id, board)
	return nil
}

func (c *Coordinator) handlePurchase(player *mb.Player, req mc.ReqPurchase) error {
	ship, err := c.game.Purchase(player.Id, req.Tier)
	if err != nil {
		return err
	}

	success := mc.NewMessage[mc.RespPurchaseSuccess](mc.CodePurchaseSuccess)
	success.AddPayload(mc.RespPurchaseSuccess{Size: ship.Size(), Currency: player.Currency()})
	_ = c.sessions.Communicate(player.Id, success)

	notice := mc.NewMessage[mc.RespPurchaseNotice](mc.CodePurchaseNotice)
	notice.AddPayload(mc.RespPurchaseNotice{Name: player.Name, Size: ship.Size()})
	c.sessions.Broadcast(notice, player.Id)
	return nil
}

func (c *Coordinator) handleShowRanking(player *mb.Player) error {
	entries, err := c.loadRanking(context.Background())
	if err != nil {
		return cerr.ErrRankingUnavailable(err)
	}

	msg := mc.NewMessage[mc.RespRanking](mc.CodeRanking)
	msg.AddPayload(newRespRanking(entries))
	_ = c.sessions.Communicate(player.Id, msg)
	return nil
}

func (c *Coordinator) loadRanking(ctx context.Context) ([]ranking.Entry, error) {
	scores, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, cerr.ErrRankingEmpty
	}
	return ranking.Sorted(scores), nil
}

func (c *Coordinator) repeatAction(player *mb.Player, reason error) {
	msg := mc.NewMessage[mc.RespRepeatAction](mc.CodeRepeatAction)
	msg.AddPayload(mc.RespRepeatAction{
		Reason:   reason.Error(),
		Fleet:    player.FleetSummary(),
		Currency: player.Currency(),
	})
	_ = c.sessions.Communicate(player.Id, msg)
}

// finish announces the winner, if any, and adds the winner's score to
// the ranking.
func (c *Coordinator) finish(ctx context.Context, winner *mb.Player) error {
	if winner != nil {
		won := mc.NewMessage[mc.RespMatchResult](mc.CodeWon)
		won.AddPayload(mc.RespMatchResult{Score: winner.Score()})
		_ = c.sessions.Communicate(winner.Id, won)

		gameOver := mc.NewMessage[mc.RespGameOver](mc.CodeGameOver)
		gameOver.AddPayload(mc.RespGameOver{Name: winner.Name, Score: winner.Score()})
		c.sessions.Broadcast(gameOver)
		log.Printf("game over, winner: %s with %d points\n", winner.Name, winner.Score())
	} else {
		c.sessions.Broadcast(mc.NewMessage[mc.NoPayload](mc.CodeGameOver))
		log.Println("game over without survivors")
	}

	if c.analytics != nil {
		if err := c.analytics.IncrementGamesFinishedCount(ctx, c.serverIp); err != nil {
			log.Println("failed to increment games finished count:", err)
		}
	}

	if winner == nil {
		return nil
	}
	if err := c.store.Record(ctx, map[string]int{winner.Name: winner.Score()}); err != nil {
		return fmt.Errorf("failed to record ranking: %w", err)
	}
	return nil
}

func newRespRanking(entries []ranking.Entry) mc.RespRanking {
	resp := mc.RespRanking{Entries: make([]mc.RespRankingEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = mc.RespRankingEntry{Name: e.Name, Score: e.Score}
	}
	return resp
}

func invalidSignal(code uint8, err error) mc.Message[mc.NoPayload] {
	msg := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
	details := fmt.Sprintf("unexpected code: %d", code)
	if err != nil {
		details = err.Error()
	}
	msg.AddError(details, "invalid signal")
	return msg
}
