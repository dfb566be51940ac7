package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	cerr "github.com/saeidalz13/armada/internal/error"
	mc "github.com/saeidalz13/armada/models/connection"
)

const maxNameLength = 20

func (s *Server) HandleWs(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	session := mc.NewSession(conn)
	log.Println("a new connection established\tRemote Addr: ", session.RemoteAddr())
	go session.Listen()
	go s.serveSession(context.Background(), session)
}

// serveSession registers the player behind session and then waits
// for the connection to end. The game itself is driven by the
// coordinator.
func (s *Server) serveSession(ctx context.Context, session *mc.Session) {
	playerId, err := s.handshake(ctx, session)
	if err != nil {
		log.Printf("handshake failed [%s]: %s\n", session.RemoteAddr(), err)
		session.Close()
		return
	}

	<-session.Done()
	log.Printf("connection closed for player %d [%s]\n", playerId, session.RemoteAddr())
	s.coordinator.Leave(playerId)
}

// handshake asks for a display name until one is accepted.
func (s *Server) handshake(ctx context.Context, session *mc.Session) (int, error) {
	if err := session.Send(mc.NewMessage[mc.NoPayload](mc.CodeRegister)); err != nil {
		return -1, err
	}

	for {
		payload, err := session.Receive(ctx)
		if err != nil {
			return -1, err
		}

		code, err := mc.FetchCode(payload)
		if err != nil || code != mc.CodeRegisterName {
			if err := session.Send(invalidSignal(code, err)); err != nil {
				return -1, err
			}
			continue
		}

		msg, err := mc.DecodeMessage[mc.ReqRegister](payload)
		if err != nil {
			if err := session.Send(invalidSignal(code, err)); err != nil {
				return -1, err
			}
			continue
		}

		name := strings.TrimSpace(msg.Payload.Name)
		if name == "" || utf8.RuneCountInString(name) > maxNameLength {
			resp := mc.NewMessage[mc.NoPayload](mc.CodeRegister)
			resp.AddError(cerr.ErrInvalidName().Error(), "choose another name")
			if err := session.Send(resp); err != nil {
				return -1, err
			}
			continue
		}

		playerId, err := s.coordinator.Register(ctx, session, name)
		switch {
		case err == nil:
			return playerId, nil

		case errors.Is(err, cerr.ErrNameTaken):
			resp := mc.NewMessage[mc.NoPayload](mc.CodeNameInUse)
			resp.AddError(err.Error(), "choose another name")
			if err := session.Send(resp); err != nil {
				return -1, err
			}

		default:
			// game in progress, game full or server shutting down
			resp := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			resp.AddError(err.Error(), "registration refused")
			_ = session.Send(resp)
			return -1, err
		}
	}
}
