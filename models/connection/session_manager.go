package connection

import (
	"log"
	"sort"
	"sync"
	"time"

	cerr "github.com/saeidalz13/armada/internal/error"
)

// SessionManager maps player ids to their live sessions.
type SessionManager interface {
	Register(playerId int, session *Session)
	FindSession(playerId int) (*Session, error)
	Remove(playerId int) *Session
	PlayerIds() []int
	Communicate(playerId int, msg interface{}) error
	Broadcast(msg interface{}, exclude ...int)
	CleanupPeriodically(stop <-chan struct{})
}

type ArmadaSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[int]*Session
	mu              sync.RWMutex
}

func NewArmadaSessionManager() *ArmadaSessionManager {
	initMapSize := 10

	return &ArmadaSessionManager{
		sessions:        make(map[int]*Session, initMapSize),
		cleanupInterval: time.Minute * 2,
	}
}

var _ SessionManager = (*ArmadaSessionManager)(nil)

func (asm *ArmadaSessionManager) Register(playerId int, session *Session) {
	asm.mu.Lock()
	defer asm.mu.Unlock()

	asm.sessions[playerId] = session
}

func (asm *ArmadaSessionManager) FindSession(playerId int) (*Session, error) {
	asm.mu.RLock()
	defer asm.mu.RUnlock()

	session, prs := asm.sessions[playerId]
	if !prs || session == nil {
		return nil, cerr.ErrSessionNotFound(playerId)
	}

	return session, nil
}

// Remove drops the session from the registry and returns it, or nil
// if the player had none. Closing it is up to the caller.
func (asm *ArmadaSessionManager) Remove(playerId int) *Session {
	asm.mu.Lock()
	defer asm.mu.Unlock()

	session, prs := asm.sessions[playerId]
	if !prs {
		return nil
	}
	delete(asm.sessions, playerId)
	return session
}

// PlayerIds returns the registered ids in ascending order.
func (asm *ArmadaSessionManager) PlayerIds() []int {
	asm.mu.RLock()
	defer asm.mu.RUnlock()

	ids := make([]int, 0, len(asm.sessions))
	for id := range asm.sessions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// This method sends the msg to the session of playerId.
// A session that cannot be written to is removed.
func (asm *ArmadaSessionManager) Communicate(playerId int, msg interface{}) error {
	session, err := asm.FindSession(playerId)
	if err != nil {
		return err
	}

	if err := session.Send(msg); err != nil {
		log.Printf("dropping session of player %d: %s\n", playerId, err)
		asm.Remove(playerId)
		session.Close()
		return err
	}
	return nil
}

// Broadcast sends msg to every session except the excluded players.
// Failures are logged; the failing sessions are removed.
func (asm *ArmadaSessionManager) Broadcast(msg interface{}, exclude ...int) {
	for _, id := range asm.PlayerIds() {
		if contains(exclude, id) {
			continue
		}
		_ = asm.Communicate(id, msg)
	}
}

// Sessions whose read pump has stopped are removed on every tick.
// The game loop notices the missing session on its next send.
func (asm *ArmadaSessionManager) CleanupPeriodically(stop <-chan struct{}) {
	ticker := time.NewTicker(asm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		asm.mu.Lock()
		for id, session := range asm.sessions {
			select {
			case <-session.Done():
				delete(asm.sessions, id)
				log.Printf("removed closed session: %s (player %d)", session.Id(), id)
			default:
			}
		}
		asm.mu.Unlock()
	}
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
