package connection

import (
	"errors"
	"fmt"
)

const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopContinue
	ConnClosed
)

type ConnErr struct {
	code uint8
	desc string
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) Error() string {
	return fmt.Sprintf("Connection error - Code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// IsConnClosed reports whether err means the peer is gone for good.
func IsConnClosed(err error) bool {
	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return false
	}
	return connErr.code == ConnClosed || connErr.code == ConnLoopBreak
}
