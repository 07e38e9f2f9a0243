// SPDX-License-Identifier: Apache-2.0

package simprovider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/hacksm-project/hacksm/internal/dmapi"
	"github.com/hacksm-project/hacksm/pkg/erx"
)

// tokenEntry tracks one open token. respCh is non-nil only for tokens
// created by Trap, where a caller is actually blocked waiting on Respond.
type tokenEntry struct {
	msg    dmapi.Message
	respCh chan dmapi.Response
}

func tokenIDFromFilename(name string) string {
	return strings.TrimSuffix(name, ".json")
}

func (s *Session) persistToken(id string, msg dmapi.Message) error {
	pt := persistedToken{
		Type:   msg.Type,
		Path:   msg.Handle.Path,
		Device: msg.Handle.Device,
		Inode:  msg.Handle.Inode,
	}
	raw, err := json.Marshal(pt)
	if err != nil {
		return erx.NewProtocolError(err.Error())
	}
	if err := s.fsMgr.WriteFile(tokenFilePath(s.tokenDir, id), raw); err != nil {
		return dmapi.ErrTransport(err, "persist token")
	}
	return nil
}

func (s *Session) newToken(eventType dmapi.EventType, handle dmapi.Handle, respCh chan dmapi.Response) (dmapi.Token, error) {
	id := uuid.NewString()
	msg := dmapi.Message{Type: eventType, Handle: handle, Token: dmapi.Token{ID: id}}

	if err := s.persistToken(id, msg); err != nil {
		return dmapi.Token{}, err
	}

	s.mu.Lock()
	s.tokens[id] = &tokenEntry{msg: msg, respCh: respCh}
	s.mu.Unlock()

	return msg.Token, nil
}

// Trap simulates a trapped user I/O: it enqueues the event and blocks until
// Respond is called on the resulting token, or ctx is canceled.
func (s *Session) Trap(ctx context.Context, eventType dmapi.EventType, handle dmapi.Handle) (dmapi.Response, error) {
	respCh := make(chan dmapi.Response, 1)
	token, err := s.newToken(eventType, handle, respCh)
	if err != nil {
		return dmapi.Response{}, err
	}

	msg := dmapi.Message{Type: eventType, Handle: handle, Token: token}
	select {
	case s.events <- msg:
	case <-ctx.Done():
		s.dropToken(token.ID)
		return dmapi.Response{}, ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return dmapi.Response{}, ctx.Err()
	}
}

// NewToken creates a token without enqueuing anything or blocking any
// caller: the shape the migrator uses to stand in for its own user I/O.
func (s *Session) NewToken(eventType dmapi.EventType, handle dmapi.Handle) (dmapi.Token, error) {
	return s.newToken(eventType, handle, nil)
}

func (s *Session) dropToken(id string) {
	s.mu.Lock()
	delete(s.tokens, id)
	s.mu.Unlock()
	s.fsMgr.RemoveAll(tokenFilePath(s.tokenDir, id))
}

// Respond closes token: it records the resolution, releases any caller
// blocked in Trap, and removes the token's persisted recovery record.
func (s *Session) Respond(token dmapi.Token, code dmapi.ResponseCode, errno int) error {
	s.mu.Lock()
	entry, ok := s.tokens[token.ID]
	if ok {
		delete(s.tokens, token.ID)
	}
	s.mu.Unlock()

	if !ok {
		return erx.NewProtocolError("respond on unknown or already-closed token " + token.ID)
	}

	if entry.respCh != nil {
		entry.respCh <- dmapi.Response{Code: code, Errno: errno}
		close(entry.respCh)
	}

	s.fsMgr.RemoveAll(tokenFilePath(s.tokenDir, token.ID))
	return nil
}

// OutstandingTokens lists every token not yet responded to.
func (s *Session) OutstandingTokens() ([]dmapi.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := make([]dmapi.Token, 0, len(s.tokens))
	for id := range s.tokens {
		tokens = append(tokens, dmapi.Token{ID: id})
	}
	return tokens, nil
}

// FindEventMsg returns the message an outstanding token was created for.
func (s *Session) FindEventMsg(token dmapi.Token) (dmapi.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token.ID]
	if !ok {
		return dmapi.Message{}, false
	}
	return entry.msg, true
}
