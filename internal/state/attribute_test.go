// SPDX-License-Identifier: Apache-2.0

package state

import (
	"testing"
	"time"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/require"
)

func TestAttribute_RoundTrip(t *testing.T) {
	req := require.New(t)

	a := Attribute{
		MigrateTime: time.Unix(1700000000, 0),
		Size:        131072,
		Device:      0xab12,
		Inode:       0xdeadbeef,
		State:       StateMigrated,
	}

	buf := a.Marshal()
	req.Len(buf, attrSize)

	got, err := Unmarshal(buf)
	req.NoError(err)
	req.Equal(a.MigrateTime.Unix(), got.MigrateTime.Unix())
	req.Equal(a.Size, got.Size)
	req.Equal(a.Device, got.Device)
	req.Equal(a.Inode, got.Inode)
	req.Equal(a.State, got.State)
}

func TestUnmarshal_BadMagic(t *testing.T) {
	req := require.New(t)

	a := Attribute{State: StateStart}
	buf := a.Marshal()
	buf[0] = 'X'

	_, err := Unmarshal(buf)
	req.Error(err)
	req.True(errorx.IsOfType(err, ErrProtocol))
}

func TestUnmarshal_WrongLength(t *testing.T) {
	req := require.New(t)

	_, err := Unmarshal([]byte{1, 2, 3})
	req.Error(err)
	req.True(errorx.IsOfType(err, ErrProtocol))
}

func TestUnmarshal_UnexpectedState(t *testing.T) {
	req := require.New(t)

	a := Attribute{State: State(99)}
	buf := a.Marshal()

	_, err := Unmarshal(buf)
	req.Error(err)
	req.True(errorx.IsOfType(err, ErrProtocol))
}
