package sqlite

import (
	"github.com/louisbranch/lanparty/internal/services/attendance"
	"github.com/louisbranch/lanparty/internal/services/authn"
	"github.com/louisbranch/lanparty/internal/services/board"
	"github.com/louisbranch/lanparty/internal/services/board/access"
	"github.com/louisbranch/lanparty/internal/services/board/lastview"
	"github.com/louisbranch/lanparty/internal/services/consent"
	"github.com/louisbranch/lanparty/internal/services/ticketing"
	"github.com/louisbranch/lanparty/internal/services/tourney"
	"github.com/louisbranch/lanparty/internal/services/useravatar"
	"github.com/louisbranch/lanparty/internal/services/userbadge"
	"github.com/louisbranch/lanparty/internal/services/users"
	"github.com/louisbranch/lanparty/internal/services/webhooks"
)

var (
	_ users.Store      = (*Store)(nil)
	_ authn.Store      = (*Store)(nil)
	_ attendance.Store = (*Store)(nil)
	_ ticketing.Store  = (*Store)(nil)
	_ tourney.Store    = (*Store)(nil)
	_ useravatar.Store = (*Store)(nil)
	_ userbadge.Store  = (*Store)(nil)
	_ consent.Store    = (*Store)(nil)
	_ webhooks.Store   = (*Store)(nil)
	_ board.Store      = (*Store)(nil)
	_ access.Store     = (*Store)(nil)
	_ lastview.Store   = (*Store)(nil)
)
