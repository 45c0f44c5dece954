// Package dbmodel re-exports the persistent board entities so callers need
// a single import.
package dbmodel

import (
	"github.com/louisbranch/lanparty/internal/services/board"
	"github.com/louisbranch/lanparty/internal/services/board/access"
	"github.com/louisbranch/lanparty/internal/services/board/lastview"
)

type (
	AccessGrant      = access.AccessGrant
	LastCategoryView = lastview.LastCategoryView
	LastTopicView    = lastview.LastTopicView
	Category         = board.Category
	Topic            = board.Topic
)
