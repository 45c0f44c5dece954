// Package httpmux mounts the admin handler and the avatar files onto the
// process root mux.
package httpmux

import (
	"io/fs"
	"net/http"

	routepath "github.com/louisbranch/lanparty/internal/services/admin/routepath"
)

// MountAvatars serves uploaded avatar images under the avatar URL prefix.
func MountAvatars(rootMux *http.ServeMux, avatarFS fs.FS) {
	if rootMux == nil || avatarFS == nil {
		return
	}
	rootMux.Handle(routepath.AvatarsPrefix, http.StripPrefix(routepath.AvatarsPrefix, http.FileServer(http.FS(avatarFS))))
}

// MountAdminRoutes mounts admin application routes under root path.
func MountAdminRoutes(rootMux *http.ServeMux, adminHandler http.Handler) {
	if rootMux == nil || adminHandler == nil {
		return
	}
	rootMux.Handle(routepath.Root, adminHandler)
}
