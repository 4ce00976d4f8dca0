package admin

import (
	"net/http"

	"github.com/joeydtaylor/cetty/pkg/codec"
	"github.com/joeydtaylor/cetty/pkg/core"
)

type routeTable struct {
	Sealed bool             `json:"sealed"`
	Count  int              `json:"count"`
	Routes []core.RouteInfo `json:"routes"`
}

func routesHandler(reg *core.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := routeTable{Routes: []core.RouteInfo{}}
		if reg != nil {
			t.Sealed = reg.Sealed()
			t.Count = reg.Len()
			t.Routes = reg.Routes()
		}
		b, err := codec.JSON.Marshal(t)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", codec.JSON.ContentType())
		_, _ = w.Write(b)
	}
}
