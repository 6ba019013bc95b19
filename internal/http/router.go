package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Rooms    *RoomHandler
	Bookings *BookingHandler
	// Authorize wraps mutating routes; read routes stay public.
	Authorize  func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Authorize == nil {
			return h
		}
		return cfg.Authorize(h)
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		newResponder(nil).writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.Rooms != nil {
		mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.List(w, r)
			case http.MethodPost:
				protect(cfg.Rooms.Create).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
			segments := splitPath(strings.TrimPrefix(r.URL.Path, "/rooms/"))
			if len(segments) == 0 {
				http.NotFound(w, r)
				return
			}

			ctx := ContextWithRoomID(r.Context(), segments[0])
			r = r.WithContext(ctx)

			switch {
			case len(segments) == 1:
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Rooms.Get(w, r)
			case len(segments) == 2 && segments[1] == "bookings" && cfg.Bookings != nil:
				switch r.Method {
				case http.MethodGet:
					cfg.Bookings.List(w, r)
				case http.MethodPost:
					protect(cfg.Bookings.Create).ServeHTTP(w, r)
				default:
					methodNotAllowed(w, http.MethodGet, http.MethodPost)
				}
			case len(segments) == 3 && segments[1] == "bookings" && cfg.Bookings != nil:
				r = r.WithContext(ContextWithBookingID(r.Context(), segments[2]))
				if r.Method != http.MethodPut {
					methodNotAllowed(w, http.MethodPut)
					return
				}
				protect(cfg.Bookings.Reschedule).ServeHTTP(w, r)
			case len(segments) == 4 && segments[1] == "bookings" && segments[3] == "cancel" && cfg.Bookings != nil:
				r = r.WithContext(ContextWithBookingID(r.Context(), segments[2]))
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				protect(cfg.Bookings.Cancel).ServeHTTP(w, r)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// splitPath breaks a trimmed URL path into its non-empty segments. A trailing
// slash does not produce an extra segment.
func splitPath(path string) []string {
	raw := strings.Split(path, "/")
	segments := make([]string, 0, len(raw))
	for _, segment := range raw {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
