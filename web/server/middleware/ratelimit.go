package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"go.hackfix.me/courseapi/web/server/api/util"
	"go.hackfix.me/courseapi/web/server/types"
)

// limiterExpiry is how long a client's limiter is kept after its last request.
const limiterExpiry = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	timeNow   func() time.Time
}

func (s *limiterStore) allow(client string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timeNow()
	if now.Sub(s.lastSweep) > limiterExpiry {
		for k, cl := range s.clients {
			if now.Sub(cl.lastSeen) > limiterExpiry {
				delete(s.clients, k)
			}
		}
		s.lastSweep = now
	}

	cl, ok := s.clients[client]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[client] = cl
	}
	cl.lastSeen = now

	return cl.limiter.AllowN(now, 1)
}

// RateLimit limits the rate of requests per client host to reqPerSec, allowing
// bursts of up to burst requests. Requests over the limit get a 429 response.
func RateLimit(reqPerSec float64, burst int, timeNow func() time.Time) Middleware {
	if burst < 1 {
		burst = 1
	}
	store := &limiterStore{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(reqPerSec),
		burst:   burst,
		timeNow: timeNow,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !store.allow(host) {
				_ = util.WriteJSON(w, http.StatusTooManyRequests,
					types.NewError(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
